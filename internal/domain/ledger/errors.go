package ledger

import "errors"

var (
	ErrLoanNotFound    = errors.New("loan transaction not found")
	ErrChallanNotFound = errors.New("traffic challan transaction not found")
	ErrEntryNotFound   = errors.New("ledger entry not found")

	// ErrPairedEntryMissing signals prior data corruption: a loan/challan row
	// exists with no paired ledger entry. Surfaced, never silently repaired.
	ErrPairedEntryMissing = errors.New("paired ledger entry missing for transaction")
)
