package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

type LoanRepository interface {
	Create(ctx context.Context, txn LoanTransaction) (LoanTransaction, error)
	GetByID(ctx context.Context, id string) (LoanTransaction, error)
	GetByEmployeeID(ctx context.Context, employeeID string) ([]LoanTransaction, error)
	Update(ctx context.Context, txn LoanTransaction) error
	Delete(ctx context.Context, id string) error
}

type ChallanRepository interface {
	Create(ctx context.Context, txn TrafficChallanTransaction) (TrafficChallanTransaction, error)
	GetByID(ctx context.Context, id string) (TrafficChallanTransaction, error)
	GetByEmployeeID(ctx context.Context, employeeID string) ([]TrafficChallanTransaction, error)
	Update(ctx context.Context, txn TrafficChallanTransaction) error
	Delete(ctx context.Context, id string) error
}

type EntryRepository interface {
	Create(ctx context.Context, entry Entry) (Entry, error)
	GetBySource(ctx context.Context, source Source) (Entry, error)
	Update(ctx context.Context, entry Entry) error
	Delete(ctx context.Context, id string) error
	DeleteBySource(ctx context.Context, source Source) error

	// GetByEmployeeID returns the employee's entries in (entry_date, id)
	// order. ids are uuidv7, so the id tiebreak preserves insertion order for
	// same-day entries.
	GetByEmployeeID(ctx context.Context, employeeID string) ([]Entry, error)

	// GetByEmployeeIDForUpdate is GetByEmployeeID with the rows locked, so
	// that two concurrent recomputes for the same employee serialize.
	GetByEmployeeIDForUpdate(ctx context.Context, employeeID string) ([]Entry, error)

	// UpdateBalances persists corrected balances for the given entry ids.
	UpdateBalances(ctx context.Context, balances map[string]decimal.Decimal) error

	// SumSignedByEmployeeMonth aggregates the signed debit/credit amounts of
	// the employee's entries within a payroll month, per entry type.
	SumByEmployeeMonth(ctx context.Context, employeeID string, month, year int) (MonthlyTotals, error)
}

// MonthlyTotals are the per-type debit sums used by the payroll run.
type MonthlyTotals struct {
	LoanDebits     decimal.Decimal
	LoanCredits    decimal.Decimal
	ChallanDebits  decimal.Decimal
	ChallanCredits decimal.Decimal
}
