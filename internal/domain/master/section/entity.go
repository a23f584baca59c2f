package section

import "time"

// PayrollSection - groups employees for payroll processing and report
// ordering. Shares the dense display-rank invariant with designations: the
// non-null DisplayOrderKey values always form a contiguous 1..N range.
type PayrollSection struct {
	ID              string
	Name            string
	DisplayOrderKey *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
