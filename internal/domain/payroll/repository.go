package payroll

import (
	"context"
	"time"
)

type PayrollRepository interface {
	// Summary lifecycle
	GetSummary(ctx context.Context, month, year int) (Summary, error)
	GetSummaryByID(ctx context.Context, id string) (Summary, error)
	UpsertSummary(ctx context.Context, s Summary) (Summary, error)

	// MarkPosted transitions the month's summary Pending -> Posted. Returns
	// false when the summary exists but is not Pending.
	MarkPosted(ctx context.Context, month, year int, postedAt time.Time) (bool, error)

	// MarkPending reopens a Posted summary, recording who and when. Returns
	// false when the summary is not Posted.
	MarkPending(ctx context.Context, id string, repostedBy string, repostedAt time.Time) (bool, error)

	// Employee rows
	InsertEmployeePayrolls(ctx context.Context, rows []EmployeePayroll) error
	DeleteEmployeePayrolls(ctx context.Context, month, year int) error
	GetEmployeePayrolls(ctx context.Context, month, year int) ([]EmployeePayroll, error)
}
