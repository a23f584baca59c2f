package payroll

import (
	"time"

	"github.com/awtadhr/payroll-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// SummaryStatus enum. Pending summaries may be recalculated; Posted ones are
// finalized and only an explicit Repost reopens them.
type SummaryStatus string

const (
	SummaryStatusPending SummaryStatus = "pending"
	SummaryStatusPosted  SummaryStatus = "posted"
)

// EmployeePayroll - one employee's computed figures for a payroll month.
type EmployeePayroll struct {
	ID               string
	EmployeeID       string
	PayrollMonth     int
	PayrollYear      int
	BasicSalary      decimal.Decimal
	Allowances       decimal.Decimal
	LoanRecovery     decimal.Decimal
	ChallanDeduction decimal.Decimal
	GrossPay         decimal.Decimal
	NetPay           decimal.Decimal
	PaymentMethod    employee.PaymentMethod
	CreatedAt        time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// Summary - one row per payroll month aggregating every employee's figures.
type Summary struct {
	ID              string
	PayrollMonth    int
	PayrollYear     int
	EmployeeCount   int
	TotalBasic      decimal.Decimal
	TotalAllowances decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalNet        decimal.Decimal
	TotalBank       decimal.Decimal
	TotalCash       decimal.Decimal
	Status          SummaryStatus
	PostedAt        *time.Time
	RepostedAt      *time.Time
	RepostedBy      *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
