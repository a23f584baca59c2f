package payroll

import (
	"github.com/awtadhr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// RunPayrollRequest selects the payroll month. Used by run, recalculate and
// post operations.
type RunPayrollRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *RunPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// RepostRequest reopens a posted summary. Actor is recorded for the audit
// trail.
type RepostRequest struct {
	ID    string `json:"id"`
	Actor string `json:"actor"`
}

func (r *RepostRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if validator.IsEmpty(r.Actor) {
		errs = append(errs, validator.ValidationError{
			Field:   "actor",
			Message: "actor is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// SummaryResponse represents the response structure for a payroll summary.
type SummaryResponse struct {
	ID              string          `json:"id"`
	PayrollMonth    int             `json:"payroll_month"`
	PayrollYear     int             `json:"payroll_year"`
	EmployeeCount   int             `json:"employee_count"`
	TotalBasic      decimal.Decimal `json:"total_basic"`
	TotalAllowances decimal.Decimal `json:"total_allowances"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNet        decimal.Decimal `json:"total_net"`
	TotalBank       decimal.Decimal `json:"total_bank"`
	TotalCash       decimal.Decimal `json:"total_cash"`
	Status          string          `json:"status"`
	PostedAt        *string         `json:"posted_at,omitempty"`
	RepostedAt      *string         `json:"reposted_at,omitempty"`
	RepostedBy      *string         `json:"reposted_by,omitempty"`
}

// EmployeePayrollResponse represents one employee's row in the month view.
type EmployeePayrollResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	EmployeeCode     string          `json:"employee_code,omitempty"`
	EmployeeName     string          `json:"employee_name,omitempty"`
	BasicSalary      decimal.Decimal `json:"basic_salary"`
	Allowances       decimal.Decimal `json:"allowances"`
	LoanRecovery     decimal.Decimal `json:"loan_recovery"`
	ChallanDeduction decimal.Decimal `json:"challan_deduction"`
	GrossPay         decimal.Decimal `json:"gross_pay"`
	NetPay           decimal.Decimal `json:"net_pay"`
	PaymentMethod    string          `json:"payment_method"`
}

// MonthViewResponse is the summary plus its employee rows.
type MonthViewResponse struct {
	Summary SummaryResponse           `json:"summary"`
	Rows    []EmployeePayrollResponse `json:"rows"`
}
