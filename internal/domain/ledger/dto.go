package ledger

import (
	"github.com/awtadhr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// CreateLoanRequest represents the request structure for creating a loan
// transaction.
type CreateLoanRequest struct {
	EmployeeID string          `json:"employee_id"`
	TxnDate    string          `json:"txn_date"`
	TxnType    string          `json:"txn_type"`
	Amount     decimal.Decimal `json:"amount"`
	Remarks    *string         `json:"remarks,omitempty"`
}

func (r *CreateLoanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.TxnDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "txn_date",
			Message: "txn_date must be a valid date (YYYY-MM-DD)",
		})
	}

	if !validator.IsInSlice(r.TxnType, []string{string(LoanTypeLoan), string(LoanTypeReturn)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "txn_type",
			Message: "txn_type must be one of: loan, return",
		})
	}

	if !validator.IsPositiveAmount(r.Amount) {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be greater than zero",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateLoanRequest represents the request structure for updating a loan
// transaction.
type UpdateLoanRequest struct {
	ID         string           `json:"id"`
	EmployeeID *string          `json:"employee_id,omitempty"`
	TxnDate    *string          `json:"txn_date,omitempty"`
	TxnType    *string          `json:"txn_type,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Remarks    *string          `json:"remarks,omitempty"`
}

func (r *UpdateLoanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.EmployeeID != nil && validator.IsEmpty(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must not be empty",
		})
	}

	if r.TxnDate != nil {
		if _, ok := validator.IsValidDate(*r.TxnDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "txn_date",
				Message: "txn_date must be a valid date (YYYY-MM-DD)",
			})
		}
	}

	if r.TxnType != nil && !validator.IsInSlice(*r.TxnType, []string{string(LoanTypeLoan), string(LoanTypeReturn)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "txn_type",
			Message: "txn_type must be one of: loan, return",
		})
	}

	if r.Amount != nil && !validator.IsPositiveAmount(*r.Amount) {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be greater than zero",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// CreateChallanRequest represents the request structure for creating a
// traffic challan transaction.
type CreateChallanRequest struct {
	EmployeeID  string          `json:"employee_id"`
	TxnDate     string          `json:"txn_date"`
	TxnType     string          `json:"txn_type"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description,omitempty"`
}

func (r *CreateChallanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.TxnDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "txn_date",
			Message: "txn_date must be a valid date (YYYY-MM-DD)",
		})
	}

	if !validator.IsInSlice(r.TxnType, []string{string(ChallanTypeChallan), string(ChallanTypeReturn)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "txn_type",
			Message: "txn_type must be one of: challan, return",
		})
	}

	if !validator.IsPositiveAmount(r.Amount) {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be greater than zero",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateChallanRequest represents the request structure for updating a
// traffic challan transaction.
type UpdateChallanRequest struct {
	ID          string           `json:"id"`
	EmployeeID  *string          `json:"employee_id,omitempty"`
	TxnDate     *string          `json:"txn_date,omitempty"`
	TxnType     *string          `json:"txn_type,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Description *string          `json:"description,omitempty"`
}

func (r *UpdateChallanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.EmployeeID != nil && validator.IsEmpty(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must not be empty",
		})
	}

	if r.TxnDate != nil {
		if _, ok := validator.IsValidDate(*r.TxnDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "txn_date",
				Message: "txn_date must be a valid date (YYYY-MM-DD)",
			})
		}
	}

	if r.TxnType != nil && !validator.IsInSlice(*r.TxnType, []string{string(ChallanTypeChallan), string(ChallanTypeReturn)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "txn_type",
			Message: "txn_type must be one of: challan, return",
		})
	}

	if r.Amount != nil && !validator.IsPositiveAmount(*r.Amount) {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be greater than zero",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// LoanResponse represents the response structure for a loan transaction.
type LoanResponse struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employee_id"`
	TxnDate    string          `json:"txn_date"`
	TxnType    string          `json:"txn_type"`
	Amount     decimal.Decimal `json:"amount"`
	Remarks    *string         `json:"remarks,omitempty"`
}

// ChallanResponse represents the response structure for a traffic challan
// transaction.
type ChallanResponse struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	TxnDate     string          `json:"txn_date"`
	TxnType     string          `json:"txn_type"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description,omitempty"`
}

// EntryResponse represents one ledger row in the employee ledger view.
type EntryResponse struct {
	ID          string          `json:"id"`
	EntryDate   string          `json:"entry_date"`
	EntryType   string          `json:"entry_type"`
	AmountType  string          `json:"amount_type"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	Description string          `json:"description"`
}

// EmployeeLedgerResponse is the chronological ledger projection for one
// employee.
type EmployeeLedgerResponse struct {
	EmployeeID     string          `json:"employee_id"`
	EmployeeCode   string          `json:"employee_code"`
	EmployeeName   string          `json:"employee_name"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Entries        []EntryResponse `json:"entries"`
}
