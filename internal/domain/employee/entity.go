package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod decides the bank/cash split on the monthly payroll.
type PaymentMethod string

const (
	PaymentMethodBank PaymentMethod = "bank"
	PaymentMethodCash PaymentMethod = "cash"
)

// Employee carries the attributes the ledger and payroll subsystems read.
// Employee master maintenance lives in the surrounding CRUD layer.
type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	DesignationID    *string
	PayrollSectionID *string
	BranchID         *string
	BasicSalary      decimal.Decimal
	Allowances       decimal.Decimal
	PaymentMethod    PaymentMethod
	OpeningBalance   decimal.Decimal
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
