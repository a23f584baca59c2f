package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanType enum
type LoanType string

const (
	LoanTypeLoan   LoanType = "loan"   // money given to the employee
	LoanTypeReturn LoanType = "return" // money returned by the employee
)

// LoanTransaction - money advanced to or recovered from an employee
type LoanTransaction struct {
	ID         string
	EmployeeID string
	TxnDate    time.Time
	TxnType    LoanType
	Amount     decimal.Decimal
	Remarks    *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ChallanType enum
type ChallanType string

const (
	ChallanTypeChallan ChallanType = "challan" // traffic fine advanced by the company
	ChallanTypeReturn  ChallanType = "return"  // fine amount recovered
)

// TrafficChallanTransaction - a traffic fine advanced/recovered
type TrafficChallanTransaction struct {
	ID          string
	EmployeeID  string
	TxnDate     time.Time
	TxnType     ChallanType
	Amount      decimal.Decimal
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EntryType enum
type EntryType string

const (
	EntryTypeSalary  EntryType = "salary"
	EntryTypeLoan    EntryType = "loan"
	EntryTypeChallan EntryType = "challan"
)

// AmountType enum. Debits increase what the employee owes the company,
// credits reduce it.
type AmountType string

const (
	AmountTypeCredit AmountType = "credit"
	AmountTypeDebit  AmountType = "debit"
)

// SourceKind enum for the ledger entry's originating record.
type SourceKind string

const (
	SourceSalary  SourceKind = "salary"
	SourceLoan    SourceKind = "loan"
	SourceChallan SourceKind = "challan"
)

// Source is the tagged origin of a ledger entry: a salary posting, a loan
// transaction, or a challan transaction. RefID is empty for salary. Modeling
// this as one variant rather than two independent nullable keys makes a row
// referencing both impossible.
type Source struct {
	Kind  SourceKind
	RefID string
}

func SalarySource() Source           { return Source{Kind: SourceSalary} }
func LoanSource(id string) Source    { return Source{Kind: SourceLoan, RefID: id} }
func ChallanSource(id string) Source { return Source{Kind: SourceChallan, RefID: id} }

// Entry is one signed monetary movement in an employee's running ledger.
// Balance is a derived, persisted snapshot: it must equal the cumulative
// signed sum of all of the employee's entries up to and including this one in
// (entry_date, id) order, seeded from the employee's opening balance. Only
// the recalculation engine writes it after insert.
type Entry struct {
	ID          string
	EmployeeID  string
	EntryDate   time.Time
	EntryType   EntryType
	AmountType  AmountType
	Amount      decimal.Decimal
	Balance     decimal.Decimal
	Description string
	Source      Source
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SignedAmount is the entry's contribution to the running balance.
func (e Entry) SignedAmount() decimal.Decimal {
	if e.AmountType == AmountTypeCredit {
		return e.Amount
	}
	return e.Amount.Neg()
}
