package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/awtadhr/payroll-backend-go/internal/domain/employee"
	"github.com/awtadhr/payroll-backend-go/internal/domain/ledger"
	"github.com/awtadhr/payroll-backend-go/internal/pkg/events"
	"github.com/awtadhr/payroll-backend-go/internal/repository/postgresql"
)

type LedgerService interface {
	// Loan transactions
	CreateLoan(ctx context.Context, req ledger.CreateLoanRequest) (ledger.LoanResponse, error)
	GetLoan(ctx context.Context, id string) (ledger.LoanResponse, error)
	ListLoans(ctx context.Context, employeeID string) ([]ledger.LoanResponse, error)
	UpdateLoan(ctx context.Context, req ledger.UpdateLoanRequest) error
	DeleteLoan(ctx context.Context, id string) error

	// Traffic challan transactions
	CreateChallan(ctx context.Context, req ledger.CreateChallanRequest) (ledger.ChallanResponse, error)
	GetChallan(ctx context.Context, id string) (ledger.ChallanResponse, error)
	ListChallans(ctx context.Context, employeeID string) ([]ledger.ChallanResponse, error)
	UpdateChallan(ctx context.Context, req ledger.UpdateChallanRequest) error
	DeleteChallan(ctx context.Context, id string) error

	// Ledger projection
	GetEmployeeLedger(ctx context.Context, employeeCode string) (ledger.EmployeeLedgerResponse, error)
}

type ledgerServiceImpl struct {
	tx           postgresql.Transactor
	loanRepo     ledger.LoanRepository
	challanRepo  ledger.ChallanRepository
	entryRepo    ledger.EntryRepository
	employeeRepo employee.EmployeeRepository
	bus          *events.Bus
}

func NewLedgerService(
	tx postgresql.Transactor,
	loanRepo ledger.LoanRepository,
	challanRepo ledger.ChallanRepository,
	entryRepo ledger.EntryRepository,
	employeeRepo employee.EmployeeRepository,
	bus *events.Bus,
) LedgerService {
	return &ledgerServiceImpl{
		tx:           tx,
		loanRepo:     loanRepo,
		challanRepo:  challanRepo,
		entryRepo:    entryRepo,
		employeeRepo: employeeRepo,
		bus:          bus,
	}
}

// loanAmountType maps the transaction type to the ledger side: money going
// out to the employee is a debit, money coming back is a credit.
func loanAmountType(t ledger.LoanType) ledger.AmountType {
	if t == ledger.LoanTypeReturn {
		return ledger.AmountTypeCredit
	}
	return ledger.AmountTypeDebit
}

func challanAmountType(t ledger.ChallanType) ledger.AmountType {
	if t == ledger.ChallanTypeReturn {
		return ledger.AmountTypeCredit
	}
	return ledger.AmountTypeDebit
}

func loanDescription(t ledger.LoanType, remarks *string) string {
	if remarks != nil && *remarks != "" {
		return *remarks
	}
	if t == ledger.LoanTypeReturn {
		return "Loan return"
	}
	return "Loan issued"
}

func challanDescription(t ledger.ChallanType, description *string) string {
	if description != nil && *description != "" {
		return *description
	}
	if t == ledger.ChallanTypeReturn {
		return "Challan return"
	}
	return "Traffic challan"
}

// getPairedEntry loads the ledger entry owned by a transaction. A missing
// entry means the pairing invariant was already broken; that is surfaced as
// an integrity error, never repaired on the fly.
func (s *ledgerServiceImpl) getPairedEntry(ctx context.Context, source ledger.Source) (ledger.Entry, error) {
	entry, err := s.entryRepo.GetBySource(ctx, source)
	if err != nil {
		if errors.Is(err, ledger.ErrEntryNotFound) {
			slog.Error("ledger integrity violation: transaction has no paired entry",
				"source_kind", source.Kind,
				"source_id", source.RefID,
			)
			return ledger.Entry{}, ledger.ErrPairedEntryMissing
		}
		return ledger.Entry{}, err
	}
	return entry, nil
}

// ==================== LOAN OPERATIONS ====================

func (s *ledgerServiceImpl) CreateLoan(ctx context.Context, req ledger.CreateLoanRequest) (ledger.LoanResponse, error) {
	if err := req.Validate(); err != nil {
		return ledger.LoanResponse{}, err
	}

	txnDate, _ := time.Parse("2006-01-02", req.TxnDate)
	txnType := ledger.LoanType(req.TxnType)

	var created ledger.LoanTransaction
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		created, err = s.loanRepo.Create(ctx, ledger.LoanTransaction{
			EmployeeID: req.EmployeeID,
			TxnDate:    txnDate,
			TxnType:    txnType,
			Amount:     req.Amount,
			Remarks:    req.Remarks,
		})
		if err != nil {
			return err
		}

		_, err = s.entryRepo.Create(ctx, ledger.Entry{
			EmployeeID:  req.EmployeeID,
			EntryDate:   txnDate,
			EntryType:   ledger.EntryTypeLoan,
			AmountType:  loanAmountType(txnType),
			Amount:      req.Amount,
			Description: loanDescription(txnType, req.Remarks),
			Source:      ledger.LoanSource(created.ID),
		})
		if err != nil {
			return err
		}

		return recalculateBalances(ctx, s.entryRepo, emp)
	})
	if err != nil {
		return ledger.LoanResponse{}, err
	}

	s.bus.Publish(ctx, events.NewEntityChanged("loans", created.ID))

	return toLoanResponse(created), nil
}

func (s *ledgerServiceImpl) GetLoan(ctx context.Context, id string) (ledger.LoanResponse, error) {
	txn, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return ledger.LoanResponse{}, err
	}
	return toLoanResponse(txn), nil
}

func (s *ledgerServiceImpl) ListLoans(ctx context.Context, employeeID string) ([]ledger.LoanResponse, error) {
	if exists, err := s.employeeRepo.ExistsByID(ctx, employeeID); err != nil {
		return nil, err
	} else if !exists {
		return nil, employee.ErrEmployeeNotFound
	}

	txns, err := s.loanRepo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	responses := make([]ledger.LoanResponse, 0, len(txns))
	for _, txn := range txns {
		responses = append(responses, toLoanResponse(txn))
	}
	return responses, nil
}

func (s *ledgerServiceImpl) UpdateLoan(ctx context.Context, req ledger.UpdateLoanRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		txn, err := s.loanRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		previousEmployeeID := txn.EmployeeID

		if req.EmployeeID != nil {
			txn.EmployeeID = *req.EmployeeID
		}
		if req.TxnDate != nil {
			txn.TxnDate, _ = time.Parse("2006-01-02", *req.TxnDate)
		}
		if req.TxnType != nil {
			txn.TxnType = ledger.LoanType(*req.TxnType)
		}
		if req.Amount != nil {
			txn.Amount = *req.Amount
		}
		if req.Remarks != nil {
			txn.Remarks = req.Remarks
		}

		emp, err := s.employeeRepo.GetByID(ctx, txn.EmployeeID)
		if err != nil {
			return err
		}

		entry, err := s.getPairedEntry(ctx, ledger.LoanSource(txn.ID))
		if err != nil {
			return err
		}

		if err := s.loanRepo.Update(ctx, txn); err != nil {
			return err
		}

		entry.EmployeeID = txn.EmployeeID
		entry.EntryDate = txn.TxnDate
		entry.AmountType = loanAmountType(txn.TxnType)
		entry.Amount = txn.Amount
		entry.Description = loanDescription(txn.TxnType, txn.Remarks)
		if err := s.entryRepo.Update(ctx, entry); err != nil {
			return err
		}

		if err := recalculateBalances(ctx, s.entryRepo, emp); err != nil {
			return err
		}

		// Moving the transaction between employees leaves a hole in the
		// previous employee's history too.
		if previousEmployeeID != txn.EmployeeID {
			prev, err := s.employeeRepo.GetByID(ctx, previousEmployeeID)
			if err != nil {
				return err
			}
			return recalculateBalances(ctx, s.entryRepo, prev)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, events.NewEntityChanged("loans", req.ID))

	return nil
}

func (s *ledgerServiceImpl) DeleteLoan(ctx context.Context, id string) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		txn, err := s.loanRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		emp, err := s.employeeRepo.GetByID(ctx, txn.EmployeeID)
		if err != nil {
			return err
		}

		// Verify the pairing before touching anything so a broken invariant
		// surfaces instead of deleting half a pair.
		if _, err := s.getPairedEntry(ctx, ledger.LoanSource(id)); err != nil {
			return err
		}

		if err := s.entryRepo.DeleteBySource(ctx, ledger.LoanSource(id)); err != nil {
			return err
		}

		if err := s.loanRepo.Delete(ctx, id); err != nil {
			return err
		}

		return recalculateBalances(ctx, s.entryRepo, emp)
	})
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, events.NewEntityChanged("loans", id))

	return nil
}

// ==================== CHALLAN OPERATIONS ====================

func (s *ledgerServiceImpl) CreateChallan(ctx context.Context, req ledger.CreateChallanRequest) (ledger.ChallanResponse, error) {
	if err := req.Validate(); err != nil {
		return ledger.ChallanResponse{}, err
	}

	txnDate, _ := time.Parse("2006-01-02", req.TxnDate)
	txnType := ledger.ChallanType(req.TxnType)

	var created ledger.TrafficChallanTransaction
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		created, err = s.challanRepo.Create(ctx, ledger.TrafficChallanTransaction{
			EmployeeID:  req.EmployeeID,
			TxnDate:     txnDate,
			TxnType:     txnType,
			Amount:      req.Amount,
			Description: req.Description,
		})
		if err != nil {
			return err
		}

		_, err = s.entryRepo.Create(ctx, ledger.Entry{
			EmployeeID:  req.EmployeeID,
			EntryDate:   txnDate,
			EntryType:   ledger.EntryTypeChallan,
			AmountType:  challanAmountType(txnType),
			Amount:      req.Amount,
			Description: challanDescription(txnType, req.Description),
			Source:      ledger.ChallanSource(created.ID),
		})
		if err != nil {
			return err
		}

		return recalculateBalances(ctx, s.entryRepo, emp)
	})
	if err != nil {
		return ledger.ChallanResponse{}, err
	}

	s.bus.Publish(ctx, events.NewEntityChanged("traffic_challans", created.ID))

	return toChallanResponse(created), nil
}

func (s *ledgerServiceImpl) GetChallan(ctx context.Context, id string) (ledger.ChallanResponse, error) {
	txn, err := s.challanRepo.GetByID(ctx, id)
	if err != nil {
		return ledger.ChallanResponse{}, err
	}
	return toChallanResponse(txn), nil
}

func (s *ledgerServiceImpl) ListChallans(ctx context.Context, employeeID string) ([]ledger.ChallanResponse, error) {
	if exists, err := s.employeeRepo.ExistsByID(ctx, employeeID); err != nil {
		return nil, err
	} else if !exists {
		return nil, employee.ErrEmployeeNotFound
	}

	txns, err := s.challanRepo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	responses := make([]ledger.ChallanResponse, 0, len(txns))
	for _, txn := range txns {
		responses = append(responses, toChallanResponse(txn))
	}
	return responses, nil
}

func (s *ledgerServiceImpl) UpdateChallan(ctx context.Context, req ledger.UpdateChallanRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		txn, err := s.challanRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		previousEmployeeID := txn.EmployeeID

		if req.EmployeeID != nil {
			txn.EmployeeID = *req.EmployeeID
		}
		if req.TxnDate != nil {
			txn.TxnDate, _ = time.Parse("2006-01-02", *req.TxnDate)
		}
		if req.TxnType != nil {
			txn.TxnType = ledger.ChallanType(*req.TxnType)
		}
		if req.Amount != nil {
			txn.Amount = *req.Amount
		}
		if req.Description != nil {
			txn.Description = req.Description
		}

		emp, err := s.employeeRepo.GetByID(ctx, txn.EmployeeID)
		if err != nil {
			return err
		}

		entry, err := s.getPairedEntry(ctx, ledger.ChallanSource(txn.ID))
		if err != nil {
			return err
		}

		if err := s.challanRepo.Update(ctx, txn); err != nil {
			return err
		}

		entry.EmployeeID = txn.EmployeeID
		entry.EntryDate = txn.TxnDate
		entry.AmountType = challanAmountType(txn.TxnType)
		entry.Amount = txn.Amount
		entry.Description = challanDescription(txn.TxnType, txn.Description)
		if err := s.entryRepo.Update(ctx, entry); err != nil {
			return err
		}

		if err := recalculateBalances(ctx, s.entryRepo, emp); err != nil {
			return err
		}

		if previousEmployeeID != txn.EmployeeID {
			prev, err := s.employeeRepo.GetByID(ctx, previousEmployeeID)
			if err != nil {
				return err
			}
			return recalculateBalances(ctx, s.entryRepo, prev)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, events.NewEntityChanged("traffic_challans", req.ID))

	return nil
}

func (s *ledgerServiceImpl) DeleteChallan(ctx context.Context, id string) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		txn, err := s.challanRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		emp, err := s.employeeRepo.GetByID(ctx, txn.EmployeeID)
		if err != nil {
			return err
		}

		if _, err := s.getPairedEntry(ctx, ledger.ChallanSource(id)); err != nil {
			return err
		}

		if err := s.entryRepo.DeleteBySource(ctx, ledger.ChallanSource(id)); err != nil {
			return err
		}

		if err := s.challanRepo.Delete(ctx, id); err != nil {
			return err
		}

		return recalculateBalances(ctx, s.entryRepo, emp)
	})
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, events.NewEntityChanged("traffic_challans", id))

	return nil
}

// ==================== LEDGER PROJECTION ====================

func (s *ledgerServiceImpl) GetEmployeeLedger(ctx context.Context, employeeCode string) (ledger.EmployeeLedgerResponse, error) {
	emp, err := s.employeeRepo.GetByCode(ctx, employeeCode)
	if err != nil {
		return ledger.EmployeeLedgerResponse{}, err
	}

	entries, err := s.entryRepo.GetByEmployeeID(ctx, emp.ID)
	if err != nil {
		return ledger.EmployeeLedgerResponse{}, fmt.Errorf("failed to load employee ledger: %w", err)
	}

	response := ledger.EmployeeLedgerResponse{
		EmployeeID:     emp.ID,
		EmployeeCode:   emp.EmployeeCode,
		EmployeeName:   emp.FullName,
		OpeningBalance: emp.OpeningBalance,
		Entries:        make([]ledger.EntryResponse, 0, len(entries)),
	}

	for _, e := range entries {
		response.Entries = append(response.Entries, ledger.EntryResponse{
			ID:          e.ID,
			EntryDate:   e.EntryDate.Format("2006-01-02"),
			EntryType:   string(e.EntryType),
			AmountType:  string(e.AmountType),
			Amount:      e.Amount,
			Balance:     e.Balance,
			Description: e.Description,
		})
	}

	return response, nil
}

func toLoanResponse(txn ledger.LoanTransaction) ledger.LoanResponse {
	return ledger.LoanResponse{
		ID:         txn.ID,
		EmployeeID: txn.EmployeeID,
		TxnDate:    txn.TxnDate.Format("2006-01-02"),
		TxnType:    string(txn.TxnType),
		Amount:     txn.Amount,
		Remarks:    txn.Remarks,
	}
}

func toChallanResponse(txn ledger.TrafficChallanTransaction) ledger.ChallanResponse {
	return ledger.ChallanResponse{
		ID:          txn.ID,
		EmployeeID:  txn.EmployeeID,
		TxnDate:     txn.TxnDate.Format("2006-01-02"),
		TxnType:     string(txn.TxnType),
		Amount:      txn.Amount,
		Description: txn.Description,
	}
}
