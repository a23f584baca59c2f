package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/awtadhr/payroll-backend-go/internal/domain/employee"
	"github.com/awtadhr/payroll-backend-go/internal/domain/ledger"
	"github.com/awtadhr/payroll-backend-go/internal/domain/payroll"
	"github.com/awtadhr/payroll-backend-go/internal/pkg/events"
	"github.com/awtadhr/payroll-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
)

// insertChunkSize bounds how many employee rows one transaction writes, so a
// large workforce does not hold a single long transaction open.
const insertChunkSize = 100

type PayrollService interface {
	// RunPayroll computes the month's figures for every active employee and
	// writes them with a Pending summary. Re-running a Pending month
	// overwrites it; a Posted month is rejected.
	RunPayroll(ctx context.Context, req payroll.RunPayrollRequest) (payroll.SummaryResponse, error)

	// Recalculate re-runs a month that already has a Pending summary.
	Recalculate(ctx context.Context, req payroll.RunPayrollRequest) (payroll.SummaryResponse, error)

	// Post finalizes a Pending summary.
	Post(ctx context.Context, req payroll.RunPayrollRequest) (payroll.SummaryResponse, error)

	// Repost reopens a Posted summary for correction, recording the actor.
	Repost(ctx context.Context, req payroll.RepostRequest) (payroll.SummaryResponse, error)

	// GetMonthView returns the summary with its employee rows.
	GetMonthView(ctx context.Context, month, year int) (payroll.MonthViewResponse, error)
}

type payrollServiceImpl struct {
	tx           postgresql.Transactor
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	entryRepo    ledger.EntryRepository
	bus          *events.Bus
	now          func() time.Time
}

func NewPayrollService(
	tx postgresql.Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	entryRepo ledger.EntryRepository,
	bus *events.Bus,
) PayrollService {
	return &payrollServiceImpl{
		tx:           tx,
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		entryRepo:    entryRepo,
		bus:          bus,
		now:          time.Now,
	}
}

// computeEmployeePayroll derives one employee's figures from the salary
// attributes and the month's ledger activity. Loan recovery is what the
// employee paid back within the month; challan deduction is what the company
// advanced for fines.
func (s *payrollServiceImpl) computeEmployeePayroll(ctx context.Context, emp employee.Employee, month, year int) (payroll.EmployeePayroll, error) {
	totals, err := s.entryRepo.SumByEmployeeMonth(ctx, emp.ID, month, year)
	if err != nil {
		return payroll.EmployeePayroll{}, err
	}

	gross := emp.BasicSalary.Add(emp.Allowances)
	loanRecovery := totals.LoanCredits
	challanDeduction := totals.ChallanDebits
	net := gross.Sub(loanRecovery).Sub(challanDeduction)

	return payroll.EmployeePayroll{
		EmployeeID:       emp.ID,
		PayrollMonth:     month,
		PayrollYear:      year,
		BasicSalary:      emp.BasicSalary,
		Allowances:       emp.Allowances,
		LoanRecovery:     loanRecovery,
		ChallanDeduction: challanDeduction,
		GrossPay:         gross,
		NetPay:           net,
		PaymentMethod:    emp.PaymentMethod,
	}, nil
}

func summarize(rows []payroll.EmployeePayroll, month, year int) payroll.Summary {
	s := payroll.Summary{
		PayrollMonth:    month,
		PayrollYear:     year,
		EmployeeCount:   len(rows),
		TotalBasic:      decimal.Zero,
		TotalAllowances: decimal.Zero,
		TotalDeductions: decimal.Zero,
		TotalNet:        decimal.Zero,
		TotalBank:       decimal.Zero,
		TotalCash:       decimal.Zero,
		Status:          payroll.SummaryStatusPending,
	}

	for _, row := range rows {
		s.TotalBasic = s.TotalBasic.Add(row.BasicSalary)
		s.TotalAllowances = s.TotalAllowances.Add(row.Allowances)
		s.TotalDeductions = s.TotalDeductions.Add(row.LoanRecovery).Add(row.ChallanDeduction)
		s.TotalNet = s.TotalNet.Add(row.NetPay)
		if row.PaymentMethod == employee.PaymentMethodCash {
			s.TotalCash = s.TotalCash.Add(row.NetPay)
		} else {
			s.TotalBank = s.TotalBank.Add(row.NetPay)
		}
	}

	return s
}

// run is shared by RunPayroll and Recalculate; requirePending distinguishes
// a fresh run (no summary needed) from a recalculation (Pending summary
// required).
func (s *payrollServiceImpl) run(ctx context.Context, month, year int, requirePending bool) (payroll.SummaryResponse, error) {
	var result payroll.Summary
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.payrollRepo.GetSummary(ctx, month, year)
		switch {
		case err == nil:
			if existing.Status == payroll.SummaryStatusPosted {
				return payroll.ErrSummaryAlreadyPosted
			}
		case errors.Is(err, payroll.ErrSummaryNotFound):
			if requirePending {
				return err
			}
		default:
			return err
		}

		employees, err := s.employeeRepo.GetActive(ctx)
		if err != nil {
			return err
		}
		if len(employees) == 0 {
			return payroll.ErrNoActiveEmployees
		}

		rows := make([]payroll.EmployeePayroll, 0, len(employees))
		for _, emp := range employees {
			row, err := s.computeEmployeePayroll(ctx, emp, month, year)
			if err != nil {
				return err
			}
			rows = append(rows, row)
		}

		if err := s.payrollRepo.DeleteEmployeePayrolls(ctx, month, year); err != nil {
			return err
		}

		for start := 0; start < len(rows); start += insertChunkSize {
			end := start + insertChunkSize
			if end > len(rows) {
				end = len(rows)
			}
			if err := s.payrollRepo.InsertEmployeePayrolls(ctx, rows[start:end]); err != nil {
				return err
			}
		}

		// Summary last: a failed run leaves no summary behind.
		result, err = s.payrollRepo.UpsertSummary(ctx, summarize(rows, month, year))
		return err
	})
	if err != nil {
		return payroll.SummaryResponse{}, err
	}

	s.bus.Publish(ctx, events.NewEntityChanged("payroll_summaries", result.ID))

	return toSummaryResponse(result), nil
}

func (s *payrollServiceImpl) RunPayroll(ctx context.Context, req payroll.RunPayrollRequest) (payroll.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SummaryResponse{}, err
	}
	return s.run(ctx, req.Month, req.Year, false)
}

func (s *payrollServiceImpl) Recalculate(ctx context.Context, req payroll.RunPayrollRequest) (payroll.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SummaryResponse{}, err
	}
	return s.run(ctx, req.Month, req.Year, true)
}

func (s *payrollServiceImpl) Post(ctx context.Context, req payroll.RunPayrollRequest) (payroll.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SummaryResponse{}, err
	}

	var result payroll.Summary
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.payrollRepo.GetSummary(ctx, req.Month, req.Year); err != nil {
			return err
		}

		posted, err := s.payrollRepo.MarkPosted(ctx, req.Month, req.Year, s.now().UTC())
		if err != nil {
			return err
		}
		if !posted {
			return payroll.ErrSummaryAlreadyPosted
		}

		result, err = s.payrollRepo.GetSummary(ctx, req.Month, req.Year)
		return err
	})
	if err != nil {
		return payroll.SummaryResponse{}, err
	}

	s.bus.Publish(ctx, events.NewEntityChanged("payroll_summaries", result.ID))

	return toSummaryResponse(result), nil
}

func (s *payrollServiceImpl) Repost(ctx context.Context, req payroll.RepostRequest) (payroll.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SummaryResponse{}, err
	}

	var result payroll.Summary
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.payrollRepo.GetSummaryByID(ctx, req.ID); err != nil {
			return err
		}

		reopened, err := s.payrollRepo.MarkPending(ctx, req.ID, req.Actor, s.now().UTC())
		if err != nil {
			return err
		}
		if !reopened {
			return payroll.ErrSummaryNotPosted
		}

		result, err = s.payrollRepo.GetSummaryByID(ctx, req.ID)
		return err
	})
	if err != nil {
		return payroll.SummaryResponse{}, err
	}

	s.bus.Publish(ctx, events.NewEntityChanged("payroll_summaries", result.ID))

	return toSummaryResponse(result), nil
}

func (s *payrollServiceImpl) GetMonthView(ctx context.Context, month, year int) (payroll.MonthViewResponse, error) {
	summary, err := s.payrollRepo.GetSummary(ctx, month, year)
	if err != nil {
		return payroll.MonthViewResponse{}, err
	}

	rows, err := s.payrollRepo.GetEmployeePayrolls(ctx, month, year)
	if err != nil {
		return payroll.MonthViewResponse{}, err
	}

	view := payroll.MonthViewResponse{
		Summary: toSummaryResponse(summary),
		Rows:    make([]payroll.EmployeePayrollResponse, 0, len(rows)),
	}
	for _, row := range rows {
		view.Rows = append(view.Rows, toEmployeePayrollResponse(row))
	}

	return view, nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func toSummaryResponse(s payroll.Summary) payroll.SummaryResponse {
	return payroll.SummaryResponse{
		ID:              s.ID,
		PayrollMonth:    s.PayrollMonth,
		PayrollYear:     s.PayrollYear,
		EmployeeCount:   s.EmployeeCount,
		TotalBasic:      s.TotalBasic,
		TotalAllowances: s.TotalAllowances,
		TotalDeductions: s.TotalDeductions,
		TotalNet:        s.TotalNet,
		TotalBank:       s.TotalBank,
		TotalCash:       s.TotalCash,
		Status:          string(s.Status),
		PostedAt:        formatTime(s.PostedAt),
		RepostedAt:      formatTime(s.RepostedAt),
		RepostedBy:      s.RepostedBy,
	}
}

func toEmployeePayrollResponse(row payroll.EmployeePayroll) payroll.EmployeePayrollResponse {
	resp := payroll.EmployeePayrollResponse{
		ID:               row.ID,
		EmployeeID:       row.EmployeeID,
		BasicSalary:      row.BasicSalary,
		Allowances:       row.Allowances,
		LoanRecovery:     row.LoanRecovery,
		ChallanDeduction: row.ChallanDeduction,
		GrossPay:         row.GrossPay,
		NetPay:           row.NetPay,
		PaymentMethod:    string(row.PaymentMethod),
	}
	if row.EmployeeCode != nil {
		resp.EmployeeCode = *row.EmployeeCode
	}
	if row.EmployeeName != nil {
		resp.EmployeeName = *row.EmployeeName
	}
	return resp
}
