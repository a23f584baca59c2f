package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/awtadhr/payroll-backend-go/internal/domain/payroll"
	"github.com/awtadhr/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

const summaryColumns = `
	id, payroll_month, payroll_year, employee_count,
	total_basic, total_allowances, total_deductions, total_net, total_bank, total_cash,
	status, posted_at, reposted_at, reposted_by, created_at, updated_at
`

func scanSummary(row pgx.Row) (payroll.Summary, error) {
	var s payroll.Summary
	err := row.Scan(
		&s.ID, &s.PayrollMonth, &s.PayrollYear, &s.EmployeeCount,
		&s.TotalBasic, &s.TotalAllowances, &s.TotalDeductions, &s.TotalNet, &s.TotalBank, &s.TotalCash,
		&s.Status, &s.PostedAt, &s.RepostedAt, &s.RepostedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// GetSummary implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetSummary(ctx context.Context, month, year int) (payroll.Summary, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + summaryColumns + ` FROM payroll_summaries WHERE payroll_month = $1 AND payroll_year = $2`

	s, err := scanSummary(q.QueryRow(ctx, query, month, year))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Summary{}, payroll.ErrSummaryNotFound
		}
		return payroll.Summary{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}

	return s, nil
}

// GetSummaryByID implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetSummaryByID(ctx context.Context, id string) (payroll.Summary, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + summaryColumns + ` FROM payroll_summaries WHERE id = $1`

	s, err := scanSummary(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Summary{}, payroll.ErrSummaryNotFound
		}
		return payroll.Summary{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}

	return s, nil
}

// UpsertSummary implements payroll.PayrollRepository. A re-run of the same
// month overwrites its Pending summary in place; uk_payroll_summary_month
// keeps the month unique.
func (r *payrollRepositoryImpl) UpsertSummary(ctx context.Context, s payroll.Summary) (payroll.Summary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_summaries (
			id, payroll_month, payroll_year, employee_count,
			total_basic, total_allowances, total_deductions, total_net, total_bank, total_cash,
			status, created_at, updated_at
		) VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (payroll_month, payroll_year) DO UPDATE SET
			employee_count = EXCLUDED.employee_count,
			total_basic = EXCLUDED.total_basic,
			total_allowances = EXCLUDED.total_allowances,
			total_deductions = EXCLUDED.total_deductions,
			total_net = EXCLUDED.total_net,
			total_bank = EXCLUDED.total_bank,
			total_cash = EXCLUDED.total_cash,
			status = EXCLUDED.status,
			posted_at = NULL,
			updated_at = NOW()
		RETURNING ` + summaryColumns

	result, err := scanSummary(q.QueryRow(ctx, query,
		s.PayrollMonth, s.PayrollYear, s.EmployeeCount,
		s.TotalBasic, s.TotalAllowances, s.TotalDeductions, s.TotalNet, s.TotalBank, s.TotalCash,
		s.Status,
	))
	if err != nil {
		return payroll.Summary{}, fmt.Errorf("failed to upsert payroll summary: %w", err)
	}

	return result, nil
}

// MarkPosted implements payroll.PayrollRepository. The status guard lives in
// the WHERE clause so a concurrent double-post cannot both succeed.
func (r *payrollRepositoryImpl) MarkPosted(ctx context.Context, month, year int, postedAt time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_summaries
		SET status = 'posted', posted_at = $3, updated_at = NOW()
		WHERE payroll_month = $1 AND payroll_year = $2 AND status = 'pending'
	`

	commandTag, err := q.Exec(ctx, query, month, year, postedAt)
	if err != nil {
		return false, fmt.Errorf("failed to post payroll summary: %w", err)
	}

	return commandTag.RowsAffected() > 0, nil
}

// MarkPending implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) MarkPending(ctx context.Context, id string, repostedBy string, repostedAt time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_summaries
		SET status = 'pending', reposted_at = $3, reposted_by = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'posted'
	`

	commandTag, err := q.Exec(ctx, query, id, repostedBy, repostedAt)
	if err != nil {
		return false, fmt.Errorf("failed to repost payroll summary: %w", err)
	}

	return commandTag.RowsAffected() > 0, nil
}

// InsertEmployeePayrolls implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) InsertEmployeePayrolls(ctx context.Context, rows []payroll.EmployeePayroll) error {
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO employee_payrolls (
			id, employee_id, payroll_month, payroll_year,
			basic_salary, allowances, loan_recovery, challan_deduction,
			gross_pay, net_pay, payment_method, created_at
		) VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
	`

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(query,
			row.EmployeeID, row.PayrollMonth, row.PayrollYear,
			row.BasicSalary, row.Allowances, row.LoanRecovery, row.ChallanDeduction,
			row.GrossPay, row.NetPay, row.PaymentMethod,
		)
	}

	var br pgx.BatchResults
	if tx, ok := database.TxFromContext(ctx); ok {
		br = tx.SendBatch(ctx, batch)
	} else {
		br = r.db.Pool.SendBatch(ctx, batch)
	}
	defer br.Close()

	for range rows {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert employee payroll: %w", err)
		}
	}

	return nil
}

// DeleteEmployeePayrolls implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) DeleteEmployeePayrolls(ctx context.Context, month, year int) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM employee_payrolls WHERE payroll_month = $1 AND payroll_year = $2`, month, year); err != nil {
		return fmt.Errorf("failed to delete employee payrolls: %w", err)
	}

	return nil
}

// GetEmployeePayrolls implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetEmployeePayrolls(ctx context.Context, month, year int) ([]payroll.EmployeePayroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			ep.id, ep.employee_id, ep.payroll_month, ep.payroll_year,
			ep.basic_salary, ep.allowances, ep.loan_recovery, ep.challan_deduction,
			ep.gross_pay, ep.net_pay, ep.payment_method, ep.created_at,
			e.full_name, e.employee_code
		FROM employee_payrolls ep
		JOIN employees e ON e.id = ep.employee_id
		WHERE ep.payroll_month = $1 AND ep.payroll_year = $2
		ORDER BY e.employee_code ASC
	`

	rows, err := q.Query(ctx, query, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee payrolls: %w", err)
	}
	defer rows.Close()

	var payrolls []payroll.EmployeePayroll
	for rows.Next() {
		var p payroll.EmployeePayroll
		if err := rows.Scan(
			&p.ID, &p.EmployeeID, &p.PayrollMonth, &p.PayrollYear,
			&p.BasicSalary, &p.Allowances, &p.LoanRecovery, &p.ChallanDeduction,
			&p.GrossPay, &p.NetPay, &p.PaymentMethod, &p.CreatedAt,
			&p.EmployeeName, &p.EmployeeCode,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return payrolls, nil
}
