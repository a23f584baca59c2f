package postgresql

import (
	"context"
	"fmt"

	"github.com/awtadhr/payroll-backend-go/internal/domain/ledger"
	"github.com/awtadhr/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type loanRepositoryImpl struct {
	db *database.DB
}

func NewLoanRepository(db *database.DB) ledger.LoanRepository {
	return &loanRepositoryImpl{db: db}
}

// Create implements ledger.LoanRepository.
func (r *loanRepositoryImpl) Create(ctx context.Context, txn ledger.LoanTransaction) (ledger.LoanTransaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO loans (id, employee_id, txn_date, txn_type, amount, remarks, created_at, updated_at)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, employee_id, txn_date, txn_type, amount, remarks, created_at, updated_at
	`

	var result ledger.LoanTransaction
	err := q.QueryRow(ctx, query, txn.EmployeeID, txn.TxnDate, txn.TxnType, txn.Amount, txn.Remarks).Scan(
		&result.ID, &result.EmployeeID, &result.TxnDate, &result.TxnType,
		&result.Amount, &result.Remarks, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return ledger.LoanTransaction{}, fmt.Errorf("failed to create loan transaction: %w", err)
	}

	return result, nil
}

// GetByID implements ledger.LoanRepository.
func (r *loanRepositoryImpl) GetByID(ctx context.Context, id string) (ledger.LoanTransaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, txn_date, txn_type, amount, remarks, created_at, updated_at
		FROM loans
		WHERE id = $1
	`

	var result ledger.LoanTransaction
	err := q.QueryRow(ctx, query, id).Scan(
		&result.ID, &result.EmployeeID, &result.TxnDate, &result.TxnType,
		&result.Amount, &result.Remarks, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ledger.LoanTransaction{}, ledger.ErrLoanNotFound
		}
		return ledger.LoanTransaction{}, fmt.Errorf("failed to get loan transaction: %w", err)
	}

	return result, nil
}

// GetByEmployeeID implements ledger.LoanRepository.
func (r *loanRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) ([]ledger.LoanTransaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, txn_date, txn_type, amount, remarks, created_at, updated_at
		FROM loans
		WHERE employee_id = $1
		ORDER BY txn_date ASC, id ASC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan transactions: %w", err)
	}
	defer rows.Close()

	var txns []ledger.LoanTransaction
	for rows.Next() {
		var t ledger.LoanTransaction
		if err := rows.Scan(
			&t.ID, &t.EmployeeID, &t.TxnDate, &t.TxnType,
			&t.Amount, &t.Remarks, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan loan transaction: %w", err)
		}
		txns = append(txns, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return txns, nil
}

// Update implements ledger.LoanRepository.
func (r *loanRepositoryImpl) Update(ctx context.Context, txn ledger.LoanTransaction) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE loans
		SET employee_id = $2, txn_date = $3, txn_type = $4, amount = $5, remarks = $6, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query, txn.ID, txn.EmployeeID, txn.TxnDate, txn.TxnType, txn.Amount, txn.Remarks)
	if err != nil {
		return fmt.Errorf("failed to update loan transaction: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ledger.ErrLoanNotFound
	}

	return nil
}

// Delete implements ledger.LoanRepository.
func (r *loanRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete loan transaction: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ledger.ErrLoanNotFound
	}

	return nil
}
