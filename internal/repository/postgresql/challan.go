package postgresql

import (
	"context"
	"fmt"

	"github.com/awtadhr/payroll-backend-go/internal/domain/ledger"
	"github.com/awtadhr/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type challanRepositoryImpl struct {
	db *database.DB
}

func NewChallanRepository(db *database.DB) ledger.ChallanRepository {
	return &challanRepositoryImpl{db: db}
}

// Create implements ledger.ChallanRepository.
func (r *challanRepositoryImpl) Create(ctx context.Context, txn ledger.TrafficChallanTransaction) (ledger.TrafficChallanTransaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO traffic_challans (id, employee_id, txn_date, txn_type, amount, description, created_at, updated_at)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, employee_id, txn_date, txn_type, amount, description, created_at, updated_at
	`

	var result ledger.TrafficChallanTransaction
	err := q.QueryRow(ctx, query, txn.EmployeeID, txn.TxnDate, txn.TxnType, txn.Amount, txn.Description).Scan(
		&result.ID, &result.EmployeeID, &result.TxnDate, &result.TxnType,
		&result.Amount, &result.Description, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return ledger.TrafficChallanTransaction{}, fmt.Errorf("failed to create challan transaction: %w", err)
	}

	return result, nil
}

// GetByID implements ledger.ChallanRepository.
func (r *challanRepositoryImpl) GetByID(ctx context.Context, id string) (ledger.TrafficChallanTransaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, txn_date, txn_type, amount, description, created_at, updated_at
		FROM traffic_challans
		WHERE id = $1
	`

	var result ledger.TrafficChallanTransaction
	err := q.QueryRow(ctx, query, id).Scan(
		&result.ID, &result.EmployeeID, &result.TxnDate, &result.TxnType,
		&result.Amount, &result.Description, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ledger.TrafficChallanTransaction{}, ledger.ErrChallanNotFound
		}
		return ledger.TrafficChallanTransaction{}, fmt.Errorf("failed to get challan transaction: %w", err)
	}

	return result, nil
}

// GetByEmployeeID implements ledger.ChallanRepository.
func (r *challanRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) ([]ledger.TrafficChallanTransaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, txn_date, txn_type, amount, description, created_at, updated_at
		FROM traffic_challans
		WHERE employee_id = $1
		ORDER BY txn_date ASC, id ASC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challan transactions: %w", err)
	}
	defer rows.Close()

	var txns []ledger.TrafficChallanTransaction
	for rows.Next() {
		var t ledger.TrafficChallanTransaction
		if err := rows.Scan(
			&t.ID, &t.EmployeeID, &t.TxnDate, &t.TxnType,
			&t.Amount, &t.Description, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan challan transaction: %w", err)
		}
		txns = append(txns, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return txns, nil
}

// Update implements ledger.ChallanRepository.
func (r *challanRepositoryImpl) Update(ctx context.Context, txn ledger.TrafficChallanTransaction) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE traffic_challans
		SET employee_id = $2, txn_date = $3, txn_type = $4, amount = $5, description = $6, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query, txn.ID, txn.EmployeeID, txn.TxnDate, txn.TxnType, txn.Amount, txn.Description)
	if err != nil {
		return fmt.Errorf("failed to update challan transaction: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ledger.ErrChallanNotFound
	}

	return nil
}

// Delete implements ledger.ChallanRepository.
func (r *challanRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM traffic_challans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete challan transaction: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ledger.ErrChallanNotFound
	}

	return nil
}
