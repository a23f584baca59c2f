package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/awtadhr/payroll-backend-go/internal/domain/master/designation"
	"github.com/awtadhr/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type designationRepositoryImpl struct {
	orderedTable
}

func NewDesignationRepository(db *database.DB) designation.DesignationRepository {
	return &designationRepositoryImpl{
		orderedTable: orderedTable{
			db:          db,
			table:       "designations",
			errNotFound: designation.ErrDesignationNotFound,
		},
	}
}

// Create implements designation.DesignationRepository.
func (r *designationRepositoryImpl) Create(ctx context.Context, d designation.Designation) (designation.Designation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO designations (id, name, display_order_key, created_at, updated_at)
		VALUES (uuidv7(), $1, $2, NOW(), NOW())
		RETURNING id, name, display_order_key, created_at, updated_at
	`

	var result designation.Designation
	err := q.QueryRow(ctx, query, d.Name, d.DisplayOrderKey).Scan(
		&result.ID, &result.Name, &result.DisplayOrderKey, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_designation_name") {
			return designation.Designation{}, designation.ErrDesignationNameExists
		}
		return designation.Designation{}, fmt.Errorf("failed to create designation: %w", err)
	}

	return result, nil
}

// GetByID implements designation.DesignationRepository.
func (r *designationRepositoryImpl) GetByID(ctx context.Context, id string) (designation.Designation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, display_order_key, created_at, updated_at
		FROM designations
		WHERE id = $1
	`

	var result designation.Designation
	err := q.QueryRow(ctx, query, id).Scan(
		&result.ID, &result.Name, &result.DisplayOrderKey, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return designation.Designation{}, designation.ErrDesignationNotFound
		}
		return designation.Designation{}, fmt.Errorf("failed to get designation: %w", err)
	}

	return result, nil
}

// GetAll implements designation.DesignationRepository. Ranked rows first in
// rank order, unranked rows appended last.
func (r *designationRepositoryImpl) GetAll(ctx context.Context) ([]designation.Designation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, display_order_key, created_at, updated_at
		FROM designations
		ORDER BY display_order_key ASC NULLS LAST, name ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get designations: %w", err)
	}
	defer rows.Close()

	var designations []designation.Designation
	for rows.Next() {
		var d designation.Designation
		if err := rows.Scan(&d.ID, &d.Name, &d.DisplayOrderKey, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan designation: %w", err)
		}
		designations = append(designations, d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return designations, nil
}

// UpdateName implements designation.DesignationRepository.
func (r *designationRepositoryImpl) UpdateName(ctx context.Context, id string, name string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `UPDATE designations SET name = $2, updated_at = NOW() WHERE id = $1`, id, name)
	if err != nil {
		if strings.Contains(err.Error(), "uk_designation_name") {
			return designation.ErrDesignationNameExists
		}
		return fmt.Errorf("failed to update designation: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return designation.ErrDesignationNotFound
	}

	return nil
}

// Delete implements designation.DesignationRepository.
func (r *designationRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM designations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete designation: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return designation.ErrDesignationNotFound
	}

	return nil
}
