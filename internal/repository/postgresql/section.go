package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/awtadhr/payroll-backend-go/internal/domain/master/section"
	"github.com/awtadhr/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type sectionRepositoryImpl struct {
	orderedTable
}

func NewSectionRepository(db *database.DB) section.SectionRepository {
	return &sectionRepositoryImpl{
		orderedTable: orderedTable{
			db:          db,
			table:       "payroll_sections",
			errNotFound: section.ErrSectionNotFound,
		},
	}
}

// Create implements section.SectionRepository.
func (r *sectionRepositoryImpl) Create(ctx context.Context, s section.PayrollSection) (section.PayrollSection, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_sections (id, name, display_order_key, created_at, updated_at)
		VALUES (uuidv7(), $1, $2, NOW(), NOW())
		RETURNING id, name, display_order_key, created_at, updated_at
	`

	var result section.PayrollSection
	err := q.QueryRow(ctx, query, s.Name, s.DisplayOrderKey).Scan(
		&result.ID, &result.Name, &result.DisplayOrderKey, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_payroll_section_name") {
			return section.PayrollSection{}, section.ErrSectionNameExists
		}
		return section.PayrollSection{}, fmt.Errorf("failed to create payroll section: %w", err)
	}

	return result, nil
}

// GetByID implements section.SectionRepository.
func (r *sectionRepositoryImpl) GetByID(ctx context.Context, id string) (section.PayrollSection, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, display_order_key, created_at, updated_at
		FROM payroll_sections
		WHERE id = $1
	`

	var result section.PayrollSection
	err := q.QueryRow(ctx, query, id).Scan(
		&result.ID, &result.Name, &result.DisplayOrderKey, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return section.PayrollSection{}, section.ErrSectionNotFound
		}
		return section.PayrollSection{}, fmt.Errorf("failed to get payroll section: %w", err)
	}

	return result, nil
}

// GetAll implements section.SectionRepository.
func (r *sectionRepositoryImpl) GetAll(ctx context.Context) ([]section.PayrollSection, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, display_order_key, created_at, updated_at
		FROM payroll_sections
		ORDER BY display_order_key ASC NULLS LAST, name ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get payroll sections: %w", err)
	}
	defer rows.Close()

	var sections []section.PayrollSection
	for rows.Next() {
		var s section.PayrollSection
		if err := rows.Scan(&s.ID, &s.Name, &s.DisplayOrderKey, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payroll section: %w", err)
		}
		sections = append(sections, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return sections, nil
}

// UpdateName implements section.SectionRepository.
func (r *sectionRepositoryImpl) UpdateName(ctx context.Context, id string, name string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `UPDATE payroll_sections SET name = $2, updated_at = NOW() WHERE id = $1`, id, name)
	if err != nil {
		if strings.Contains(err.Error(), "uk_payroll_section_name") {
			return section.ErrSectionNameExists
		}
		return fmt.Errorf("failed to update payroll section: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return section.ErrSectionNotFound
	}

	return nil
}

// Delete implements section.SectionRepository.
func (r *sectionRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM payroll_sections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payroll section: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return section.ErrSectionNotFound
	}

	return nil
}
