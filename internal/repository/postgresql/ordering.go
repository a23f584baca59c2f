package postgresql

import (
	"context"
	"fmt"

	"github.com/awtadhr/payroll-backend-go/internal/domain/master/ordered"
	"github.com/awtadhr/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// orderedTable implements ordered.Repository for one reference table with a
// display_order_key column. table is fixed by the owning repository, never
// taken from input; errNotFound is that repository's not-found sentinel.
type orderedTable struct {
	db          *database.DB
	table       string
	errNotFound error
}

// GetRow implements ordered.Repository.
func (o *orderedTable) GetRow(ctx context.Context, id string) (ordered.Row, error) {
	q := GetQuerier(ctx, o.db)

	query := fmt.Sprintf(`SELECT id, display_order_key FROM %s WHERE id = $1`, o.table)

	var row ordered.Row
	err := q.QueryRow(ctx, query, id).Scan(&row.ID, &row.DisplayOrderKey)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ordered.Row{}, o.errNotFound
		}
		return ordered.Row{}, fmt.Errorf("failed to get ordered row: %w", err)
	}

	return row, nil
}

// MaxOrderKey implements ordered.Repository.
func (o *orderedTable) MaxOrderKey(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, o.db)

	query := fmt.Sprintf(`SELECT COALESCE(MAX(display_order_key), 0) FROM %s`, o.table)

	var max int
	if err := q.QueryRow(ctx, query).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to get max display_order_key: %w", err)
	}

	return max, nil
}

// ShiftKeys implements ordered.Repository. One range UPDATE moves the whole
// window, so duplicate keys never exist between statements; the unique
// constraint on display_order_key is DEFERRABLE so the single statement
// cannot trip it mid-update either.
func (o *orderedTable) ShiftKeys(ctx context.Context, from, to, delta int) error {
	q := GetQuerier(ctx, o.db)

	query := fmt.Sprintf(`
		UPDATE %s
		SET display_order_key = display_order_key + $1, updated_at = NOW()
		WHERE display_order_key >= $2
	`, o.table)
	args := []interface{}{delta, from}

	if to > 0 {
		query += ` AND display_order_key <= $3`
		args = append(args, to)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to shift display_order_keys: %w", err)
	}

	return nil
}

// SetKey implements ordered.Repository.
func (o *orderedTable) SetKey(ctx context.Context, id string, key *int) error {
	q := GetQuerier(ctx, o.db)

	query := fmt.Sprintf(`UPDATE %s SET display_order_key = $2, updated_at = NOW() WHERE id = $1`, o.table)

	commandTag, err := q.Exec(ctx, query, id, key)
	if err != nil {
		return fmt.Errorf("failed to set display_order_key: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return o.errNotFound
	}

	return nil
}
