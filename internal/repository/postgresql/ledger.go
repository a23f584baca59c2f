package postgresql

import (
	"context"
	"fmt"

	"github.com/awtadhr/payroll-backend-go/internal/domain/ledger"
	"github.com/awtadhr/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type entryRepositoryImpl struct {
	db *database.DB
}

func NewEntryRepository(db *database.DB) ledger.EntryRepository {
	return &entryRepositoryImpl{db: db}
}

const entryColumns = `
	id, employee_id, entry_date, entry_type, amount_type, amount, balance,
	description, loan_id, traffic_challan_id, created_at, updated_at
`

// sourceRefs splits the tagged source into the two nullable FK columns. The
// table carries a CHECK constraint that at most one of them is set.
func sourceRefs(s ledger.Source) (loanID, challanID *string) {
	switch s.Kind {
	case ledger.SourceLoan:
		loanID = &s.RefID
	case ledger.SourceChallan:
		challanID = &s.RefID
	}
	return loanID, challanID
}

func entrySource(loanID, challanID *string) ledger.Source {
	switch {
	case loanID != nil:
		return ledger.LoanSource(*loanID)
	case challanID != nil:
		return ledger.ChallanSource(*challanID)
	default:
		return ledger.SalarySource()
	}
}

func scanEntry(row pgx.Row) (ledger.Entry, error) {
	var e ledger.Entry
	var loanID, challanID *string
	err := row.Scan(
		&e.ID, &e.EmployeeID, &e.EntryDate, &e.EntryType, &e.AmountType, &e.Amount, &e.Balance,
		&e.Description, &loanID, &challanID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return ledger.Entry{}, err
	}
	e.Source = entrySource(loanID, challanID)
	return e, nil
}

// Create implements ledger.EntryRepository.
func (r *entryRepositoryImpl) Create(ctx context.Context, entry ledger.Entry) (ledger.Entry, error) {
	q := GetQuerier(ctx, r.db)

	loanID, challanID := sourceRefs(entry.Source)

	query := `
		INSERT INTO ledger_entries (
			id, employee_id, entry_date, entry_type, amount_type, amount, balance,
			description, loan_id, traffic_challan_id, created_at, updated_at
		) VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING ` + entryColumns

	result, err := scanEntry(q.QueryRow(ctx, query,
		entry.EmployeeID, entry.EntryDate, entry.EntryType, entry.AmountType,
		entry.Amount, entry.Balance, entry.Description, loanID, challanID,
	))
	if err != nil {
		return ledger.Entry{}, fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return result, nil
}

// GetBySource implements ledger.EntryRepository.
func (r *entryRepositoryImpl) GetBySource(ctx context.Context, source ledger.Source) (ledger.Entry, error) {
	q := GetQuerier(ctx, r.db)

	var column string
	switch source.Kind {
	case ledger.SourceLoan:
		column = "loan_id"
	case ledger.SourceChallan:
		column = "traffic_challan_id"
	default:
		return ledger.Entry{}, fmt.Errorf("salary entries have no source transaction")
	}

	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE ` + column + ` = $1`

	entry, err := scanEntry(q.QueryRow(ctx, query, source.RefID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return ledger.Entry{}, ledger.ErrEntryNotFound
		}
		return ledger.Entry{}, fmt.Errorf("failed to get ledger entry by source: %w", err)
	}

	return entry, nil
}

// Update implements ledger.EntryRepository.
func (r *entryRepositoryImpl) Update(ctx context.Context, entry ledger.Entry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE ledger_entries
		SET employee_id = $2, entry_date = $3, entry_type = $4, amount_type = $5,
			amount = $6, description = $7, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query,
		entry.ID, entry.EmployeeID, entry.EntryDate, entry.EntryType,
		entry.AmountType, entry.Amount, entry.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to update ledger entry: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ledger.ErrEntryNotFound
	}

	return nil
}

// Delete implements ledger.EntryRepository.
func (r *entryRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM ledger_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ledger entry: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ledger.ErrEntryNotFound
	}

	return nil
}

// DeleteBySource implements ledger.EntryRepository.
func (r *entryRepositoryImpl) DeleteBySource(ctx context.Context, source ledger.Source) error {
	q := GetQuerier(ctx, r.db)

	var column string
	switch source.Kind {
	case ledger.SourceLoan:
		column = "loan_id"
	case ledger.SourceChallan:
		column = "traffic_challan_id"
	default:
		return fmt.Errorf("salary entries have no source transaction")
	}

	commandTag, err := q.Exec(ctx, `DELETE FROM ledger_entries WHERE `+column+` = $1`, source.RefID)
	if err != nil {
		return fmt.Errorf("failed to delete ledger entry by source: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ledger.ErrEntryNotFound
	}

	return nil
}

// GetByEmployeeID implements ledger.EntryRepository.
func (r *entryRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) ([]ledger.Entry, error) {
	return r.listByEmployee(ctx, employeeID, false)
}

// GetByEmployeeIDForUpdate implements ledger.EntryRepository.
func (r *entryRepositoryImpl) GetByEmployeeIDForUpdate(ctx context.Context, employeeID string) ([]ledger.Entry, error) {
	return r.listByEmployee(ctx, employeeID, true)
}

func (r *entryRepositoryImpl) listByEmployee(ctx context.Context, employeeID string, forUpdate bool) ([]ledger.Entry, error) {
	q := GetQuerier(ctx, r.db)

	// ids are uuidv7, so the id tiebreak keeps same-day entries in insertion
	// order.
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE employee_id = $1 ORDER BY entry_date ASC, id ASC`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []ledger.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}

// UpdateBalances implements ledger.EntryRepository. A single statement
// corrects every drifted balance at once.
func (r *entryRepositoryImpl) UpdateBalances(ctx context.Context, balances map[string]decimal.Decimal) error {
	if len(balances) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	ids := make([]string, 0, len(balances))
	values := make([]string, 0, len(balances))
	for id, balance := range balances {
		ids = append(ids, id)
		values = append(values, balance.String())
	}

	query := `
		UPDATE ledger_entries le
		SET balance = u.balance, updated_at = NOW()
		FROM (SELECT unnest($1::uuid[]) AS id, unnest($2::numeric[]) AS balance) u
		WHERE le.id = u.id
	`

	if _, err := q.Exec(ctx, query, ids, values); err != nil {
		return fmt.Errorf("failed to update ledger balances: %w", err)
	}

	return nil
}

// SumByEmployeeMonth implements ledger.EntryRepository.
func (r *entryRepositoryImpl) SumByEmployeeMonth(ctx context.Context, employeeID string, month, year int) (ledger.MonthlyTotals, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE entry_type = 'loan' AND amount_type = 'debit'), 0) AS loan_debits,
			COALESCE(SUM(amount) FILTER (WHERE entry_type = 'loan' AND amount_type = 'credit'), 0) AS loan_credits,
			COALESCE(SUM(amount) FILTER (WHERE entry_type = 'challan' AND amount_type = 'debit'), 0) AS challan_debits,
			COALESCE(SUM(amount) FILTER (WHERE entry_type = 'challan' AND amount_type = 'credit'), 0) AS challan_credits
		FROM ledger_entries
		WHERE employee_id = $1
			AND EXTRACT(MONTH FROM entry_date) = $2
			AND EXTRACT(YEAR FROM entry_date) = $3
	`

	var totals ledger.MonthlyTotals
	err := q.QueryRow(ctx, query, employeeID, month, year).Scan(
		&totals.LoanDebits, &totals.LoanCredits, &totals.ChallanDebits, &totals.ChallanCredits,
	)
	if err != nil {
		return ledger.MonthlyTotals{}, fmt.Errorf("failed to sum ledger entries for month: %w", err)
	}

	return totals, nil
}
