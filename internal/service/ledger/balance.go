package ledger

import (
	"context"
	"fmt"

	"github.com/awtadhr/payroll-backend-go/internal/domain/employee"
	"github.com/awtadhr/payroll-backend-go/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// ComputeBalances folds the running balance over entries already sorted in
// (entry_date, id) order: each credit adds its amount, each debit subtracts,
// seeded from the employee's opening balance. It returns the expected balance
// per entry id. Pure: repository state is never touched here.
func ComputeBalances(opening decimal.Decimal, entries []ledger.Entry) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(entries))

	running := opening
	for _, e := range entries {
		running = running.Add(e.SignedAmount())
		balances[e.ID] = running
	}

	return balances
}

// recalculateBalances recomputes the employee's full ledger history and
// persists only the rows whose stored balance drifted from the recomputed
// value. Must run inside the same transaction as the mutation that made the
// recompute necessary; the FOR UPDATE read serializes concurrent recomputes
// for the same employee.
func recalculateBalances(ctx context.Context, entryRepo ledger.EntryRepository, emp employee.Employee) error {
	entries, err := entryRepo.GetByEmployeeIDForUpdate(ctx, emp.ID)
	if err != nil {
		return fmt.Errorf("failed to load ledger for recalculation: %w", err)
	}

	expected := ComputeBalances(emp.OpeningBalance, entries)

	drifted := make(map[string]decimal.Decimal)
	for _, e := range entries {
		if want := expected[e.ID]; !e.Balance.Equal(want) {
			drifted[e.ID] = want
		}
	}

	if len(drifted) == 0 {
		return nil
	}

	if err := entryRepo.UpdateBalances(ctx, drifted); err != nil {
		return fmt.Errorf("failed to persist recalculated balances: %w", err)
	}

	return nil
}
