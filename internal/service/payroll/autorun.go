package payroll

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/awtadhr/payroll-backend-go/internal/domain/payroll"
)

// AutoRunJob returns the scheduled function that runs the previous month's
// payroll if nobody has run it yet. Months that already have a summary, in
// any status, are left alone.
func AutoRunJob(svc PayrollService) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		now := time.Now().UTC()
		year, month := now.Year(), int(now.Month())-1
		if month == 0 {
			month = 12
			year--
		}

		_, err := svc.GetMonthView(ctx, month, year)
		if err == nil {
			return nil
		}
		if !errors.Is(err, payroll.ErrSummaryNotFound) {
			return err
		}

		summary, err := svc.RunPayroll(ctx, payroll.RunPayrollRequest{Month: month, Year: year})
		if err != nil {
			// A workforce with nobody active is not a scheduler failure.
			if errors.Is(err, payroll.ErrNoActiveEmployees) {
				return nil
			}
			return err
		}

		slog.Info("automatic payroll run completed",
			"month", month,
			"year", year,
			"employee_count", summary.EmployeeCount,
		)
		return nil
	}
}
