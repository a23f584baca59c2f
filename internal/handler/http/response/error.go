package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/awtadhr/payroll-backend-go/internal/domain/employee"
	"github.com/awtadhr/payroll-backend-go/internal/domain/ledger"
	"github.com/awtadhr/payroll-backend-go/internal/domain/master/branch"
	"github.com/awtadhr/payroll-backend-go/internal/domain/master/designation"
	"github.com/awtadhr/payroll-backend-go/internal/domain/master/section"
	"github.com/awtadhr/payroll-backend-go/internal/domain/payroll"
	"github.com/awtadhr/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Ledger domain errors
	case errors.Is(err, ledger.ErrLoanNotFound):
		NotFound(w, "Loan transaction not found")
	case errors.Is(err, ledger.ErrChallanNotFound):
		NotFound(w, "Traffic challan transaction not found")
	case errors.Is(err, ledger.ErrEntryNotFound):
		NotFound(w, "Ledger entry not found")
	case errors.Is(err, ledger.ErrPairedEntryMissing):
		// Data corruption, not a client mistake. The details are already in
		// the service log; the client gets a stable code to report.
		IntegrityViolation(w, "Ledger is inconsistent for this transaction; contact support")

	// Master data errors
	case errors.Is(err, designation.ErrDesignationNotFound):
		NotFound(w, "Designation not found")
	case errors.Is(err, designation.ErrDesignationNameExists):
		Conflict(w, "Designation name already exists")
	case errors.Is(err, section.ErrSectionNotFound):
		NotFound(w, "Payroll section not found")
	case errors.Is(err, section.ErrSectionNameExists):
		Conflict(w, "Payroll section name already exists")
	case errors.Is(err, branch.ErrBranchNotFound):
		NotFound(w, "Branch not found")
	case errors.Is(err, branch.ErrBranchNameExists):
		Conflict(w, "Branch name already exists")

	// Payroll lifecycle errors
	case errors.Is(err, payroll.ErrSummaryNotFound):
		NotFound(w, "Payroll summary not found for this period")
	case errors.Is(err, payroll.ErrSummaryAlreadyPosted):
		Conflict(w, "Payroll summary is already posted")
	case errors.Is(err, payroll.ErrSummaryNotPosted):
		Conflict(w, "Payroll summary is not posted")
	case errors.Is(err, payroll.ErrNoActiveEmployees):
		BadRequest(w, "No active employees to run payroll for", nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
