package payroll

import "errors"

var (
	ErrSummaryNotFound = errors.New("payroll summary not found for this period")

	// State-guard violations (invalid lifecycle transitions).
	ErrSummaryAlreadyPosted = errors.New("payroll summary already posted")
	ErrSummaryNotPosted     = errors.New("payroll summary is not posted")

	ErrNoActiveEmployees = errors.New("no active employees to run payroll for")
)
