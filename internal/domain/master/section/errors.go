package section

import "errors"

var (
	ErrSectionNotFound   = errors.New("payroll section not found")
	ErrSectionNameExists = errors.New("payroll section name already exists")
)
