package section

import (
	"context"

	"github.com/awtadhr/payroll-backend-go/internal/domain/master/ordered"
)

type SectionRepository interface {
	ordered.Repository

	Create(ctx context.Context, s PayrollSection) (PayrollSection, error)
	GetByID(ctx context.Context, id string) (PayrollSection, error)
	GetAll(ctx context.Context) ([]PayrollSection, error)
	UpdateName(ctx context.Context, id string, name string) error
	Delete(ctx context.Context, id string) error
}
