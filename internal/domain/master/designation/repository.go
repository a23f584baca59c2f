package designation

import (
	"context"

	"github.com/awtadhr/payroll-backend-go/internal/domain/master/ordered"
)

type DesignationRepository interface {
	ordered.Repository

	Create(ctx context.Context, d Designation) (Designation, error)
	GetByID(ctx context.Context, id string) (Designation, error)
	GetAll(ctx context.Context) ([]Designation, error)
	UpdateName(ctx context.Context, id string, name string) error
	Delete(ctx context.Context, id string) error
}
