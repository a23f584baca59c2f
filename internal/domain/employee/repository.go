package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByCode(ctx context.Context, code string) (Employee, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	GetActive(ctx context.Context) ([]Employee, error)
}
