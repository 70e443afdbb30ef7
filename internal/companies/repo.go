package companies

import "context"

var (
	ErrNotFound  = errNotFound{}
	ErrDuplicate = errDuplicate{}
)

type errNotFound struct{}

func (errNotFound) Error() string { return "company not found" }

type errDuplicate struct{}

func (errDuplicate) Error() string { return "company name already registered" }

type Repo interface {
	Create(ctx context.Context, company Company) error
	GetByID(ctx context.Context, id string) (Company, error)
	GetByName(ctx context.Context, name string) (Company, error)
	List(ctx context.Context) ([]Company, error)
}
