package patterns

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "pattern not found" }

type Repo interface {
	GetByCompany(ctx context.Context, companyID string) (Pattern, error)
	// Upsert replaces the company's pattern and all of its items.
	Upsert(ctx context.Context, pattern Pattern) error
}

type CallResultsRepo interface {
	Create(ctx context.Context, result CallResult) error
	GetByID(ctx context.Context, id string) (CallResult, error)
	List(ctx context.Context) ([]CallResult, error)
}
