package companies

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu        sync.RWMutex
	companies map[string]Company
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{companies: make(map[string]Company)}
}

func (r *MemoryRepo) Create(ctx context.Context, company Company) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.companies {
		if existing.Name == company.Name {
			return ErrDuplicate
		}
	}
	if company.CreatedAt.IsZero() {
		company.CreatedAt = time.Now().UTC()
	}
	r.companies[company.ID] = company
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Company, error) {
	if err := ctx.Err(); err != nil {
		return Company{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	company, ok := r.companies[id]
	if !ok {
		return Company{}, ErrNotFound
	}
	return company, nil
}

func (r *MemoryRepo) GetByName(ctx context.Context, name string) (Company, error) {
	if err := ctx.Err(); err != nil {
		return Company{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, company := range r.companies {
		if company.Name == name {
			return company, nil
		}
	}
	return Company{}, ErrNotFound
}

func (r *MemoryRepo) List(ctx context.Context) ([]Company, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Company, 0, len(r.companies))
	for _, company := range r.companies {
		out = append(out, company)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
