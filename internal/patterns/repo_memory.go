package patterns

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	patterns map[string]Pattern // keyed by company id
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{patterns: make(map[string]Pattern)}
}

func (r *MemoryRepo) GetByCompany(ctx context.Context, companyID string) (Pattern, error) {
	if err := ctx.Err(); err != nil {
		return Pattern{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	pattern, ok := r.patterns[companyID]
	if !ok {
		return Pattern{}, ErrNotFound
	}
	return pattern, nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, pattern Pattern) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.patterns[pattern.CompanyID]; ok {
		pattern.ID = existing.ID
		pattern.CreatedAt = existing.CreatedAt
	} else if pattern.CreatedAt.IsZero() {
		pattern.CreatedAt = time.Now().UTC()
	}
	r.patterns[pattern.CompanyID] = pattern
	return nil
}

type MemoryCallResultsRepo struct {
	mu      sync.RWMutex
	results map[string]CallResult
}

func NewMemoryCallResultsRepo() *MemoryCallResultsRepo {
	return &MemoryCallResultsRepo{results: make(map[string]CallResult)}
}

func (r *MemoryCallResultsRepo) Create(ctx context.Context, result CallResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[result.ID] = result
	return nil
}

func (r *MemoryCallResultsRepo) GetByID(ctx context.Context, id string) (CallResult, error) {
	if err := ctx.Err(); err != nil {
		return CallResult{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	result, ok := r.results[id]
	if !ok {
		return CallResult{}, ErrNotFound
	}
	return result, nil
}

func (r *MemoryCallResultsRepo) List(ctx context.Context) ([]CallResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]CallResult, 0, len(r.results))
	for _, result := range r.results {
		out = append(out, result)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
