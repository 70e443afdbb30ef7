package candidates

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	cands map[string]Candidate
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{cands: make(map[string]Candidate)}
}

func (r *MemoryRepo) Create(ctx context.Context, cand Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cand.CreatedAt.IsZero() {
		cand.CreatedAt = time.Now().UTC()
	}
	r.cands[cand.ID] = cand
	return nil
}

func (r *MemoryRepo) CreateBatch(ctx context.Context, cands []Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	for _, cand := range cands {
		if cand.CreatedAt.IsZero() {
			cand.CreatedAt = now
		}
		r.cands[cand.ID] = cand
	}
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	cand, ok := r.cands[id]
	if !ok {
		return Candidate{}, ErrNotFound
	}
	return cand, nil
}

func (r *MemoryRepo) Update(ctx context.Context, cand Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.cands[cand.ID]
	if !ok {
		return ErrNotFound
	}
	// Editable fields only; lock pair and identity stay as stored.
	existing.FirstCallDate = cand.FirstCallDate
	existing.FirstCallSlot = cand.FirstCallSlot
	existing.FirstCallNote = cand.FirstCallNote
	existing.SecondCallDate = cand.SecondCallDate
	existing.SecondCallSlot = cand.SecondCallSlot
	existing.SecondCallNote = cand.SecondCallNote
	existing.ThirdCallDate = cand.ThirdCallDate
	existing.ThirdCallSlot = cand.ThirdCallSlot
	existing.ThirdCallNote = cand.ThirdCallNote
	existing.NeedsFollowup = cand.NeedsFollowup
	existing.NeedsReview = cand.NeedsReview
	existing.Resolved = cand.Resolved
	existing.BeforeNotes = cand.BeforeNotes
	existing.AfterNotes = cand.AfterNotes
	r.cands[cand.ID] = existing
	return nil
}

func (r *MemoryRepo) UpdateLock(ctx context.Context, id string, lockedBy string, lockedAt *time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cand, ok := r.cands[id]
	if !ok {
		return ErrNotFound
	}
	cand.LockedBy = lockedBy
	cand.LockedAt = lockedAt
	r.cands[id] = cand
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, filter Filter) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Candidate
	for _, cand := range r.cands {
		if matches(cand, filter) {
			out = append(out, cand)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func matches(cand Candidate, filter Filter) bool {
	if filter.CompanyID != "" && cand.CompanyID != filter.CompanyID {
		return false
	}
	if filter.CallDate != nil && !cand.Progress().CalledOn(*filter.CallDate) {
		return false
	}
	switch filter.Progress {
	case ProgressFirst:
		if cand.FirstCallDate != nil || cand.Resolved {
			return false
		}
	case ProgressSecond:
		if cand.FirstCallDate == nil || cand.SecondCallDate != nil || cand.Resolved {
			return false
		}
	case ProgressThird:
		if cand.FirstCallDate == nil || cand.SecondCallDate == nil || cand.ThirdCallDate != nil || cand.Resolved {
			return false
		}
	case ProgressExhausted:
		if cand.FirstCallDate == nil || cand.SecondCallDate == nil || cand.ThirdCallDate == nil || cand.Resolved {
			return false
		}
	case ProgressResolvedBy:
		if !cand.Resolved {
			return false
		}
	}
	if filter.MajorClass != "" && cand.MajorClass != filter.MajorClass {
		return false
	}
	if filter.MinorClass != "" && cand.MinorClass != filter.MinorClass {
		return false
	}
	if filter.Search != "" {
		q := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(cand.Name), q) &&
			!strings.Contains(strings.ToLower(cand.PhoneNumber), q) {
			return false
		}
	}
	if filter.Resolved != nil && cand.Resolved != *filter.Resolved {
		return false
	}
	return true
}
