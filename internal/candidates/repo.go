package candidates

import (
	"context"
	"time"
)

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "candidate not found" }

// ProgressFilter narrows a listing to a call progress bucket. The values
// express the same null-check predicates as the stage derivation.
type ProgressFilter string

const (
	ProgressAny        ProgressFilter = ""
	ProgressFirst      ProgressFilter = "first"     // no attempts yet
	ProgressSecond     ProgressFilter = "second"    // first done, second not
	ProgressThird      ProgressFilter = "third"     // two done, third not
	ProgressExhausted  ProgressFilter = "exhausted" // all three done, not resolved
	ProgressResolvedBy ProgressFilter = "resolved"
)

// Filter is the predicate set a candidate listing composes. Zero values
// mean "no constraint" except Resolved, which is tri-state.
type Filter struct {
	CompanyID  string
	CallDate   *time.Time // matches any of the three attempt dates
	Progress   ProgressFilter
	MajorClass string
	MinorClass string
	Search     string // matches name or phone number
	Resolved   *bool
}

// Repo defines persistence for candidate records.
type Repo interface {
	Create(ctx context.Context, cand Candidate) error
	// CreateBatch persists all rows or none of them.
	CreateBatch(ctx context.Context, cands []Candidate) error
	GetByID(ctx context.Context, id string) (Candidate, error)
	// Update persists the editable fields (attempts, flags, notes). It
	// must not touch the lock columns.
	Update(ctx context.Context, cand Candidate) error
	// UpdateLock writes only locked_by and locked_at. Empty lockedBy with
	// nil lockedAt clears the lock.
	UpdateLock(ctx context.Context, id string, lockedBy string, lockedAt *time.Time) error
	List(ctx context.Context, filter Filter) ([]Candidate, error)
}
