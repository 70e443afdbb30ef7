package candidates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"callportal-backend/internal/schedule"
	"callportal-backend/internal/shared/telemetry"
)

var ErrInvalidInput = errors.New("invalid input")

// TalkScriptSource resolves the talk-script URL configured for a
// company's major class, if any.
type TalkScriptSource interface {
	TalkScriptURL(ctx context.Context, companyID, majorClass string) (string, error)
}

// Service coordinates candidate reads and edit sessions. Opening a
// record acquires the soft lock immediately so the single-editor common
// case never races; saving releases it as part of the same action.
type Service struct {
	Repo        Repo
	Locks       *LockManager
	TalkScripts TalkScriptSource
}

func NewService(repo Repo, talkScripts TalkScriptSource) *Service {
	return &Service{
		Repo:        repo,
		Locks:       &LockManager{Repo: repo},
		TalkScripts: talkScripts,
	}
}

// Open loads a candidate for editing, acquiring the lock for staffID.
// On contention the stored record is returned with ErrLockBusy so the
// caller can name the holder. The talk-script lookup is best-effort.
func (s *Service) Open(ctx context.Context, id, staffID string) (Candidate, string, error) {
	cand, err := s.Locks.Acquire(ctx, id, staffID)
	if err != nil {
		return cand, "", err
	}
	return cand, s.talkScript(ctx, cand), nil
}

// Get is a plain read without touching the lock.
func (s *Service) Get(ctx context.Context, id string) (Candidate, error) {
	return s.Repo.GetByID(ctx, id)
}

// Keepalive renews the caller's lock, or grants it when free.
func (s *Service) Keepalive(ctx context.Context, id, staffID string) error {
	_, err := s.Locks.Acquire(ctx, id, staffID)
	return err
}

// Unlock clears the lock regardless of holder. Idempotent.
func (s *Service) Unlock(ctx context.Context, id string) error {
	return s.Locks.Release(ctx, id)
}

// EditInput carries the editable fields of the change form. Identity
// fields (name, phone, class, university...) are import-owned and not
// editable here.
type EditInput struct {
	FirstCallDate  *time.Time
	FirstCallSlot  schedule.TimeSlot
	FirstCallNote  string
	SecondCallDate *time.Time
	SecondCallSlot schedule.TimeSlot
	SecondCallNote string
	ThirdCallDate  *time.Time
	ThirdCallSlot  schedule.TimeSlot
	ThirdCallNote  string
	NeedsFollowup  bool
	NeedsReview    bool
	Resolved       bool
	BeforeNotes    string
	AfterNotes     string
}

// Save validates and persists an edit, then releases the lock so the
// next viewer is not blocked by a session the system knows is over.
func (s *Service) Save(ctx context.Context, id, staffID string, in EditInput) (Candidate, error) {
	cand, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Candidate{}, err
	}
	if s.Locks.IsLocked(cand, staffID) {
		return cand, ErrLockBusy
	}
	if err := validateEdit(cand, in); err != nil {
		return cand, err
	}

	cand.FirstCallDate = in.FirstCallDate
	cand.FirstCallSlot = in.FirstCallSlot
	cand.FirstCallNote = in.FirstCallNote
	cand.SecondCallDate = in.SecondCallDate
	cand.SecondCallSlot = in.SecondCallSlot
	cand.SecondCallNote = in.SecondCallNote
	cand.ThirdCallDate = in.ThirdCallDate
	cand.ThirdCallSlot = in.ThirdCallSlot
	cand.ThirdCallNote = in.ThirdCallNote
	cand.NeedsFollowup = in.NeedsFollowup
	cand.NeedsReview = in.NeedsReview
	cand.Resolved = in.Resolved
	cand.BeforeNotes = in.BeforeNotes
	cand.AfterNotes = in.AfterNotes

	if err := s.Repo.Update(ctx, cand); err != nil {
		return Candidate{}, err
	}
	if err := s.Locks.Release(ctx, id); err != nil {
		telemetry.Error("candidates.save.release_lock", map[string]any{
			"candidate_id": id,
			"error":        err.Error(),
		})
	}
	cand.LockedBy = ""
	cand.LockedAt = nil
	return cand, nil
}

// validateEdit enforces what the read side assumes: attempts filled in
// order, known slot values, and no attempt edits on a record staying
// resolved.
func validateEdit(cand Candidate, in EditInput) error {
	for _, slot := range []schedule.TimeSlot{in.FirstCallSlot, in.SecondCallSlot, in.ThirdCallSlot} {
		if slot != "" && !slot.Valid() {
			return fmt.Errorf("%w: unknown time slot %q", ErrInvalidInput, slot)
		}
	}
	if in.SecondCallDate != nil && in.FirstCallDate == nil {
		return fmt.Errorf("%w: second call recorded before first", ErrInvalidInput)
	}
	if in.ThirdCallDate != nil && in.SecondCallDate == nil {
		return fmt.Errorf("%w: third call recorded before second", ErrInvalidInput)
	}
	if cand.Resolved && in.Resolved && attemptsChanged(cand, in) {
		return fmt.Errorf("%w: resolved candidates take no further attempts", ErrInvalidInput)
	}
	return nil
}

func attemptsChanged(cand Candidate, in EditInput) bool {
	return !equalDate(cand.FirstCallDate, in.FirstCallDate) ||
		cand.FirstCallSlot != in.FirstCallSlot ||
		cand.FirstCallNote != in.FirstCallNote ||
		!equalDate(cand.SecondCallDate, in.SecondCallDate) ||
		cand.SecondCallSlot != in.SecondCallSlot ||
		cand.SecondCallNote != in.SecondCallNote ||
		!equalDate(cand.ThirdCallDate, in.ThirdCallDate) ||
		cand.ThirdCallSlot != in.ThirdCallSlot ||
		cand.ThirdCallNote != in.ThirdCallNote
}

func equalDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// ListQuery extends the repo filter with the next-slot bucket, which
// needs the scheduling rule and therefore cannot be a SQL predicate.
type ListQuery struct {
	Filter
	NextAttempt int // 2 or 3; 0 disables the bucket filter
	NextSlot    schedule.TimeSlot
	Today       time.Time // zero means now
}

// List returns candidates matching the query. The next-slot bucket is
// applied in memory over the repo result, mirroring how the dashboard
// buckets are computed.
func (s *Service) List(ctx context.Context, q ListQuery) ([]Candidate, error) {
	filter := q.Filter
	if q.NextAttempt == 2 {
		filter.Progress = ProgressSecond
	} else if q.NextAttempt == 3 {
		filter.Progress = ProgressThird
	}

	cands, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if q.NextAttempt != 2 && q.NextAttempt != 3 {
		return cands, nil
	}

	today := q.Today
	if today.IsZero() {
		today = time.Now()
	}
	out := make([]Candidate, 0, len(cands))
	for _, cand := range cands {
		p := cand.Progress()
		if q.NextAttempt == 2 && !p.EligibleForSecond(today) {
			continue
		}
		if q.NextAttempt == 3 && !p.EligibleForThird(today) {
			continue
		}
		slot, ok := p.NextSlot()
		if !ok || slot != q.NextSlot {
			continue
		}
		out = append(out, cand)
	}
	return out, nil
}

// CompanySummary aggregates the dashboard counts for one company.
func (s *Service) CompanySummary(ctx context.Context, companyID string, date, today time.Time) (CompanySummary, error) {
	active := false
	cands, err := s.Repo.List(ctx, Filter{CompanyID: companyID, Resolved: &active})
	if err != nil {
		return CompanySummary{}, err
	}
	return Summarize(companyID, cands, date, today), nil
}

func (s *Service) talkScript(ctx context.Context, cand Candidate) string {
	if s.TalkScripts == nil || cand.MajorClass == "" {
		return ""
	}
	url, err := s.TalkScripts.TalkScriptURL(ctx, cand.CompanyID, cand.MajorClass)
	if err != nil {
		return ""
	}
	return url
}
