package candidates

import (
	"context"
	"time"

	"callportal-backend/internal/shared/metrics"
)

// LockTTL is how long an untouched lock stays effective. The client
// sends a keepalive at least every 30 seconds while an edit session is
// open, so expiry only matters for abandoned sessions.
const LockTTL = time.Minute

var ErrLockBusy = errLockBusy{}

type errLockBusy struct{}

func (errLockBusy) Error() string { return "candidate is being edited by another user" }

// LockManager serializes candidate editing with a soft, timestamp-based
// lock over the locked_by/locked_at pair. It is a liveness timeout, not
// mutual exclusion: two acquisitions in the same instant are
// last-write-wins, which the domain accepts.
type LockManager struct {
	Repo Repo
	Now  func() time.Time // test seam; defaults to time.Now
}

func (m *LockManager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// IsLocked reports whether staffID is blocked from editing cand. The
// holder is never blocked by their own lock, and a foreign lock stops
// counting once LockTTL has elapsed.
func (m *LockManager) IsLocked(cand Candidate, staffID string) bool {
	if cand.LockedBy == "" || cand.LockedAt == nil {
		return false
	}
	if cand.LockedBy == staffID {
		return false
	}
	return m.now().Sub(*cand.LockedAt) < LockTTL
}

// Acquire grants or renews the edit lock for staffID. Called both when a
// record is opened and on every keepalive, so holding the lock keeps
// extending it. On contention the current record is returned alongside
// ErrLockBusy so callers can name the holder.
func (m *LockManager) Acquire(ctx context.Context, id, staffID string) (Candidate, error) {
	cand, err := m.Repo.GetByID(ctx, id)
	if err != nil {
		return Candidate{}, err
	}
	if m.IsLocked(cand, staffID) {
		metrics.IncLockContended()
		return cand, ErrLockBusy
	}
	now := m.now()
	if err := m.Repo.UpdateLock(ctx, id, staffID, &now); err != nil {
		return Candidate{}, err
	}
	metrics.IncLockAcquired()
	cand.LockedBy = staffID
	cand.LockedAt = &now
	return cand, nil
}

// Release clears the lock unconditionally. Safe on an already-unlocked
// record.
func (m *LockManager) Release(ctx context.Context, id string) error {
	return m.Repo.UpdateLock(ctx, id, "", nil)
}
