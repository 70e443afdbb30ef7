package candidates

import (
	"context"
	"errors"
	"testing"
	"time"
)

func seedCandidate(t *testing.T, repo *MemoryRepo, id string) {
	t.Helper()
	err := repo.Create(context.Background(), Candidate{
		ID:          id,
		CompanyID:   "comp-1",
		Name:        "ヤマダ タロウ",
		FullName:    "山田 太郎",
		PhoneNumber: "09011112222",
	})
	if err != nil {
		t.Fatalf("seed candidate: %v", err)
	}
}

func TestLockManagerAcquireAndContention(t *testing.T) {
	repo := NewMemoryRepo()
	seedCandidate(t, repo, "cand-1")
	now := time.Date(2026, time.April, 1, 10, 0, 0, 0, time.UTC)
	locks := &LockManager{Repo: repo, Now: func() time.Time { return now }}
	ctx := context.Background()

	if _, err := locks.Acquire(ctx, "cand-1", "alice"); err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	// Holder can re-acquire; the lock just extends.
	if _, err := locks.Acquire(ctx, "cand-1", "alice"); err != nil {
		t.Fatalf("holder re-acquire: %v", err)
	}

	cand, err := locks.Acquire(ctx, "cand-1", "bob")
	if !errors.Is(err, ErrLockBusy) {
		t.Fatalf("expected ErrLockBusy for other staff, got %v", err)
	}
	if cand.LockedBy != "alice" {
		t.Fatalf("contended acquire should report holder, got %q", cand.LockedBy)
	}
}

func TestLockManagerTTLBoundary(t *testing.T) {
	repo := NewMemoryRepo()
	seedCandidate(t, repo, "cand-1")
	base := time.Date(2026, time.April, 1, 10, 0, 0, 0, time.UTC)
	now := base
	locks := &LockManager{Repo: repo, Now: func() time.Time { return now }}
	ctx := context.Background()

	if _, err := locks.Acquire(ctx, "cand-1", "alice"); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	now = base.Add(59 * time.Second)
	if _, err := locks.Acquire(ctx, "cand-1", "bob"); !errors.Is(err, ErrLockBusy) {
		t.Fatalf("expected lock still held at 59s, got %v", err)
	}

	now = base.Add(61 * time.Second)
	if _, err := locks.Acquire(ctx, "cand-1", "bob"); err != nil {
		t.Fatalf("expected expired lock to be stealable at 61s, got %v", err)
	}

	cand, err := repo.GetByID(ctx, "cand-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cand.LockedBy != "bob" {
		t.Fatalf("expected bob to hold the lock, got %q", cand.LockedBy)
	}
}

func TestLockManagerReleaseIdempotent(t *testing.T) {
	repo := NewMemoryRepo()
	seedCandidate(t, repo, "cand-1")
	locks := &LockManager{Repo: repo}
	ctx := context.Background()

	if _, err := locks.Acquire(ctx, "cand-1", "alice"); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := locks.Release(ctx, "cand-1"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := locks.Release(ctx, "cand-1"); err != nil {
		t.Fatalf("second release should be a no-op, got %v", err)
	}

	cand, err := repo.GetByID(ctx, "cand-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cand.LockedBy != "" || cand.LockedAt != nil {
		t.Fatalf("expected lock cleared, got %q %v", cand.LockedBy, cand.LockedAt)
	}
}

func TestIsLockedNeverBlocksHolder(t *testing.T) {
	now := time.Date(2026, time.April, 1, 10, 0, 0, 0, time.UTC)
	locks := &LockManager{Now: func() time.Time { return now }}
	at := now.Add(-10 * time.Second)
	cand := Candidate{LockedBy: "alice", LockedAt: &at}

	if locks.IsLocked(cand, "alice") {
		t.Fatal("holder must not be blocked by own lock")
	}
	if !locks.IsLocked(cand, "bob") {
		t.Fatal("other staff must be blocked by a fresh lock")
	}
	if locks.IsLocked(Candidate{}, "bob") {
		t.Fatal("unlocked record must not block anyone")
	}
}
