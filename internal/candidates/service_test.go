package candidates

import (
	"context"
	"errors"
	"testing"
	"time"

	"callportal-backend/internal/schedule"
)

type fakeTalkScripts struct {
	url string
}

func (f fakeTalkScripts) TalkScriptURL(ctx context.Context, companyID, majorClass string) (string, error) {
	return f.url, nil
}

func newTestService(t *testing.T) (*Service, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	svc := NewService(repo, fakeTalkScripts{url: "https://docs.example.com/script"})
	return svc, repo
}

func TestOpenAcquiresLockAndTalkScript(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	err := repo.Create(ctx, Candidate{ID: "cand-1", CompanyID: "comp-1", Name: "スズキ", MajorClass: "総合職"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	cand, script, err := svc.Open(ctx, "cand-1", "alice")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if cand.LockedBy != "alice" {
		t.Fatalf("expected lock held by alice, got %q", cand.LockedBy)
	}
	if script != "https://docs.example.com/script" {
		t.Fatalf("talk script = %q", script)
	}

	_, _, err = svc.Open(ctx, "cand-1", "bob")
	if !errors.Is(err, ErrLockBusy) {
		t.Fatalf("expected ErrLockBusy for second editor, got %v", err)
	}
}

func TestSaveValidatesAttemptOrder(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	if err := repo.Create(ctx, Candidate{ID: "cand-1", CompanyID: "comp-1"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := svc.Save(ctx, "cand-1", "alice", EditInput{
		SecondCallDate: d("2026-04-01"),
		SecondCallSlot: schedule.SlotNoon,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for second-before-first, got %v", err)
	}

	_, err = svc.Save(ctx, "cand-1", "alice", EditInput{
		FirstCallDate: d("2026-04-01"),
		FirstCallSlot: "midnight",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown slot, got %v", err)
	}
}

func TestSaveRejectsAttemptEditsOnResolved(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	err := repo.Create(ctx, Candidate{
		ID:            "cand-1",
		CompanyID:     "comp-1",
		FirstCallDate: d("2026-04-01"),
		FirstCallSlot: schedule.SlotMorning,
		Resolved:      true,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err = svc.Save(ctx, "cand-1", "alice", EditInput{
		FirstCallDate:  d("2026-04-01"),
		FirstCallSlot:  schedule.SlotMorning,
		SecondCallDate: d("2026-04-02"),
		SecondCallSlot: schedule.SlotNoon,
		Resolved:       true,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for attempts on resolved record, got %v", err)
	}

	// Note-only edits stay allowed.
	cand, err := svc.Save(ctx, "cand-1", "alice", EditInput{
		FirstCallDate: d("2026-04-01"),
		FirstCallSlot: schedule.SlotMorning,
		Resolved:      true,
		AfterNotes:    "entry confirmed",
	})
	if err != nil {
		t.Fatalf("note-only save: %v", err)
	}
	if cand.AfterNotes != "entry confirmed" {
		t.Fatalf("AfterNotes = %q", cand.AfterNotes)
	}
}

func TestSaveReleasesLock(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	if err := repo.Create(ctx, Candidate{ID: "cand-1", CompanyID: "comp-1"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, _, err := svc.Open(ctx, "cand-1", "alice"); err != nil {
		t.Fatalf("open: %v", err)
	}

	_, err := svc.Save(ctx, "cand-1", "alice", EditInput{
		FirstCallDate: d("2026-04-01"),
		FirstCallSlot: schedule.SlotMorning,
		FirstCallNote: "留守電",
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	stored, err := repo.GetByID(ctx, "cand-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.LockedBy != "" || stored.LockedAt != nil {
		t.Fatalf("expected lock released after save, got %q", stored.LockedBy)
	}
	if stored.FirstCallNote != "留守電" {
		t.Fatalf("FirstCallNote = %q", stored.FirstCallNote)
	}
}

func TestSaveBlockedByForeignLock(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	if err := repo.Create(ctx, Candidate{ID: "cand-1", CompanyID: "comp-1"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, _, err := svc.Open(ctx, "cand-1", "alice"); err != nil {
		t.Fatalf("open: %v", err)
	}

	_, err := svc.Save(ctx, "cand-1", "bob", EditInput{
		FirstCallDate: d("2026-04-01"),
		FirstCallSlot: schedule.SlotMorning,
	})
	if !errors.Is(err, ErrLockBusy) {
		t.Fatalf("expected ErrLockBusy, got %v", err)
	}
}

func TestListNextSlotBucket(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	today := time.Date(2026, time.April, 2, 9, 0, 0, 0, time.UTC)

	seed := []Candidate{
		{ID: "due-noon", CompanyID: "comp-1", Name: "A", FirstCallDate: d("2026-04-01"), FirstCallSlot: schedule.SlotMorning},
		{ID: "due-morning", CompanyID: "comp-1", Name: "B", FirstCallDate: d("2026-04-01"), FirstCallSlot: schedule.SlotEvening},
		{ID: "same-day", CompanyID: "comp-1", Name: "C", FirstCallDate: d("2026-04-02"), FirstCallSlot: schedule.SlotMorning},
		{ID: "fresh", CompanyID: "comp-1", Name: "D"},
	}
	for _, cand := range seed {
		if err := repo.Create(ctx, cand); err != nil {
			t.Fatalf("seed %s: %v", cand.ID, err)
		}
	}

	got, err := svc.List(ctx, ListQuery{
		Filter:      Filter{CompanyID: "comp-1"},
		NextAttempt: 2,
		NextSlot:    schedule.SlotNoon,
		Today:       today,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != "due-noon" {
		t.Fatalf("expected only due-noon, got %d results", len(got))
	}
}
