package staff

import (
	"context"
	"errors"
	"testing"
)

func TestUpsertFromAuthValidatesIdentity(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if err := svc.UpsertFromAuth(ctx, Member{ID: "", Email: "a@example.com"}); err == nil {
		t.Fatal("expected error for missing id")
	}
	if err := svc.UpsertFromAuth(ctx, Member{ID: "google:1", Email: " "}); err == nil {
		t.Fatal("expected error for missing email")
	}
	if err := svc.UpsertFromAuth(ctx, Member{ID: "google:1", Email: "a@example.com"}); err != nil {
		t.Fatalf("UpsertFromAuth: %v", err)
	}

	member, err := svc.GetByID(ctx, "google:1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if member.Email != "a@example.com" {
		t.Fatalf("unexpected member: %+v", member)
	}
}

func TestGetByIDUnknownMember(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	_, err := svc.GetByID(context.Background(), "google:none")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDisplayNameFallbackChain(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if got := svc.DisplayName(ctx, "google:ghost"); got != "google:ghost" {
		t.Fatalf("expected raw id for unknown member, got %q", got)
	}

	seed := func(m Member) {
		t.Helper()
		if err := svc.UpsertFromAuth(ctx, m); err != nil {
			t.Fatalf("seed member: %v", err)
		}
	}

	seed(Member{ID: "google:1", Email: "taro@example.com", FullName: "山田 太郎"})
	if got := svc.DisplayName(ctx, "google:1"); got != "山田 太郎" {
		t.Fatalf("expected full name, got %q", got)
	}

	seed(Member{ID: "google:2", Email: "hanako@example.com"})
	if got := svc.DisplayName(ctx, "google:2"); got != "hanako@example.com" {
		t.Fatalf("expected email fallback, got %q", got)
	}

	var nilSvc *Service
	if got := nilSvc.DisplayName(ctx, "op-1"); got != "op-1" {
		t.Fatalf("expected raw id from unconfigured service, got %q", got)
	}
}
