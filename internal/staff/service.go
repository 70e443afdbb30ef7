package staff

import (
	"context"
	"errors"
	"strings"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// UpsertFromAuth persists the operator identity from OAuth so locks and
// call history have a stable owner.
func (s *Service) UpsertFromAuth(ctx context.Context, member Member) error {
	if s == nil || s.Repo == nil {
		return errors.New("staff service not configured")
	}
	if strings.TrimSpace(member.ID) == "" || strings.TrimSpace(member.Email) == "" {
		return errors.New("staff id and email are required")
	}
	return s.Repo.Upsert(ctx, member)
}

func (s *Service) GetByID(ctx context.Context, staffID string) (Member, error) {
	if s == nil || s.Repo == nil {
		return Member{}, errors.New("staff service not configured")
	}
	if strings.TrimSpace(staffID) == "" {
		return Member{}, errors.New("staff id is required")
	}
	return s.Repo.GetByID(ctx, staffID)
}

// DisplayName resolves a staff ID to something an operator recognizes
// on the lock banner. Unknown IDs fall back to the raw value so a stale
// lock still names its holder.
func (s *Service) DisplayName(ctx context.Context, staffID string) string {
	if s == nil || s.Repo == nil || staffID == "" {
		return staffID
	}
	member, err := s.Repo.GetByID(ctx, staffID)
	if err != nil {
		return staffID
	}
	if member.FullName != "" {
		return member.FullName
	}
	if member.Email != "" {
		return member.Email
	}
	return staffID
}
