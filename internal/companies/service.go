package companies

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

func (s *Service) Create(ctx context.Context, name string) (Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Company{}, errors.New("company name is required")
	}
	company := Company{ID: uuid.NewString(), Name: name}
	if err := s.Repo.Create(ctx, company); err != nil {
		return Company{}, err
	}
	return company, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Company, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Company, error) {
	return s.Repo.List(ctx)
}
