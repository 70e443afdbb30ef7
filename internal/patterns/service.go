package patterns

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	Repo        Repo
	CallResults CallResultsRepo
}

func NewService(repo Repo, callResults CallResultsRepo) *Service {
	return &Service{Repo: repo, CallResults: callResults}
}

func (s *Service) PatternFor(ctx context.Context, companyID string) (Pattern, error) {
	return s.Repo.GetByCompany(ctx, companyID)
}

// SavePattern replaces the company's pattern items. Every item needs a
// major class, and a referenced call result must exist.
func (s *Service) SavePattern(ctx context.Context, companyID string, items []PatternItem) (Pattern, error) {
	for i := range items {
		items[i].MajorClass = strings.TrimSpace(items[i].MajorClass)
		if items[i].MajorClass == "" {
			return Pattern{}, fmt.Errorf("%w: pattern item %d has no major class", ErrInvalidInput, i+1)
		}
		if items[i].CallResultID != "" {
			if _, err := s.CallResults.GetByID(ctx, items[i].CallResultID); err != nil {
				if errors.Is(err, ErrNotFound) {
					return Pattern{}, fmt.Errorf("%w: unknown call result %q", ErrInvalidInput, items[i].CallResultID)
				}
				return Pattern{}, err
			}
		}
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
	}

	pattern := Pattern{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		Items:     items,
	}
	if err := s.Repo.Upsert(ctx, pattern); err != nil {
		return Pattern{}, err
	}
	return s.Repo.GetByCompany(ctx, companyID)
}

// MajorClasses lists the classes registered for a company. A company
// with no pattern yet has none.
func (s *Service) MajorClasses(ctx context.Context, companyID string) ([]string, error) {
	pattern, err := s.Repo.GetByCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]string, 0, len(pattern.Items))
	for _, item := range pattern.Items {
		out = append(out, item.MajorClass)
	}
	return out, nil
}

// TalkScriptURL resolves the script configured for the company's major
// class, or "" when none is.
func (s *Service) TalkScriptURL(ctx context.Context, companyID, majorClass string) (string, error) {
	pattern, err := s.Repo.GetByCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	for _, item := range pattern.Items {
		if item.MajorClass == majorClass {
			return item.TalkScriptURL, nil
		}
	}
	return "", nil
}

func (s *Service) CreateCallResult(ctx context.Context, name, results string) (CallResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CallResult{}, fmt.Errorf("%w: call result name is required", ErrInvalidInput)
	}
	result := CallResult{ID: uuid.NewString(), Name: name, Results: results}
	if err := s.CallResults.Create(ctx, result); err != nil {
		return CallResult{}, err
	}
	return result, nil
}

func (s *Service) ListCallResults(ctx context.Context) ([]CallResult, error) {
	return s.CallResults.List(ctx)
}
