package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ballotworks/election-api/internal/core/domain"
	"github.com/ballotworks/election-api/internal/core/ports"
)

// GeographyService manages constituencies and booths.
type GeographyService struct {
	repo ports.GeographyRepository
	now  func() time.Time
}

func NewGeographyService(repo ports.GeographyRepository) *GeographyService {
	return &GeographyService{repo: repo, now: time.Now}
}

func (s *GeographyService) CreateConstituency(ctx context.Context, name, code, state string) (*domain.Constituency, error) {
	name, code = strings.TrimSpace(name), strings.ToUpper(strings.TrimSpace(code))
	if name == "" || code == "" {
		return nil, domain.ErrValidation
	}
	c := &domain.Constituency{
		Name:      name,
		Code:      code,
		State:     strings.TrimSpace(state),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.CreateConstituency(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GeographyService) ListConstituencies(ctx context.Context) ([]*domain.Constituency, error) {
	return s.repo.ListConstituencies(ctx)
}

func (s *GeographyService) CreateBooth(ctx context.Context, name, constituencyID, address string) (*domain.Booth, error) {
	name = strings.TrimSpace(name)
	if name == "" || constituencyID == "" {
		return nil, domain.ErrValidation
	}
	if _, err := s.repo.FindConstituency(ctx, constituencyID); err != nil {
		if errors.Is(err, domain.ErrConstituencyNotFound) {
			return nil, domain.ErrInvalidConstituency
		}
		return nil, err
	}
	b := &domain.Booth{
		Name:           name,
		ConstituencyID: constituencyID,
		Address:        strings.TrimSpace(address),
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.CreateBooth(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *GeographyService) ListBooths(ctx context.Context, constituencyID string) ([]*domain.Booth, error) {
	return s.repo.ListBooths(ctx, constituencyID)
}
