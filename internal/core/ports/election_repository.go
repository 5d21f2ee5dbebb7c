package ports

import (
	"context"

	"github.com/ballotworks/election-api/internal/core/domain"
)

// ListElectionsFilter carries the query parameters for listing elections.
type ListElectionsFilter struct {
	Status           domain.ElectionStatus // optional
	Type             domain.ElectionType   // optional
	ConstituencyID   string                // optional
	ExcludeCancelled bool
}

// ElectionRepository defines persistence operations for elections.
type ElectionRepository interface {
	Create(ctx context.Context, e *domain.Election) error
	FindByID(ctx context.Context, id string) (*domain.Election, error)
	List(ctx context.Context, filter ListElectionsFilter) ([]*domain.Election, error)
	// UpdateStatus applies from -> to only if the stored status still equals
	// from; otherwise it returns domain.ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id string, from, to domain.ElectionStatus) (*domain.Election, error)
}

// ListCandidatesFilter carries the query parameters for listing candidates.
type ListCandidatesFilter struct {
	ElectionID     string
	ConstituencyID string                 // optional
	Status         domain.CandidateStatus // optional
}

// CandidateRepository defines persistence operations for candidates.
type CandidateRepository interface {
	Create(ctx context.Context, c *domain.Candidate) error
	FindByID(ctx context.Context, id string) (*domain.Candidate, error)
	List(ctx context.Context, filter ListCandidatesFilter) ([]*domain.Candidate, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.CandidateStatus) (*domain.Candidate, error)
}

// GeographyRepository stores constituencies and booths.
type GeographyRepository interface {
	CreateConstituency(ctx context.Context, c *domain.Constituency) error
	FindConstituency(ctx context.Context, id string) (*domain.Constituency, error)
	ListConstituencies(ctx context.Context) ([]*domain.Constituency, error)
	CreateBooth(ctx context.Context, b *domain.Booth) error
	FindBooth(ctx context.Context, id string) (*domain.Booth, error)
	ListBooths(ctx context.Context, constituencyID string) ([]*domain.Booth, error)
}
