package ports

import (
	"context"
	"time"

	"github.com/ballotworks/election-api/internal/core/domain"
)

// CreateElectionInput carries the data needed to create an election.
type CreateElectionInput struct {
	Actor          domain.Identity
	Name           string
	Type           domain.ElectionType
	StartDate      time.Time
	EndDate        time.Time
	ConstituencyID string
}

// CreateCandidateInput carries the data needed to register a candidate.
type CreateCandidateInput struct {
	Actor          domain.Identity
	Name           string
	Party          string
	ElectionID     string
	ConstituencyID string
}

// ElectionService manages elections and their candidates.
type ElectionService interface {
	CreateElection(ctx context.Context, in CreateElectionInput) (*domain.Election, error)
	GetElection(ctx context.Context, actor domain.Identity, id string) (*domain.Election, error)
	ListElections(ctx context.Context, actor domain.Identity, filter ListElectionsFilter) ([]*domain.Election, error)
	SetElectionStatus(ctx context.Context, actor domain.Identity, id string, to domain.ElectionStatus) (*domain.Election, error)

	CreateCandidate(ctx context.Context, in CreateCandidateInput) (*domain.Candidate, error)
	ListCandidates(ctx context.Context, actor domain.Identity, filter ListCandidatesFilter) ([]*domain.Candidate, error)
	SetCandidateStatus(ctx context.Context, actor domain.Identity, id string, to domain.CandidateStatus) (*domain.Candidate, error)
}

// GeographyService manages constituencies and booths.
type GeographyService interface {
	CreateConstituency(ctx context.Context, name, code, state string) (*domain.Constituency, error)
	ListConstituencies(ctx context.Context) ([]*domain.Constituency, error)
	CreateBooth(ctx context.Context, name, constituencyID, address string) (*domain.Booth, error)
	ListBooths(ctx context.Context, constituencyID string) ([]*domain.Booth, error)
}
