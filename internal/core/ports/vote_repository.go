package ports

import (
	"context"

	"github.com/ballotworks/election-api/internal/core/domain"
)

// VoteRepository persists ballots.
type VoteRepository interface {
	// Insert stores the vote. A second vote for the same (election, voter)
	// must fail with domain.ErrAlreadyVoted, detected by the storage
	// uniqueness constraint rather than by a prior read.
	Insert(ctx context.Context, v *domain.Vote) error
	FindByElectionAndVoter(ctx context.Context, electionID, voterID string) (*domain.Vote, error)
}

// ResultScope identifies one aggregation target. An empty ConstituencyID
// means the whole election.
type ResultScope struct {
	ElectionID     string
	ConstituencyID string
}

// TabulateFunc turns raw counts into a tabulation inside the aggregation
// transaction.
type TabulateFunc func(tallies []domain.CandidateTally, eligible int64) domain.Tabulation

// ListResultsFilter carries the query parameters for listing results.
type ListResultsFilter struct {
	ElectionID     string // optional
	ConstituencyID string // optional
	PublishedOnly  bool
}

// ResultRepository stores the materialized results.
type ResultRepository interface {
	// Regenerate counts votes for scope and replaces the stored Result and its
	// CandidateResult rows in one transaction. Concurrent runs for the same
	// scope fail with domain.ErrAggregationBusy instead of interleaving.
	Regenerate(ctx context.Context, scope ResultScope, tabulate TabulateFunc) (*domain.Result, error)
	FindByID(ctx context.Context, id string) (*domain.Result, error)
	List(ctx context.Context, filter ListResultsFilter) ([]*domain.Result, error)
	SetPublished(ctx context.Context, id string, published bool) (*domain.Result, error)
}
