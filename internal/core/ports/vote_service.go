package ports

import (
	"context"

	"github.com/ballotworks/election-api/internal/core/domain"
)

// CastVoteInput is a ballot submitted by an authenticated voter.
type CastVoteInput struct {
	ElectionID  string
	VoterID     string
	CandidateID string
	BoothID     string
}

// VoteService casts ballots.
type VoteService interface {
	CastVote(ctx context.Context, in CastVoteInput) (*domain.Vote, error)
	Status(ctx context.Context, electionID, voterID string) (*domain.VoteStatus, error)
}

// ResultService aggregates, publishes and reads results.
type ResultService interface {
	GenerateResults(ctx context.Context, actor domain.Identity, electionID, constituencyID string) (*domain.Result, error)
	Publish(ctx context.Context, actor domain.Identity, resultID string, published bool) (*domain.Result, error)
	GetResult(ctx context.Context, actor domain.Identity, resultID string) (*domain.Result, error)
	ListResults(ctx context.Context, actor domain.Identity, filter ListResultsFilter) ([]*domain.Result, error)
}
