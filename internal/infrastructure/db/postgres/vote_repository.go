package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ballotworks/election-api/internal/core/domain"
)

const voteUniqueConstraint = "votes_election_voter_key"

// foreign key constraint name -> domain error
var voteForeignKeyErrors = map[string]error{
	"votes_election_id_fkey":  domain.ErrInvalidElection,
	"votes_voter_id_fkey":     domain.ErrVoterIneligible,
	"votes_candidate_id_fkey": domain.ErrCandidateInvalid,
	"votes_booth_id_fkey":     domain.ErrBoothInvalid,
}

// VoteRepository implements ports.VoteRepository on PostgreSQL.
type VoteRepository struct {
	db *pgxpool.Pool
}

func NewVoteRepository(db *pgxpool.Pool) *VoteRepository {
	return &VoteRepository{db: db}
}

// Insert stores a ballot. Duplicates are rejected by votes_election_voter_key
// so two concurrent requests for the same voter cannot both succeed.
func (r *VoteRepository) Insert(ctx context.Context, v *domain.Vote) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO votes (id, election_id, voter_id, candidate_id, booth_id, cast_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, v.ID, v.ElectionID, v.VoterID, v.CandidateID, nullable(v.BoothID), v.CastAt)
	if err == nil {
		return nil
	}
	if constraint, ok := isUniqueViolation(err); ok && constraint == voteUniqueConstraint {
		return domain.ErrAlreadyVoted
	}
	if constraint, ok := isForeignKeyViolation(err); ok {
		if mapped, found := voteForeignKeyErrors[constraint]; found {
			return mapped
		}
	}
	return fmt.Errorf("insert vote: %w", err)
}

func (r *VoteRepository) FindByElectionAndVoter(ctx context.Context, electionID, voterID string) (*domain.Vote, error) {
	var (
		v       domain.Vote
		boothID *string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, election_id, voter_id, candidate_id, booth_id, cast_at
		FROM votes WHERE election_id = $1 AND voter_id = $2
	`, electionID, voterID).Scan(&v.ID, &v.ElectionID, &v.VoterID, &v.CandidateID, &boothID, &v.CastAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVoteNotFound
		}
		return nil, fmt.Errorf("find vote: %w", err)
	}
	v.BoothID = deref(boothID)
	return &v, nil
}
