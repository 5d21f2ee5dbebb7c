package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ballotworks/election-api/internal/api/metrics"
	"github.com/ballotworks/election-api/internal/core/domain"
	"github.com/ballotworks/election-api/internal/core/ports"
)

// VoteService casts ballots. All eligibility checks run before the single
// insert; duplicate votes are rejected by the storage constraint.
type VoteService struct {
	elections  ports.ElectionRepository
	candidates ports.CandidateRepository
	users      ports.UserRepository
	geography  ports.GeographyRepository
	votes      ports.VoteRepository
	audit      ports.AuditRecorder
	log        zerolog.Logger
	now        func() time.Time
}

func NewVoteService(
	elections ports.ElectionRepository,
	candidates ports.CandidateRepository,
	users ports.UserRepository,
	geography ports.GeographyRepository,
	votes ports.VoteRepository,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *VoteService {
	return &VoteService{
		elections:  elections,
		candidates: candidates,
		users:      users,
		geography:  geography,
		votes:      votes,
		audit:      audit,
		log:        log,
		now:        time.Now,
	}
}

// CastVote records one vote for in.VoterID in in.ElectionID.
func (s *VoteService) CastVote(ctx context.Context, in ports.CastVoteInput) (vote *domain.Vote, err error) {
	defer func() { metrics.ObserveVote(err) }()

	if in.ElectionID == "" || in.VoterID == "" || in.CandidateID == "" {
		return nil, domain.ErrValidation
	}

	// 1. Election must exist and be open.
	election, err := s.elections.FindByID(ctx, in.ElectionID)
	if err != nil {
		if errors.Is(err, domain.ErrElectionNotFound) {
			return nil, domain.ErrInvalidElection
		}
		return nil, fmt.Errorf("cast vote: %w", err)
	}
	if election.Status != domain.ElectionActive {
		return nil, domain.ErrElectionNotActive
	}

	// 2. Voter must be an active voter inside the election's scope.
	voter, err := s.users.FindByID(ctx, in.VoterID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrVoterIneligible
		}
		return nil, fmt.Errorf("cast vote: %w", err)
	}
	if voter.Role != domain.RoleVoter || voter.Status != domain.UserActive {
		return nil, domain.ErrVoterIneligible
	}
	if election.Scoped() && voter.ConstituencyID != election.ConstituencyID {
		return nil, domain.ErrVoterIneligible
	}

	// 3. Candidate must be active in this election and, when placed in a
	// constituency, in the voter's.
	candidate, err := s.candidates.FindByID(ctx, in.CandidateID)
	if err != nil {
		if errors.Is(err, domain.ErrCandidateNotFound) {
			return nil, domain.ErrCandidateInvalid
		}
		return nil, fmt.Errorf("cast vote: %w", err)
	}
	if candidate.ElectionID != election.ID || candidate.Status != domain.CandidateActive {
		return nil, domain.ErrCandidateInvalid
	}
	if candidate.ConstituencyID != "" && voter.ConstituencyID != "" && candidate.ConstituencyID != voter.ConstituencyID {
		return nil, domain.ErrCandidateInvalid
	}

	// 4. Booth defaults to the voter's assigned booth.
	boothID := in.BoothID
	if boothID == "" {
		boothID = voter.BoothID
	} else if err := s.checkBooth(ctx, boothID, voter.ConstituencyID); err != nil {
		return nil, err
	}

	// 5. Single insert; the (election_id, voter_id) constraint decides duplicates.
	vote = &domain.Vote{
		ID:          uuid.NewString(),
		ElectionID:  election.ID,
		VoterID:     voter.ID,
		CandidateID: candidate.ID,
		BoothID:     boothID,
		CastAt:      s.now().UTC(),
	}
	if err := s.votes.Insert(ctx, vote); err != nil {
		if errors.Is(err, domain.ErrAlreadyVoted) {
			s.log.Info().Str("election_id", election.ID).Str("voter_id", voter.ID).Msg("duplicate vote rejected")
			return nil, err
		}
		return nil, fmt.Errorf("cast vote: %w", err)
	}

	s.audit.Record(domain.AuditEvent{
		Type:       domain.AuditVoteCast,
		ActorID:    voter.ID,
		ActorRole:  voter.Role,
		ElectionID: election.ID,
		SubjectID:  vote.ID,
		OccurredAt: vote.CastAt,
		Meta:       map[string]string{"booth_id": boothID},
	})
	s.log.Info().
		Str("vote_id", vote.ID).
		Str("election_id", election.ID).
		Str("voter_id", voter.ID).
		Msg("vote cast")

	return vote, nil
}

// Status reports whether the voter has a vote on record for the election.
func (s *VoteService) Status(ctx context.Context, electionID, voterID string) (*domain.VoteStatus, error) {
	if _, err := s.elections.FindByID(ctx, electionID); err != nil {
		return nil, err
	}

	status := &domain.VoteStatus{ElectionID: electionID}
	vote, err := s.votes.FindByElectionAndVoter(ctx, electionID, voterID)
	switch {
	case err == nil:
		status.HasVoted = true
		castAt := vote.CastAt
		status.CastAt = &castAt
	case errors.Is(err, domain.ErrVoteNotFound):
	default:
		return nil, fmt.Errorf("vote status: %w", err)
	}
	return status, nil
}

func (s *VoteService) checkBooth(ctx context.Context, boothID, constituencyID string) error {
	booth, err := s.geography.FindBooth(ctx, boothID)
	if err != nil {
		if errors.Is(err, domain.ErrBoothNotFound) {
			return domain.ErrBoothInvalid
		}
		return fmt.Errorf("cast vote: %w", err)
	}
	if constituencyID != "" && booth.ConstituencyID != constituencyID {
		return domain.ErrBoothOutsideConstituency
	}
	return nil
}
