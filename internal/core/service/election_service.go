package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ballotworks/election-api/internal/core/domain"
	"github.com/ballotworks/election-api/internal/core/ports"
)

// ElectionService manages elections and the candidate approval workflow.
type ElectionService struct {
	elections  ports.ElectionRepository
	candidates ports.CandidateRepository
	geography  ports.GeographyRepository
	audit      ports.AuditRecorder
	log        zerolog.Logger
	now        func() time.Time
}

func NewElectionService(
	elections ports.ElectionRepository,
	candidates ports.CandidateRepository,
	geography ports.GeographyRepository,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *ElectionService {
	return &ElectionService{
		elections:  elections,
		candidates: candidates,
		geography:  geography,
		audit:      audit,
		log:        log,
		now:        time.Now,
	}
}

// CreateElection registers a new election in status Upcoming.
func (s *ElectionService) CreateElection(ctx context.Context, in ports.CreateElectionInput) (*domain.Election, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Type == "" || in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, domain.ErrValidation
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, domain.ErrInvalidDateRange
	}
	if err := s.checkConstituency(ctx, in.ConstituencyID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	election := &domain.Election{
		Name:           name,
		Type:           in.Type,
		StartDate:      in.StartDate.UTC(),
		EndDate:        in.EndDate.UTC(),
		Status:         domain.ElectionUpcoming,
		ConstituencyID: in.ConstituencyID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.elections.Create(ctx, election); err != nil {
		s.log.Error().Err(err).Msg("failed to create election")
		return nil, err
	}

	s.log.Info().Str("election_id", election.ID).Str("actor_id", in.Actor.UserID).Msg("election created")
	return election, nil
}

// GetElection loads an election. A cancelled election does not exist for
// roles that may not see it.
func (s *ElectionService) GetElection(ctx context.Context, actor domain.Identity, id string) (*domain.Election, error) {
	election, err := s.elections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if election.Status == domain.ElectionCancelled && !actor.Role.SeesCancelledElections() {
		return nil, domain.ErrElectionNotFound
	}
	return election, nil
}

// ListElections lists elections; voters never see cancelled ones.
func (s *ElectionService) ListElections(ctx context.Context, actor domain.Identity, filter ports.ListElectionsFilter) ([]*domain.Election, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.ErrValidation
	}
	if !actor.Role.SeesCancelledElections() {
		filter.ExcludeCancelled = true
	}
	return s.elections.List(ctx, filter)
}

// SetElectionStatus moves an election through Upcoming -> Active -> Completed,
// or to Cancelled before completion.
func (s *ElectionService) SetElectionStatus(ctx context.Context, actor domain.Identity, id string, to domain.ElectionStatus) (*domain.Election, error) {
	if !to.Valid() {
		return nil, domain.ErrValidation
	}

	current, err := s.elections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("set election status: %w (from %s to %s)", domain.ErrInvalidTransition, current.Status, to)
	}

	updated, err := s.elections.UpdateStatus(ctx, id, current.Status, to)
	if err != nil {
		return nil, fmt.Errorf("set election status: %w", err)
	}

	s.audit.Record(domain.AuditEvent{
		Type:       domain.AuditElectionStatusChanged,
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		ElectionID: id,
		SubjectID:  id,
		OccurredAt: s.now().UTC(),
		Meta:       map[string]string{"from": string(current.Status), "to": string(to)},
	})
	s.log.Info().
		Str("election_id", id).
		Str("from", string(current.Status)).
		Str("to", string(to)).
		Msg("election status changed")
	return updated, nil
}

// CreateCandidate registers a candidate pending superadmin approval.
func (s *ElectionService) CreateCandidate(ctx context.Context, in ports.CreateCandidateInput) (*domain.Candidate, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.ElectionID == "" {
		return nil, domain.ErrValidation
	}

	election, err := s.elections.FindByID(ctx, in.ElectionID)
	if err != nil {
		if errors.Is(err, domain.ErrElectionNotFound) {
			return nil, domain.ErrInvalidElection
		}
		return nil, err
	}
	switch election.Status {
	case domain.ElectionCompleted, domain.ElectionCancelled:
		return nil, fmt.Errorf("create candidate: %w (election is %s)", domain.ErrInvalidTransition, election.Status)
	}

	constituencyID := in.ConstituencyID
	if election.Scoped() {
		if constituencyID == "" {
			constituencyID = election.ConstituencyID
		}
		if constituencyID != election.ConstituencyID {
			return nil, domain.ErrInvalidConstituency
		}
	}
	if err := s.checkConstituency(ctx, constituencyID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	candidate := &domain.Candidate{
		Name:           name,
		Party:          strings.TrimSpace(in.Party),
		ElectionID:     election.ID,
		ConstituencyID: constituencyID,
		Status:         domain.CandidatePending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.candidates.Create(ctx, candidate); err != nil {
		return nil, err
	}

	s.log.Info().Str("candidate_id", candidate.ID).Str("election_id", election.ID).Msg("candidate registered")
	return candidate, nil
}

// ListCandidates lists an election's candidates; voters only see Active ones,
// and none at all for a cancelled election.
func (s *ElectionService) ListCandidates(ctx context.Context, actor domain.Identity, filter ports.ListCandidatesFilter) ([]*domain.Candidate, error) {
	if _, err := s.GetElection(ctx, actor, filter.ElectionID); err != nil {
		return nil, err
	}
	if !actor.Role.SeesInactiveCandidates() {
		filter.Status = domain.CandidateActive
	} else if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.ErrValidation
	}
	return s.candidates.List(ctx, filter)
}

// SetCandidateStatus applies an approval workflow step.
func (s *ElectionService) SetCandidateStatus(ctx context.Context, actor domain.Identity, id string, to domain.CandidateStatus) (*domain.Candidate, error) {
	if !to.Valid() {
		return nil, domain.ErrValidation
	}

	current, err := s.candidates.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("set candidate status: %w (from %s to %s)", domain.ErrInvalidTransition, current.Status, to)
	}

	updated, err := s.candidates.UpdateStatus(ctx, id, current.Status, to)
	if err != nil {
		return nil, fmt.Errorf("set candidate status: %w", err)
	}

	s.audit.Record(domain.AuditEvent{
		Type:       domain.AuditCandidateStatusChanged,
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		ElectionID: current.ElectionID,
		SubjectID:  id,
		OccurredAt: s.now().UTC(),
		Meta:       map[string]string{"from": string(current.Status), "to": string(to)},
	})
	return updated, nil
}

func (s *ElectionService) checkConstituency(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if _, err := s.geography.FindConstituency(ctx, id); err != nil {
		if errors.Is(err, domain.ErrConstituencyNotFound) {
			return domain.ErrInvalidConstituency
		}
		return err
	}
	return nil
}
