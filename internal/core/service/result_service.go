package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/ballotworks/election-api/internal/api/metrics"
	"github.com/ballotworks/election-api/internal/core/domain"
	"github.com/ballotworks/election-api/internal/core/ports"
)

// ResultCache abstracts the published-result cache (Redis). Get returns
// (nil, nil) on a miss.
//
// Every Invalidate bumps a per-result generation. Set stores only when the
// generation still equals the one read before the row was loaded, so a reader
// racing a publish or regeneration cannot write its stale copy back.
type ResultCache interface {
	Get(ctx context.Context, id string) (*domain.Result, error)
	Generation(ctx context.Context, id string) (int64, error)
	Set(ctx context.Context, result *domain.Result, generation int64) error
	Invalidate(ctx context.Context, id string) error
}

// ResultService aggregates votes into results and controls their visibility.
type ResultService struct {
	elections ports.ElectionRepository
	geography ports.GeographyRepository
	results   ports.ResultRepository
	cache     ResultCache
	audit     ports.AuditRecorder
	log       zerolog.Logger
	now       func() time.Time
}

func NewResultService(
	elections ports.ElectionRepository,
	geography ports.GeographyRepository,
	results ports.ResultRepository,
	cache ResultCache,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *ResultService {
	return &ResultService{
		elections: elections,
		geography: geography,
		results:   results,
		cache:     cache,
		audit:     audit,
		log:       log,
		now:       time.Now,
	}
}

// GenerateResults recomputes the result for an election, optionally scoped to
// one constituency. A constituency-scoped election is always aggregated over
// its own constituency. The stored result is replaced atomically and keeps its
// id and publication state.
func (s *ResultService) GenerateResults(ctx context.Context, actor domain.Identity, electionID, constituencyID string) (*domain.Result, error) {
	if electionID == "" {
		return nil, domain.ErrValidation
	}

	election, err := s.elections.FindByID(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if election.Status == domain.ElectionCancelled {
		return nil, domain.ErrElectionCancelled
	}

	if election.Scoped() {
		if constituencyID != "" && constituencyID != election.ConstituencyID {
			return nil, domain.ErrInvalidConstituency
		}
		constituencyID = election.ConstituencyID
	} else if constituencyID != "" {
		if _, err := s.geography.FindConstituency(ctx, constituencyID); err != nil {
			if errors.Is(err, domain.ErrConstituencyNotFound) {
				return nil, domain.ErrInvalidConstituency
			}
			return nil, err
		}
	}

	scope := ports.ResultScope{ElectionID: election.ID, ConstituencyID: constituencyID}
	start := s.now()
	result, err := s.results.Regenerate(ctx, scope, domain.Tabulate)
	metrics.ObserveAggregation(s.now().Sub(start), err)
	if err != nil {
		return nil, fmt.Errorf("generate results: %w", err)
	}

	s.invalidate(ctx, result.ID)
	s.audit.Record(domain.AuditEvent{
		Type:       domain.AuditResultsGenerated,
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		ElectionID: election.ID,
		SubjectID:  result.ID,
		OccurredAt: s.now().UTC(),
		Meta: map[string]string{
			"constituency_id": constituencyID,
			"total_votes":     strconv.FormatInt(result.TotalVotes, 10),
		},
	})
	s.log.Info().
		Str("election_id", election.ID).
		Str("constituency_id", constituencyID).
		Str("result_id", result.ID).
		Int64("total_votes", result.TotalVotes).
		Str("winner", result.WinnerCandidateID).
		Msg("results generated")

	return result, nil
}

// Publish makes a result visible to voters, or hides it again.
func (s *ResultService) Publish(ctx context.Context, actor domain.Identity, resultID string, published bool) (*domain.Result, error) {
	result, err := s.results.SetPublished(ctx, resultID, published)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, resultID)
	s.audit.Record(domain.AuditEvent{
		Type:       domain.AuditResultsPublished,
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		ElectionID: result.ElectionID,
		SubjectID:  resultID,
		OccurredAt: s.now().UTC(),
		Meta:       map[string]string{"published": strconv.FormatBool(published)},
	})
	s.log.Info().Str("result_id", resultID).Bool("published", published).Msg("result visibility changed")
	return result, nil
}

// GetResult returns a result with its candidate rows. Unpublished results do
// not exist as far as voters are concerned.
func (s *ResultService) GetResult(ctx context.Context, actor domain.Identity, resultID string) (*domain.Result, error) {
	if actor.Role.SeesUnpublishedResults() {
		return s.results.FindByID(ctx, resultID)
	}

	cached, err := s.cache.Get(ctx, resultID)
	if err != nil {
		s.log.Warn().Err(err).Str("result_id", resultID).Msg("result cache read failed")
	} else if cached != nil && cached.Published {
		metrics.ResultCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.ResultCacheTotal.WithLabelValues("miss").Inc()

	// Read before loading the row; see ResultCache.
	generation, genErr := s.cache.Generation(ctx, resultID)

	result, err := s.results.FindByID(ctx, resultID)
	if err != nil {
		return nil, err
	}
	if !result.Published {
		return nil, domain.ErrResultNotFound
	}

	if genErr != nil {
		s.log.Warn().Err(genErr).Str("result_id", resultID).Msg("result cache generation read failed")
		return result, nil
	}
	if err := s.cache.Set(ctx, result, generation); err != nil {
		s.log.Warn().Err(err).Str("result_id", resultID).Msg("result cache write failed")
	}
	return result, nil
}

// ListResults lists result summaries; voters only see published ones.
func (s *ResultService) ListResults(ctx context.Context, actor domain.Identity, filter ports.ListResultsFilter) ([]*domain.Result, error) {
	if !actor.Role.SeesUnpublishedResults() {
		filter.PublishedOnly = true
	}
	return s.results.List(ctx, filter)
}

func (s *ResultService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("result_id", id).Msg("result cache invalidation failed")
	}
}
