package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballotworks/election-api/internal/core/domain"
	"github.com/ballotworks/election-api/internal/core/ports"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	connStr := testDatabaseURL
	if connStr == "" {
		t.Skip("no test database in -short mode")
	}

	ctx := context.Background()
	pool, err := Connect(ctx, Config{URL: connStr})
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, pool))

	clearTestData(t, pool)
	t.Cleanup(pool.Close)
	return pool
}

func clearTestData(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()
	queries := []string{
		"DELETE FROM candidate_results",
		"DELETE FROM results",
		"DELETE FROM votes",
		"DELETE FROM candidates",
		"DELETE FROM elections",
		"DELETE FROM users",
		"DELETE FROM booths",
		"DELETE FROM constituencies",
	}
	for _, query := range queries {
		_, err := pool.Exec(ctx, query)
		require.NoError(t, err)
	}
}

type fixture struct {
	election   *domain.Election
	candidates []*domain.Candidate
	voters     []*domain.User
}

// seed creates an active election with two active candidates and n active voters.
func seed(t *testing.T, pool *pgxpool.Pool, n int) fixture {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	elections := NewElectionRepository(pool)
	election := &domain.Election{
		Name:      "General 2026",
		Type:      domain.ElectionGeneral,
		StartDate: now,
		EndDate:   now.Add(24 * time.Hour),
		Status:    domain.ElectionActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, elections.Create(ctx, election))

	candidates := NewCandidateRepository(pool)
	var fx fixture
	fx.election = election
	for _, id := range []string{"C1", "C2"} {
		c := &domain.Candidate{
			ID: id, Name: "Candidate " + id, Party: "P" + id, ElectionID: election.ID,
			Status: domain.CandidateActive, CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, candidates.Create(ctx, c))
		fx.candidates = append(fx.candidates, c)
	}

	users := NewUserRepository(pool)
	for i := 0; i < n; i++ {
		u, err := users.Create(ctx, &domain.User{
			Name:         "Voter",
			Email:        fmt.Sprintf("voter%d@example.com", i),
			PasswordHash: "x",
			Role:         domain.RoleVoter,
			Status:       domain.UserActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		require.NoError(t, err)
		fx.voters = append(fx.voters, u)
	}
	return fx
}

func castVote(t *testing.T, repo *VoteRepository, electionID, voterID, candidateID string) error {
	t.Helper()
	return repo.Insert(context.Background(), &domain.Vote{
		ElectionID:  electionID,
		VoterID:     voterID,
		CandidateID: candidateID,
		CastAt:      time.Now().UTC(),
	})
}

func TestUserRepository(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(pool)

	u, err := repo.Create(ctx, &domain.User{
		Name: "Ada", Email: "ada@example.com", PasswordHash: "hash",
		Role: domain.RoleAdmin, Status: domain.UserActive,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	_, err = repo.Create(ctx, &domain.User{
		Name: "Ada", Email: "ada@example.com", PasswordHash: "hash",
		Role: domain.RoleAdmin, Status: domain.UserActive,
	})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	// the same email may hold a different role
	_, err = repo.Create(ctx, &domain.User{
		Name: "Ada", Email: "ada@example.com", PasswordHash: "hash",
		Role: domain.RoleVoter, Status: domain.UserPending,
	})
	require.NoError(t, err)

	found, err := repo.FindByEmailAndRole(ctx, "ada@example.com", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	updated, err := repo.UpdateStatus(ctx, u.ID, domain.UserInactive)
	require.NoError(t, err)
	assert.Equal(t, domain.UserInactive, updated.Status)

	users, total, err := repo.List(ctx, ports.ListUsersFilter{Role: domain.RoleVoter, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, users, 1)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestElectionStatusCompareAndSet(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	fx := seed(t, pool, 0)
	repo := NewElectionRepository(pool)

	_, err := repo.UpdateStatus(ctx, fx.election.ID, domain.ElectionUpcoming, domain.ElectionCancelled)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	e, err := repo.UpdateStatus(ctx, fx.election.ID, domain.ElectionActive, domain.ElectionCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.ElectionCompleted, e.Status)
}

func TestVoteInsertRejectsSecondVote(t *testing.T) {
	pool := setupTestDB(t)
	fx := seed(t, pool, 1)
	repo := NewVoteRepository(pool)
	voter := fx.voters[0].ID

	require.NoError(t, castVote(t, repo, fx.election.ID, voter, "C1"))
	err := castVote(t, repo, fx.election.ID, voter, "C2")
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)

	v, err := repo.FindByElectionAndVoter(context.Background(), fx.election.ID, voter)
	require.NoError(t, err)
	assert.Equal(t, "C1", v.CandidateID)
}

func TestVoteInsertConcurrentDuplicates(t *testing.T) {
	pool := setupTestDB(t)
	fx := seed(t, pool, 1)
	repo := NewVoteRepository(pool)
	voter := fx.voters[0].ID

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := castVote(t, repo, fx.election.ID, voter, "C1")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrAlreadyVoted):
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, rejected)
}

func TestVoteInsertUnknownCandidate(t *testing.T) {
	pool := setupTestDB(t)
	fx := seed(t, pool, 1)
	err := castVote(t, NewVoteRepository(pool), fx.election.ID, fx.voters[0].ID, "nope")
	assert.ErrorIs(t, err, domain.ErrCandidateInvalid)
}

func TestRegenerateIsIdempotent(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	fx := seed(t, pool, 5)
	votes := NewVoteRepository(pool)
	results := NewResultRepository(pool)

	for i, voter := range fx.voters[:3] {
		candidate := "C1"
		if i == 2 {
			candidate = "C2"
		}
		require.NoError(t, castVote(t, votes, fx.election.ID, voter.ID, candidate))
	}

	scope := ports.ResultScope{ElectionID: fx.election.ID}
	first, err := results.Regenerate(ctx, scope, domain.Tabulate)
	require.NoError(t, err)
	assert.Equal(t, int64(3), first.TotalVotes)
	assert.Equal(t, int64(5), first.EligibleVoters)
	assert.Equal(t, 60.0, first.Turnout)
	assert.Equal(t, "C1", first.WinnerCandidateID)

	published, err := results.SetPublished(ctx, first.ID, true)
	require.NoError(t, err)
	require.NotNil(t, published.PublishedDate)

	second, err := results.Regenerate(ctx, scope, domain.Tabulate)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Published)

	stored, err := results.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, stored.Candidates, 2)
	assert.Equal(t, "C1", stored.Candidates[0].CandidateID)
	assert.Equal(t, 66.67, stored.Candidates[0].Percentage)
	assert.Equal(t, 33.33, stored.Candidates[1].Percentage)

	list, err := results.List(ctx, ports.ListResultsFilter{ElectionID: fx.election.ID, PublishedOnly: true})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRegenerateWithoutVotes(t *testing.T) {
	pool := setupTestDB(t)
	fx := seed(t, pool, 2)

	result, err := NewResultRepository(pool).Regenerate(context.Background(),
		ports.ResultScope{ElectionID: fx.election.ID}, domain.Tabulate)
	require.NoError(t, err)
	assert.Zero(t, result.TotalVotes)
	assert.Empty(t, result.WinnerCandidateID)
	assert.Len(t, result.Candidates, 2)
}
