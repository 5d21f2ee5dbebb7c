package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ballotworks/election-api/internal/core/domain"
	"github.com/ballotworks/election-api/internal/core/ports"
)

const resultColumns = `id, election_id, constituency_id, total_votes, eligible_voters, turnout,
	winner_candidate_id, tied, published, published_date, generated_at`

// ResultRepository implements ports.ResultRepository on PostgreSQL.
type ResultRepository struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewResultRepository(db *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{db: db, now: time.Now}
}

// Regenerate recounts the scope and replaces the stored result in a single
// transaction. A transaction-scoped advisory lock keyed on the scope makes a
// concurrent run fail fast with domain.ErrAggregationBusy.
func (r *ResultRepository) Regenerate(ctx context.Context, scope ports.ResultScope, tabulate ports.TabulateFunc) (*domain.Result, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin aggregation: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var locked bool
	lockKey := "results:" + scope.ElectionID + ":" + scope.ConstituencyID
	if err := tx.QueryRow(ctx, `SELECT pg_try_advisory_xact_lock(hashtextextended($1, 0))`, lockKey).Scan(&locked); err != nil {
		return nil, fmt.Errorf("aggregation lock: %w", err)
	}
	if !locked {
		return nil, domain.ErrAggregationBusy
	}

	tallies, err := countVotes(ctx, tx, scope)
	if err != nil {
		return nil, err
	}

	var eligible int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM users
		WHERE role = 'voter' AND status = 'Active'
		  AND ($1::text = '' OR constituency_id = $1)
	`, scope.ConstituencyID).Scan(&eligible); err != nil {
		return nil, fmt.Errorf("count eligible voters: %w", err)
	}

	tab := tabulate(tallies, eligible)
	result := &domain.Result{
		ElectionID:        scope.ElectionID,
		ConstituencyID:    scope.ConstituencyID,
		TotalVotes:        tab.TotalVotes,
		EligibleVoters:    tab.EligibleVoters,
		Turnout:           tab.Turnout,
		WinnerCandidateID: tab.WinnerCandidateID,
		Tied:              tab.Tied,
		GeneratedAt:       r.now().UTC(),
		Candidates:        tab.Candidates,
	}

	// The upsert keeps id and publication state of an existing row.
	err = tx.QueryRow(ctx, `
		INSERT INTO results (id, election_id, constituency_id, scope_key, total_votes, eligible_voters,
			turnout, winner_candidate_id, tied, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (election_id, scope_key) DO UPDATE SET
			total_votes         = EXCLUDED.total_votes,
			eligible_voters     = EXCLUDED.eligible_voters,
			turnout             = EXCLUDED.turnout,
			winner_candidate_id = EXCLUDED.winner_candidate_id,
			tied                = EXCLUDED.tied,
			generated_at        = EXCLUDED.generated_at
		RETURNING id, published, published_date
	`, uuid.NewString(), result.ElectionID, nullable(result.ConstituencyID), result.ScopeKey(),
		result.TotalVotes, result.EligibleVoters, result.Turnout, nullable(result.WinnerCandidateID),
		result.Tied, result.GeneratedAt,
	).Scan(&result.ID, &result.Published, &result.PublishedDate)
	if err != nil {
		return nil, fmt.Errorf("upsert result: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM candidate_results WHERE result_id = $1`, result.ID); err != nil {
		return nil, fmt.Errorf("clear candidate results: %w", err)
	}

	batch := &pgx.Batch{}
	for _, c := range result.Candidates {
		batch.Queue(`
			INSERT INTO candidate_results (result_id, candidate_id, votes, percentage, rank)
			VALUES ($1, $2, $3, $4, $5)
		`, result.ID, c.CandidateID, c.Votes, c.Percentage, c.Rank)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return nil, fmt.Errorf("insert candidate results: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit aggregation: %w", err)
	}
	return result, nil
}

// countVotes returns the active candidates in scope plus any candidate that
// holds votes, with their counts.
func countVotes(ctx context.Context, q querier, scope ports.ResultScope) ([]domain.CandidateTally, error) {
	rows, err := q.Query(ctx, `
		SELECT c.id, c.name, c.party, COUNT(v.id)
		FROM candidates c
		LEFT JOIN votes v ON v.candidate_id = c.id AND v.election_id = c.election_id
		WHERE c.election_id = $1
		  AND ($2::text = '' OR c.constituency_id = $2)
		GROUP BY c.id, c.name, c.party, c.status
		HAVING c.status = 'Active' OR COUNT(v.id) > 0
	`, scope.ElectionID, scope.ConstituencyID)
	if err != nil {
		return nil, fmt.Errorf("count votes: %w", err)
	}
	defer rows.Close()

	var tallies []domain.CandidateTally
	for rows.Next() {
		var t domain.CandidateTally
		if err := rows.Scan(&t.CandidateID, &t.Name, &t.Party, &t.Votes); err != nil {
			return nil, fmt.Errorf("scan tally: %w", err)
		}
		tallies = append(tallies, t)
	}
	return tallies, rows.Err()
}

func (r *ResultRepository) FindByID(ctx context.Context, id string) (*domain.Result, error) {
	result, err := scanResult(r.db.QueryRow(ctx, `SELECT `+resultColumns+` FROM results WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT cr.candidate_id, c.name, c.party, cr.votes, cr.percentage, cr.rank
		FROM candidate_results cr
		JOIN candidates c ON c.id = cr.candidate_id
		WHERE cr.result_id = $1
		ORDER BY cr.rank, cr.candidate_id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("load candidate results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.CandidateResult
		if err := rows.Scan(&c.CandidateID, &c.CandidateName, &c.Party, &c.Votes, &c.Percentage, &c.Rank); err != nil {
			return nil, fmt.Errorf("scan candidate result: %w", err)
		}
		result.Candidates = append(result.Candidates, c)
	}
	return result, rows.Err()
}

// List returns result summaries without candidate rows.
func (r *ResultRepository) List(ctx context.Context, filter ports.ListResultsFilter) ([]*domain.Result, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+resultColumns+` FROM results
		WHERE ($1::text = '' OR election_id = $1)
		  AND ($2::text = '' OR scope_key = $2)
		  AND (NOT $3::bool OR published)
		ORDER BY generated_at DESC, id
	`, filter.ElectionID, filter.ConstituencyID, filter.PublishedOnly)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []*domain.Result
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	return out, rows.Err()
}

// SetPublished toggles voter visibility. The first publication date is kept
// across re-publishing and cleared on unpublish.
func (r *ResultRepository) SetPublished(ctx context.Context, id string, published bool) (*domain.Result, error) {
	result, err := scanResult(r.db.QueryRow(ctx, `
		UPDATE results SET
			published      = $2,
			published_date = CASE WHEN $2 THEN COALESCE(published_date, NOW()) ELSE NULL END
		WHERE id = $1
		RETURNING `+resultColumns, id, published))
	if err != nil {
		return nil, err
	}
	return result, nil
}

func scanResult(row pgx.Row) (*domain.Result, error) {
	var (
		res            domain.Result
		constituencyID *string
		winnerID       *string
	)
	err := row.Scan(&res.ID, &res.ElectionID, &constituencyID, &res.TotalVotes, &res.EligibleVoters,
		&res.Turnout, &winnerID, &res.Tied, &res.Published, &res.PublishedDate, &res.GeneratedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrResultNotFound
		}
		return nil, fmt.Errorf("scan result: %w", err)
	}
	res.ConstituencyID = deref(constituencyID)
	res.WinnerCandidateID = deref(winnerID)
	return &res, nil
}
