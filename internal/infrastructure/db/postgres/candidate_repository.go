package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ballotworks/election-api/internal/core/domain"
	"github.com/ballotworks/election-api/internal/core/ports"
)

const candidateColumns = `id, name, party, election_id, constituency_id, status, created_at, updated_at`

// CandidateRepository implements ports.CandidateRepository on PostgreSQL.
type CandidateRepository struct {
	db *pgxpool.Pool
}

func NewCandidateRepository(db *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{db: db}
}

func (r *CandidateRepository) Create(ctx context.Context, c *domain.Candidate) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO candidates (`+candidateColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.Name, c.Party, c.ElectionID, nullable(c.ConstituencyID), string(c.Status), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if constraint, ok := isForeignKeyViolation(err); ok {
			if constraint == "candidates_election_id_fkey" {
				return domain.ErrInvalidElection
			}
			return domain.ErrInvalidConstituency
		}
		return fmt.Errorf("insert candidate: %w", err)
	}
	return nil
}

func (r *CandidateRepository) FindByID(ctx context.Context, id string) (*domain.Candidate, error) {
	return scanCandidate(r.db.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id))
}

func (r *CandidateRepository) List(ctx context.Context, filter ports.ListCandidatesFilter) ([]*domain.Candidate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+candidateColumns+` FROM candidates
		WHERE election_id = $1
		  AND ($2::text = '' OR constituency_id = $2)
		  AND ($3::text = '' OR status = $3)
		ORDER BY name, id
	`, filter.ElectionID, filter.ConstituencyID, string(filter.Status))
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var out []*domain.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CandidateRepository) UpdateStatus(ctx context.Context, id string, from, to domain.CandidateStatus) (*domain.Candidate, error) {
	c, err := scanCandidate(r.db.QueryRow(ctx, `
		UPDATE candidates SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+candidateColumns, id, string(from), string(to)))
	if errors.Is(err, domain.ErrCandidateNotFound) {
		return nil, domain.ErrInvalidTransition
	}
	return c, err
}

func scanCandidate(row pgx.Row) (*domain.Candidate, error) {
	var (
		c              domain.Candidate
		status         string
		constituencyID *string
	)
	err := row.Scan(&c.ID, &c.Name, &c.Party, &c.ElectionID, &constituencyID, &status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("scan candidate: %w", err)
	}
	c.Status = domain.CandidateStatus(status)
	c.ConstituencyID = deref(constituencyID)
	return &c, nil
}
