package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ballotworks/election-api/internal/core/domain"
	"github.com/ballotworks/election-api/internal/core/ports"
)

const electionColumns = `id, name, type, start_date, end_date, status, constituency_id, created_at, updated_at`

// ElectionRepository implements ports.ElectionRepository on PostgreSQL.
type ElectionRepository struct {
	db *pgxpool.Pool
}

func NewElectionRepository(db *pgxpool.Pool) *ElectionRepository {
	return &ElectionRepository{db: db}
}

func (r *ElectionRepository) Create(ctx context.Context, e *domain.Election) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO elections (`+electionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, e.ID, e.Name, string(e.Type), e.StartDate, e.EndDate, string(e.Status),
		nullable(e.ConstituencyID), e.CreatedAt, e.UpdatedAt)
	if err != nil {
		if _, ok := isForeignKeyViolation(err); ok {
			return domain.ErrInvalidConstituency
		}
		return fmt.Errorf("insert election: %w", err)
	}
	return nil
}

func (r *ElectionRepository) FindByID(ctx context.Context, id string) (*domain.Election, error) {
	return scanElection(r.db.QueryRow(ctx, `SELECT `+electionColumns+` FROM elections WHERE id = $1`, id))
}

func (r *ElectionRepository) List(ctx context.Context, filter ports.ListElectionsFilter) ([]*domain.Election, error) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, v any) {
		args = append(args, v)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}
	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}
	if filter.Type != "" {
		add("type = $%d", string(filter.Type))
	}
	if filter.ConstituencyID != "" {
		add("constituency_id = $%d", filter.ConstituencyID)
	}
	if filter.ExcludeCancelled {
		add("status <> $%d", string(domain.ElectionCancelled))
	}

	query := `SELECT ` + electionColumns + ` FROM elections`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY start_date DESC, id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list elections: %w", err)
	}
	defer rows.Close()

	var out []*domain.Election
	for rows.Next() {
		e, err := scanElection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateStatus is a compare-and-set on the current status, so two concurrent
// transitions cannot both succeed.
func (r *ElectionRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ElectionStatus) (*domain.Election, error) {
	e, err := scanElection(r.db.QueryRow(ctx, `
		UPDATE elections SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+electionColumns, id, string(from), string(to)))
	if errors.Is(err, domain.ErrElectionNotFound) {
		return nil, domain.ErrInvalidTransition
	}
	return e, err
}

func scanElection(row pgx.Row) (*domain.Election, error) {
	var (
		e              domain.Election
		typ, status    string
		constituencyID *string
	)
	err := row.Scan(&e.ID, &e.Name, &typ, &e.StartDate, &e.EndDate, &status,
		&constituencyID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrElectionNotFound
		}
		return nil, fmt.Errorf("scan election: %w", err)
	}
	e.Type = domain.ElectionType(typ)
	e.Status = domain.ElectionStatus(status)
	e.ConstituencyID = deref(constituencyID)
	return &e, nil
}
