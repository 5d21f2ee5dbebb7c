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

// GeographyRepository implements ports.GeographyRepository on PostgreSQL.
type GeographyRepository struct {
	db *pgxpool.Pool
}

func NewGeographyRepository(db *pgxpool.Pool) *GeographyRepository {
	return &GeographyRepository{db: db}
}

func (r *GeographyRepository) CreateConstituency(ctx context.Context, c *domain.Constituency) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO constituencies (id, name, code, state, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.Name, c.Code, c.State, c.CreatedAt)
	if err != nil {
		if _, ok := isUniqueViolation(err); ok {
			return domain.ErrConstituencyExists
		}
		return fmt.Errorf("insert constituency: %w", err)
	}
	return nil
}

func (r *GeographyRepository) FindConstituency(ctx context.Context, id string) (*domain.Constituency, error) {
	var c domain.Constituency
	err := r.db.QueryRow(ctx, `
		SELECT id, name, code, state, created_at FROM constituencies WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Code, &c.State, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConstituencyNotFound
		}
		return nil, fmt.Errorf("find constituency: %w", err)
	}
	return &c, nil
}

func (r *GeographyRepository) ListConstituencies(ctx context.Context) ([]*domain.Constituency, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, code, state, created_at FROM constituencies ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list constituencies: %w", err)
	}
	defer rows.Close()

	var out []*domain.Constituency
	for rows.Next() {
		var c domain.Constituency
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.State, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan constituency: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *GeographyRepository) CreateBooth(ctx context.Context, b *domain.Booth) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO booths (id, name, constituency_id, address, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, b.ID, b.Name, b.ConstituencyID, b.Address, b.CreatedAt)
	if err != nil {
		if _, ok := isForeignKeyViolation(err); ok {
			return domain.ErrInvalidConstituency
		}
		return fmt.Errorf("insert booth: %w", err)
	}
	return nil
}

func (r *GeographyRepository) FindBooth(ctx context.Context, id string) (*domain.Booth, error) {
	var b domain.Booth
	err := r.db.QueryRow(ctx, `
		SELECT id, name, constituency_id, address, created_at FROM booths WHERE id = $1
	`, id).Scan(&b.ID, &b.Name, &b.ConstituencyID, &b.Address, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBoothNotFound
		}
		return nil, fmt.Errorf("find booth: %w", err)
	}
	return &b, nil
}

// ListBooths lists booths, optionally restricted to one constituency.
func (r *GeographyRepository) ListBooths(ctx context.Context, constituencyID string) ([]*domain.Booth, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, constituency_id, address, created_at FROM booths
		WHERE ($1::text = '' OR constituency_id = $1)
		ORDER BY name, id
	`, constituencyID)
	if err != nil {
		return nil, fmt.Errorf("list booths: %w", err)
	}
	defer rows.Close()

	var out []*domain.Booth
	for rows.Next() {
		var b domain.Booth
		if err := rows.Scan(&b.ID, &b.Name, &b.ConstituencyID, &b.Address, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booth: %w", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}
