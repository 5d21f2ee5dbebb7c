package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates all tables needed by the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

const schema = `
-- Reference data
CREATE TABLE IF NOT EXISTS constituencies (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    code       TEXT NOT NULL,
    state      TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT constituencies_code_key UNIQUE (code)
);

CREATE TABLE IF NOT EXISTS booths (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    constituency_id TEXT NOT NULL REFERENCES constituencies(id),
    address         TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_booths_constituency_id ON booths(constituency_id);

-- Accounts
CREATE TABLE IF NOT EXISTS users (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    email           TEXT NOT NULL,
    password_hash   TEXT NOT NULL,
    role            TEXT NOT NULL CHECK (role IN ('superadmin', 'admin', 'voter')),
    status          TEXT NOT NULL CHECK (status IN ('Active', 'Inactive', 'Pending')),
    constituency_id TEXT REFERENCES constituencies(id),
    booth_id        TEXT REFERENCES booths(id),
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT users_email_role_key UNIQUE (email, role)
);

CREATE INDEX IF NOT EXISTS idx_users_role_status ON users(role, status);
CREATE INDEX IF NOT EXISTS idx_users_constituency_id ON users(constituency_id);

-- Elections
CREATE TABLE IF NOT EXISTS elections (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    type            TEXT NOT NULL CHECK (type IN ('General', 'State', 'Local', 'ByElection')),
    start_date      TIMESTAMPTZ NOT NULL,
    end_date        TIMESTAMPTZ NOT NULL,
    status          TEXT NOT NULL CHECK (status IN ('Upcoming', 'Active', 'Completed', 'Cancelled')),
    constituency_id TEXT REFERENCES constituencies(id),
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CHECK (end_date >= start_date)
);

CREATE INDEX IF NOT EXISTS idx_elections_status ON elections(status);

CREATE TABLE IF NOT EXISTS candidates (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    party           TEXT NOT NULL DEFAULT '',
    election_id     TEXT NOT NULL REFERENCES elections(id),
    constituency_id TEXT REFERENCES constituencies(id),
    status          TEXT NOT NULL CHECK (status IN ('Pending', 'Active', 'Inactive', 'Rejected')),
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_candidates_election_id ON candidates(election_id, constituency_id);

-- Ballots: one per voter per election
CREATE TABLE IF NOT EXISTS votes (
    id           TEXT PRIMARY KEY,
    election_id  TEXT NOT NULL REFERENCES elections(id),
    voter_id     TEXT NOT NULL REFERENCES users(id),
    candidate_id TEXT NOT NULL REFERENCES candidates(id),
    booth_id     TEXT REFERENCES booths(id),
    cast_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT votes_election_voter_key UNIQUE (election_id, voter_id)
);

CREATE INDEX IF NOT EXISTS idx_votes_election_candidate ON votes(election_id, candidate_id);

-- Materialized results, rebuilt by aggregation
CREATE TABLE IF NOT EXISTS results (
    id                  TEXT PRIMARY KEY,
    election_id         TEXT NOT NULL REFERENCES elections(id),
    constituency_id     TEXT REFERENCES constituencies(id),
    scope_key           TEXT NOT NULL DEFAULT '',
    total_votes         BIGINT NOT NULL,
    eligible_voters     BIGINT NOT NULL,
    turnout             NUMERIC(7,2) NOT NULL,
    winner_candidate_id TEXT REFERENCES candidates(id),
    tied                BOOLEAN NOT NULL DEFAULT FALSE,
    published           BOOLEAN NOT NULL DEFAULT FALSE,
    published_date      TIMESTAMPTZ,
    generated_at        TIMESTAMPTZ NOT NULL,
    CONSTRAINT results_election_scope_key UNIQUE (election_id, scope_key)
);

CREATE INDEX IF NOT EXISTS idx_results_published ON results(published);

CREATE TABLE IF NOT EXISTS candidate_results (
    result_id    TEXT NOT NULL REFERENCES results(id) ON DELETE CASCADE,
    candidate_id TEXT NOT NULL REFERENCES candidates(id),
    votes        BIGINT NOT NULL,
    percentage   NUMERIC(5,2) NOT NULL,
    rank         INT NOT NULL,
    PRIMARY KEY (result_id, candidate_id)
);
`
