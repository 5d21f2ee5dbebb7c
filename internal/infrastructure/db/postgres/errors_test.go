package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestConstraintViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "votes_election_voter_key"}

	name, ok := isUniqueViolation(fmt.Errorf("insert vote: %w", unique))
	if !ok || name != "votes_election_voter_key" {
		t.Fatalf("expected wrapped unique violation to be detected, got %q %v", name, ok)
	}
	if _, ok := isForeignKeyViolation(unique); ok {
		t.Fatal("unique violation must not be reported as foreign key violation")
	}
	if _, ok := isUniqueViolation(errors.New("boom")); ok {
		t.Fatal("plain error must not be reported as a constraint violation")
	}
}
