package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"go.uber.org/goleak"

	"github.com/ballotworks/election-api/internal/core/domain"
	"github.com/ballotworks/election-api/internal/core/ports"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingRepo struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	err    error
}

func (r *recordingRepo) Insert(_ context.Context, e *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *e)
	return nil
}

func (r *recordingRepo) List(context.Context, ports.ListAuditFilter) ([]*domain.AuditEvent, error) {
	return nil, nil
}

func TestDispatcher_PreservesOrderPerElection(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(4, repo, zerolog.Nop())
	d.Start(context.Background())

	subjects := []string{"a", "b", "c", "d", "e"}
	for _, s := range subjects {
		d.Record(domain.AuditEvent{Type: domain.AuditVoteCast, ElectionID: "E1", SubjectID: s})
	}
	d.Close()

	if len(repo.events) != len(subjects) {
		t.Fatalf("expected %d stored events, got %d", len(subjects), len(repo.events))
	}
	for i, s := range subjects {
		if repo.events[i].SubjectID != s {
			t.Fatalf("event %d: expected subject %q, got %q", i, s, repo.events[i].SubjectID)
		}
	}
}

func TestDispatcher_SameElectionSameShard(t *testing.T) {
	d := NewDispatcher(8, &recordingRepo{}, zerolog.Nop())
	first := d.shardIndex("election-42")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("election-42"); got != first {
			t.Fatalf("expected shard %d, got %d", first, got)
		}
	}
	if idx := d.shardIndex(""); idx < 0 || idx >= 8 {
		t.Fatalf("shard index out of range: %d", idx)
	}
}

func TestDispatcher_InsertFailureDoesNotStopWorker(t *testing.T) {
	repo := &recordingRepo{err: errors.New("mongo down")}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start(context.Background())

	d.Record(domain.AuditEvent{Type: domain.AuditLogin})
	d.Record(domain.AuditEvent{Type: domain.AuditLogin})
	d.Close()

	if len(repo.events) != 0 {
		t.Fatalf("expected no stored events, got %d", len(repo.events))
	}
}

func TestDispatcher_RecordAfterCloseIsDropped(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(2, repo, zerolog.Nop())
	d.Start(context.Background())
	d.Close()

	d.Record(domain.AuditEvent{Type: domain.AuditLogin})
	d.Close()

	if len(repo.events) != 0 {
		t.Fatalf("expected event recorded after close to be dropped, got %d", len(repo.events))
	}
}

func TestDispatcher_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(3, &recordingRepo{}, zerolog.Nop())
	d.Start(ctx)
	cancel()
	d.wg.Wait()
}
