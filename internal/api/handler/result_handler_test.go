package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/ballotworks/election-api/internal/core/domain"
	"github.com/ballotworks/election-api/internal/core/ports"
)

type stubResultService struct {
	generateFn func(ctx context.Context, actor domain.Identity, electionID, constituencyID string) (*domain.Result, error)
	publishFn  func(ctx context.Context, actor domain.Identity, id string, published bool) (*domain.Result, error)
	getFn      func(ctx context.Context, actor domain.Identity, id string) (*domain.Result, error)
	listFn     func(ctx context.Context, actor domain.Identity, filter ports.ListResultsFilter) ([]*domain.Result, error)
}

func (s *stubResultService) GenerateResults(ctx context.Context, actor domain.Identity, electionID, constituencyID string) (*domain.Result, error) {
	return s.generateFn(ctx, actor, electionID, constituencyID)
}

func (s *stubResultService) Publish(ctx context.Context, actor domain.Identity, id string, published bool) (*domain.Result, error) {
	return s.publishFn(ctx, actor, id, published)
}

func (s *stubResultService) GetResult(ctx context.Context, actor domain.Identity, id string) (*domain.Result, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubResultService) ListResults(ctx context.Context, actor domain.Identity, filter ports.ListResultsFilter) ([]*domain.Result, error) {
	return s.listFn(ctx, actor, filter)
}

func TestResultHandler_Generate(t *testing.T) {
	stub := &stubResultService{
		generateFn: func(_ context.Context, actor domain.Identity, electionID, constituencyID string) (*domain.Result, error) {
			if actor.UserID != "a1" || electionID != "e1" || constituencyID != "k1" {
				t.Fatalf("unexpected args: %s %s %s", actor.UserID, electionID, constituencyID)
			}
			return &domain.Result{ID: "r1", ElectionID: electionID, TotalVotes: 1500, WinnerCandidateID: "c1"}, nil
		},
	}
	c, rec := newTestContext(http.MethodPost, "/results/generate", `{"election_id":"e1","constituency_id":"k1"}`, adminID)
	if err := NewResultHandler(stub).Generate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeBody(t, rec)
	if resp["id"] != "r1" || resp["total_votes"] != float64(1500) || resp["winner_candidate_id"] != "c1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	c, _ = newTestContext(http.MethodPost, "/results/generate", `{}`, adminID)
	expectHTTPStatus(t, NewResultHandler(stub).Generate(c), http.StatusBadRequest)
}

func TestResultHandler_Generate_Busy(t *testing.T) {
	stub := &stubResultService{
		generateFn: func(context.Context, domain.Identity, string, string) (*domain.Result, error) {
			return nil, domain.ErrAggregationBusy
		},
	}
	c, _ := newTestContext(http.MethodPost, "/results/generate", `{"election_id":"e1"}`, adminID)
	if err := NewResultHandler(stub).Generate(c); !errors.Is(err, domain.ErrAggregationBusy) {
		t.Fatalf("expected ErrAggregationBusy, got %v", err)
	}
}

func TestResultHandler_Publish(t *testing.T) {
	cases := []struct {
		body string
		want bool
	}{
		{"", true},
		{`{}`, true},
		{`{"published":true}`, true},
		{`{"published":false}`, false},
	}
	for _, tc := range cases {
		var got *bool
		stub := &stubResultService{
			publishFn: func(_ context.Context, _ domain.Identity, id string, published bool) (*domain.Result, error) {
				got = &published
				return &domain.Result{ID: id, Published: published}, nil
			},
		}
		c, _ := newTestContext(http.MethodPatch, "/results/r1/publish", tc.body, adminID)
		c.SetParamNames("id")
		c.SetParamValues("r1")

		if err := NewResultHandler(stub).Publish(c); err != nil {
			t.Fatalf("body %q: handler error: %v", tc.body, err)
		}
		if got == nil || *got != tc.want {
			t.Fatalf("body %q: expected published=%v", tc.body, tc.want)
		}
	}
}

func TestResultHandler_Get_NotFound(t *testing.T) {
	stub := &stubResultService{
		getFn: func(context.Context, domain.Identity, string) (*domain.Result, error) {
			return nil, domain.ErrResultNotFound
		},
	}
	c, _ := newTestContext(http.MethodGet, "/results/r1", "", voterID)
	c.SetParamNames("id")
	c.SetParamValues("r1")
	if err := NewResultHandler(stub).Get(c); !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected ErrResultNotFound, got %v", err)
	}
}

func TestResultHandler_List_Empty(t *testing.T) {
	stub := &stubResultService{
		listFn: func(_ context.Context, _ domain.Identity, filter ports.ListResultsFilter) ([]*domain.Result, error) {
			if filter.ElectionID != "e1" {
				t.Fatalf("unexpected filter: %+v", filter)
			}
			return nil, nil
		},
	}
	c, rec := newTestContext(http.MethodGet, "/results?election_id=e1", "", voterID)
	if err := NewResultHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeBody(t, rec)
	items, ok := resp["items"].([]any)
	if !ok || len(items) != 0 || resp["count"] != float64(0) {
		t.Fatalf("expected an empty list, got %+v", resp)
	}
}
