package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ballotworks/election-api/internal/core/domain"
	"github.com/ballotworks/election-api/internal/core/ports"
)

type stubVoteService struct {
	castFn   func(ctx context.Context, in ports.CastVoteInput) (*domain.Vote, error)
	statusFn func(ctx context.Context, electionID, voterID string) (*domain.VoteStatus, error)
}

func (s *stubVoteService) CastVote(ctx context.Context, in ports.CastVoteInput) (*domain.Vote, error) {
	return s.castFn(ctx, in)
}

func (s *stubVoteService) Status(ctx context.Context, electionID, voterID string) (*domain.VoteStatus, error) {
	return s.statusFn(ctx, electionID, voterID)
}

func TestVoteHandler_Cast_Success(t *testing.T) {
	castAt := time.Date(2026, 11, 3, 10, 0, 0, 0, time.UTC)
	stub := &stubVoteService{
		castFn: func(_ context.Context, in ports.CastVoteInput) (*domain.Vote, error) {
			if in.VoterID != "v1" {
				t.Fatalf("voter must be the caller, got %q", in.VoterID)
			}
			return &domain.Vote{ID: "vote1", ElectionID: in.ElectionID, VoterID: in.VoterID, CandidateID: in.CandidateID, CastAt: castAt}, nil
		},
	}
	handler := NewVoteHandler(stub)

	// voter_id in the body is ignored.
	c, rec := newTestContext(http.MethodPost, "/votes/cast",
		`{"election_id":"e1","candidate_id":"c1","voter_id":"someone-else"}`, voterID)
	if err := handler.Cast(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["vote_id"] != "vote1" || resp["election_id"] != "e1" {
		t.Fatalf("unexpected receipt: %+v", resp)
	}
	if _, ok := resp["candidate_id"]; ok {
		t.Fatalf("receipt must not reveal the candidate")
	}
}

func TestVoteHandler_Cast_AlreadyVoted(t *testing.T) {
	stub := &stubVoteService{
		castFn: func(context.Context, ports.CastVoteInput) (*domain.Vote, error) {
			return nil, domain.ErrAlreadyVoted
		},
	}
	c, _ := newTestContext(http.MethodPost, "/votes/cast", `{"election_id":"e1","candidate_id":"c1"}`, voterID)
	if err := NewVoteHandler(stub).Cast(c); !errors.Is(err, domain.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}
}

func TestVoteHandler_Cast_InvalidPayload(t *testing.T) {
	stub := &stubVoteService{
		castFn: func(context.Context, ports.CastVoteInput) (*domain.Vote, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := newTestContext(http.MethodPost, "/votes/cast", `{"election_id":"e1"}`, voterID)
	expectHTTPStatus(t, NewVoteHandler(stub).Cast(c), http.StatusBadRequest)

	c, _ = newTestContext(http.MethodPost, "/votes/cast", `{"election_id":"e1","candidate_id":"c1"}`, nil)
	if err := NewVoteHandler(stub).Cast(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVoteHandler_Status(t *testing.T) {
	stub := &stubVoteService{
		statusFn: func(_ context.Context, electionID, voterID string) (*domain.VoteStatus, error) {
			if electionID != "e1" || voterID != "v1" {
				t.Fatalf("unexpected args: %s %s", electionID, voterID)
			}
			return &domain.VoteStatus{ElectionID: electionID, HasVoted: false}, nil
		},
	}
	c, rec := newTestContext(http.MethodGet, "/votes/status/e1", "", voterID)
	c.SetParamNames("electionId")
	c.SetParamValues("e1")

	if err := NewVoteHandler(stub).Status(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resp := decodeBody(t, rec); resp["has_voted"] != false {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
