package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ballotworks/election-api/internal/core/domain"
)

func renderError(t *testing.T, method string, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(method, "/x", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if rec.Body.Len() > 0 {
		if jerr := json.Unmarshal(rec.Body.Bytes(), &body); jerr != nil {
			t.Fatalf("invalid json: %v", jerr)
		}
	}
	return rec.Code, body
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrAccountInactive, http.StatusForbidden},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests},
		{domain.ErrElectionNotFound, http.StatusNotFound},
		{domain.ErrResultNotFound, http.StatusNotFound},
		{domain.ErrAlreadyVoted, http.StatusConflict},
		{domain.ErrAggregationBusy, http.StatusConflict},
		{domain.ErrElectionNotActive, http.StatusForbidden},
		{domain.ErrVoterIneligible, http.StatusForbidden},
		{domain.ErrCandidateInvalid, http.StatusBadRequest},
		{domain.ErrValidation, http.StatusBadRequest},
	}
	for _, tc := range cases {
		var de *domain.Error
		errors.As(tc.err, &de)

		status, body := renderError(t, http.MethodPost, tc.err)
		if status != tc.status {
			t.Fatalf("%s: expected %d, got %d", de.Code, tc.status, status)
		}
		if body.Code != de.Code || body.Kind != string(de.Kind) || body.Error != de.Message {
			t.Fatalf("%s: unexpected envelope %+v", de.Code, body)
		}
	}
}

func TestErrorHandler_WrappedDomainError(t *testing.T) {
	status, body := renderError(t, http.MethodPatch, fmt.Errorf("set election status: %w", domain.ErrInvalidTransition))
	if status != http.StatusConflict || body.Code != "invalid_transition" {
		t.Fatalf("unexpected response %d %+v", status, body)
	}
}

func TestErrorHandler_EchoErrors(t *testing.T) {
	status, body := renderError(t, http.MethodGet, echo.ErrNotFound)
	if status != http.StatusNotFound || body.Code != "route_not_found" || body.Kind != "not_found" {
		t.Fatalf("unexpected response %d %+v", status, body)
	}

	status, body = renderError(t, http.MethodPost, echo.NewHTTPError(http.StatusBadRequest, "email is required"))
	if status != http.StatusBadRequest || body.Error != "email is required" || body.Code != "bad_request" {
		t.Fatalf("unexpected response %d %+v", status, body)
	}
}

func TestErrorHandler_UnexpectedErrorIsHidden(t *testing.T) {
	status, body := renderError(t, http.MethodGet, errors.New("pq: connection refused on 10.0.0.3"))
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if body.Error != domain.ErrInternal.Message || body.Code != "internal" {
		t.Fatalf("internal details leaked: %+v", body)
	}
}

func TestErrorHandler_HeadHasNoBody(t *testing.T) {
	status, body := renderError(t, http.MethodHead, domain.ErrUnauthorized)
	if status != http.StatusUnauthorized || body.Code != "" {
		t.Fatalf("unexpected response %d %+v", status, body)
	}
}
