package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Result aggregates one (election, constituency) scope. It is derived from the
// votes table and can be regenerated at any time.
type Result struct {
	ID                string            `json:"id"`
	ElectionID        string            `json:"election_id"`
	ConstituencyID    string            `json:"constituency_id,omitempty"`
	TotalVotes        int64             `json:"total_votes"`
	EligibleVoters    int64             `json:"eligible_voters"`
	Turnout           float64           `json:"turnout"`
	WinnerCandidateID string            `json:"winner_candidate_id,omitempty"`
	Tied              bool              `json:"tied"`
	Published         bool              `json:"published"`
	PublishedDate     *time.Time        `json:"published_date,omitempty"`
	GeneratedAt       time.Time         `json:"generated_at"`
	Candidates        []CandidateResult `json:"candidates,omitempty"`
}

// ScopeKey is the storage key of the constituency scope; "" means election-wide.
func (r *Result) ScopeKey() string { return r.ConstituencyID }

// CandidateResult is one candidate's line in a Result.
type CandidateResult struct {
	CandidateID   string  `json:"candidate_id"`
	CandidateName string  `json:"candidate_name"`
	Party         string  `json:"party,omitempty"`
	Votes         int64   `json:"votes"`
	Percentage    float64 `json:"percentage"`
	Rank          int     `json:"rank"`
}

// CandidateTally is the raw vote count for a candidate, as read from storage.
type CandidateTally struct {
	CandidateID string
	Name        string
	Party       string
	Votes       int64
}

// Tabulation is the outcome of Tabulate, ready to be persisted.
type Tabulation struct {
	TotalVotes        int64
	EligibleVoters    int64
	Turnout           float64
	WinnerCandidateID string
	Tied              bool
	Candidates        []CandidateResult
}

const percentPlaces = 2

var hundred = decimal.NewFromInt(100)

// Percent returns part/whole*100 rounded half away from zero to two places,
// or 0 when whole is 0.
func Percent(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return decimal.NewFromInt(part).
		Mul(hundred).
		Div(decimal.NewFromInt(whole)).
		Round(percentPlaces).
		InexactFloat64()
}

// Tabulate turns raw tallies into ranked candidate results. The winner is the
// candidate with the highest count; on a tie the lowest candidate id wins and
// Tied is set. There is no winner when no votes were cast. Output order is
// votes descending, then candidate id ascending, so the same tallies always
// produce the same rows.
func Tabulate(tallies []CandidateTally, eligible int64) Tabulation {
	rows := make([]CandidateTally, len(tallies))
	copy(rows, tallies)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Votes != rows[j].Votes {
			return rows[i].Votes > rows[j].Votes
		}
		return rows[i].CandidateID < rows[j].CandidateID
	})

	var total int64
	for _, r := range rows {
		total += r.Votes
	}

	t := Tabulation{
		TotalVotes:     total,
		EligibleVoters: eligible,
		Turnout:        Percent(total, eligible),
		Candidates:     make([]CandidateResult, len(rows)),
	}

	rank := 0
	for i, r := range rows {
		if i == 0 || r.Votes != rows[i-1].Votes {
			rank = i + 1
		}
		t.Candidates[i] = CandidateResult{
			CandidateID:   r.CandidateID,
			CandidateName: r.Name,
			Party:         r.Party,
			Votes:         r.Votes,
			Percentage:    Percent(r.Votes, total),
			Rank:          rank,
		}
	}

	if total > 0 {
		t.WinnerCandidateID = rows[0].CandidateID
		t.Tied = len(rows) > 1 && rows[1].Votes == rows[0].Votes
	}
	return t
}
