package domain

import "time"

// Vote is a single ballot. At most one exists per (ElectionID, VoterID); the
// storage layer enforces this with a uniqueness constraint.
type Vote struct {
	ID          string    `json:"id"`
	ElectionID  string    `json:"election_id"`
	VoterID     string    `json:"voter_id"`
	CandidateID string    `json:"candidate_id"`
	BoothID     string    `json:"booth_id,omitempty"`
	CastAt      time.Time `json:"cast_at"`
}

// VoteStatus tells a voter whether they already voted in an election.
type VoteStatus struct {
	ElectionID string     `json:"election_id"`
	HasVoted   bool       `json:"has_voted"`
	CastAt     *time.Time `json:"cast_at,omitempty"`
}
