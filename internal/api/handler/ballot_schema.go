package handler

import "time"

type castVoteRequest struct {
	ElectionID  string `json:"election_id"  validate:"required"`
	CandidateID string `json:"candidate_id" validate:"required"`
	BoothID     string `json:"booth_id"`
}

// castVoteResponse is the voter's receipt. It never carries the chosen
// candidate.
type castVoteResponse struct {
	VoteID     string    `json:"vote_id"`
	ElectionID string    `json:"election_id"`
	CastAt     time.Time `json:"cast_at"`
}

type generateResultsRequest struct {
	ElectionID     string `json:"election_id"     validate:"required"`
	ConstituencyID string `json:"constituency_id"`
}

type publishRequest struct {
	Published *bool `json:"published"`
}
