package handler

import "time"

type createElectionRequest struct {
	Name           string    `json:"name"            validate:"required"`
	Type           string    `json:"type"            validate:"required,oneof=General State Local ByElection"`
	StartDate      time.Time `json:"start_date"      validate:"required"`
	EndDate        time.Time `json:"end_date"        validate:"required"`
	ConstituencyID string    `json:"constituency_id"`
}

type createCandidateRequest struct {
	Name           string `json:"name"            validate:"required"`
	Party          string `json:"party"`
	ElectionID     string `json:"election_id"     validate:"required"`
	ConstituencyID string `json:"constituency_id"`
}
