package domain

import "time"

// CandidateStatus is driven by the superadmin approval workflow.
type CandidateStatus string

const (
	CandidatePending  CandidateStatus = "Pending"
	CandidateActive   CandidateStatus = "Active"
	CandidateInactive CandidateStatus = "Inactive"
	CandidateRejected CandidateStatus = "Rejected"
)

var candidateTransitions = map[CandidateStatus][]CandidateStatus{
	CandidatePending:  {CandidateActive, CandidateRejected},
	CandidateActive:   {CandidateInactive},
	CandidateInactive: {CandidateActive},
}

// CanTransitionTo reports whether the approval workflow allows s -> next.
func (s CandidateStatus) CanTransitionTo(next CandidateStatus) bool {
	for _, allowed := range candidateTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s CandidateStatus) Valid() bool {
	switch s {
	case CandidatePending, CandidateActive, CandidateInactive, CandidateRejected:
		return true
	}
	return false
}

// Candidate stands in exactly one election.
type Candidate struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Party          string          `json:"party,omitempty"`
	ElectionID     string          `json:"election_id"`
	ConstituencyID string          `json:"constituency_id,omitempty"`
	Status         CandidateStatus `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
