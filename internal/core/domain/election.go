package domain

import "time"

// ElectionStatus represents the lifecycle state of an election.
type ElectionStatus string

const (
	ElectionUpcoming  ElectionStatus = "Upcoming"
	ElectionActive    ElectionStatus = "Active"
	ElectionCompleted ElectionStatus = "Completed"
	ElectionCancelled ElectionStatus = "Cancelled"
)

// electionTransitions defines the allowed state machine transitions.
// Completed and Cancelled are terminal.
var electionTransitions = map[ElectionStatus][]ElectionStatus{
	ElectionUpcoming: {ElectionActive, ElectionCancelled},
	ElectionActive:   {ElectionCompleted, ElectionCancelled},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s ElectionStatus) CanTransitionTo(next ElectionStatus) bool {
	for _, allowed := range electionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ElectionStatus) Valid() bool {
	switch s {
	case ElectionUpcoming, ElectionActive, ElectionCompleted, ElectionCancelled:
		return true
	}
	return false
}

// ElectionType classifies an election.
type ElectionType string

const (
	ElectionGeneral    ElectionType = "General"
	ElectionState      ElectionType = "State"
	ElectionLocal      ElectionType = "Local"
	ElectionByElection ElectionType = "ByElection"
)

// Election is a single contest. When ConstituencyID is set only voters of
// that constituency are eligible.
type Election struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Type           ElectionType   `json:"type"`
	StartDate      time.Time      `json:"start_date"`
	EndDate        time.Time      `json:"end_date"`
	Status         ElectionStatus `json:"status"`
	ConstituencyID string         `json:"constituency_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Scoped reports whether the election is restricted to one constituency.
func (e *Election) Scoped() bool { return e.ConstituencyID != "" }
