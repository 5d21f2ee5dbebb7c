package domain

import "time"

// AuditType names an auditable action.
type AuditType string

const (
	AuditLogin                  AuditType = "auth.login"
	AuditVoteCast               AuditType = "vote.cast"
	AuditResultsGenerated       AuditType = "results.generated"
	AuditResultsPublished       AuditType = "results.published"
	AuditElectionStatusChanged  AuditType = "election.status_changed"
	AuditCandidateStatusChanged AuditType = "candidate.status_changed"
	AuditUserStatusChanged      AuditType = "user.status_changed"
)

// AuditEvent records who did what. Vote events never carry the candidate.
type AuditEvent struct {
	Type       AuditType         `json:"type"`
	ActorID    string            `json:"actor_id,omitempty"`
	ActorRole  Role              `json:"actor_role,omitempty"`
	ElectionID string            `json:"election_id,omitempty"`
	SubjectID  string            `json:"subject_id,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
	Meta       map[string]string `json:"meta,omitempty"`
}
