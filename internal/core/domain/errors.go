package domain

// ErrorKind is the stable, machine-readable class of a domain failure.
// The HTTP layer maps each kind to exactly one status code.
type ErrorKind string

const (
	KindUnauthorized    ErrorKind = "unauthorized"
	KindForbidden       ErrorKind = "forbidden"
	KindNotFound        ErrorKind = "not_found"
	KindConflict        ErrorKind = "conflict"
	KindValidation      ErrorKind = "validation"
	KindTooManyRequests ErrorKind = "too_many_requests"
	KindInternal        ErrorKind = "internal"
)

// Error is a typed domain failure. Sentinels below are compared by identity,
// so errors.Is keeps working after fmt.Errorf("...: %w", err) wrapping.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind ErrorKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// Auth.
var (
	ErrUnauthorized       = newError(KindUnauthorized, "unauthorized", "invalid or expired token")
	ErrInvalidCredentials = newError(KindUnauthorized, "invalid_credentials", "invalid credentials")
	ErrAccountInactive    = newError(KindForbidden, "account_inactive", "account is not active")
	ErrForbidden          = newError(KindForbidden, "forbidden", "access forbidden")
	ErrTooManyAttempts    = newError(KindTooManyRequests, "too_many_attempts", "too many failed login attempts, try again later")
	ErrUserNotFound       = newError(KindNotFound, "user_not_found", "user not found")
	ErrUserExists         = newError(KindConflict, "user_exists", "user already exists")
	ErrInvalidRole        = newError(KindValidation, "invalid_role", "role must be one of: superadmin, admin, voter")
)

// Elections, candidates and reference data.
var (
	ErrElectionNotFound         = newError(KindNotFound, "election_not_found", "election not found")
	ErrInvalidElection          = newError(KindValidation, "invalid_election", "election does not exist")
	ErrElectionNotActive        = newError(KindForbidden, "election_not_active", "election is not active")
	ErrElectionCancelled        = newError(KindConflict, "election_cancelled", "election has been cancelled")
	ErrInvalidTransition        = newError(KindConflict, "invalid_transition", "invalid status transition")
	ErrInvalidDateRange         = newError(KindValidation, "invalid_date_range", "end date must not be before start date")
	ErrCandidateNotFound        = newError(KindNotFound, "candidate_not_found", "candidate not found")
	ErrCandidateInvalid         = newError(KindValidation, "candidate_invalid", "candidate is not valid for this election")
	ErrConstituencyNotFound     = newError(KindNotFound, "constituency_not_found", "constituency not found")
	ErrConstituencyExists       = newError(KindConflict, "constituency_exists", "constituency code already exists")
	ErrInvalidConstituency      = newError(KindValidation, "invalid_constituency", "constituency does not exist")
	ErrBoothNotFound            = newError(KindNotFound, "booth_not_found", "booth not found")
	ErrBoothInvalid             = newError(KindValidation, "booth_invalid", "booth does not exist")
	ErrBoothOutsideConstituency = newError(KindValidation, "booth_outside_constituency", "booth does not belong to the constituency")
)

// Voting and results.
var (
	ErrVoterIneligible = newError(KindForbidden, "voter_ineligible", "voter is not eligible to vote in this election")
	ErrAlreadyVoted    = newError(KindConflict, "already_voted", "voter has already voted in this election")
	ErrVoteNotFound    = newError(KindNotFound, "vote_not_found", "vote not found")
	ErrResultNotFound  = newError(KindNotFound, "result_not_found", "result not found")
	ErrAggregationBusy = newError(KindConflict, "aggregation_conflict", "results for this scope are being regenerated")
	ErrValidation      = newError(KindValidation, "validation_failed", "request validation failed")
	ErrInternal        = newError(KindInternal, "internal", "internal server error")
)
