package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ballotworks/election-api/internal/core/domain"
	"github.com/ballotworks/election-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// UserService manages accounts on behalf of admins and superadmins.
type UserService struct {
	users     ports.UserRepository
	geography ports.GeographyRepository
	audit     ports.AuditRecorder
	log       zerolog.Logger
	now       func() time.Time
}

func NewUserService(users ports.UserRepository, geography ports.GeographyRepository, audit ports.AuditRecorder, log zerolog.Logger) *UserService {
	return &UserService{users: users, geography: geography, audit: audit, log: log, now: time.Now}
}

// CreateUser creates an account of any role the actor is allowed to manage.
func (s *UserService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	role, err := domain.ParseRole(string(in.Role))
	if err != nil {
		return nil, err
	}
	if !in.Actor.Role.CanManageRole(role) {
		return nil, domain.ErrForbidden
	}

	status := in.Status
	if status == "" {
		status = domain.UserActive
	}

	user, err := newUser(ctx, s.geography, s.now(), accountSpec{
		name:           in.Name,
		email:          in.Email,
		password:       in.Password,
		role:           role,
		status:         status,
		constituencyID: in.ConstituencyID,
		boothID:        in.BoothID,
	})
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("user_id", created.ID).
		Str("role", string(created.Role)).
		Str("actor_id", in.Actor.UserID).
		Msg("user created")
	return created, nil
}

// SetStatus activates, deactivates or parks an account. Actors cannot change
// their own status.
func (s *UserService) SetStatus(ctx context.Context, actor domain.Identity, userID string, status domain.UserStatus) (*domain.User, error) {
	if !status.Valid() {
		return nil, domain.ErrValidation
	}
	if userID == actor.UserID {
		return nil, domain.ErrForbidden
	}

	target, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanManageRole(target.Role) {
		return nil, domain.ErrForbidden
	}
	if target.Status == status {
		return target, nil
	}

	updated, err := s.users.UpdateStatus(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("set user status: %w", err)
	}

	s.audit.Record(domain.AuditEvent{
		Type:       domain.AuditUserStatusChanged,
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		SubjectID:  userID,
		OccurredAt: s.now().UTC(),
		Meta:       map[string]string{"from": string(target.Status), "to": string(status)},
	})
	return updated, nil
}

// ListUsers returns a page of accounts the actor may manage. Admins only see
// voters.
func (s *UserService) ListUsers(ctx context.Context, actor domain.Identity, filter ports.ListUsersFilter) (*ports.Page[*domain.User], error) {
	if filter.Role != "" {
		if _, err := domain.ParseRole(string(filter.Role)); err != nil {
			return nil, err
		}
		if !actor.Role.CanManageRole(filter.Role) {
			return nil, domain.ErrForbidden
		}
	} else if !actor.Role.CanManageRole(domain.RoleAdmin) {
		if !actor.Role.CanManageRole(domain.RoleVoter) {
			return nil, domain.ErrForbidden
		}
		filter.Role = domain.RoleVoter
	}

	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return &ports.Page[*domain.User]{
		Items:      users,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// normalizePage applies the default page size and caps it.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
