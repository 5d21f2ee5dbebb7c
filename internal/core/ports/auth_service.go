package ports

import (
	"context"

	"github.com/ballotworks/election-api/internal/core/domain"
)

// RegisterInput is a voter self-registration.
type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	ConstituencyID string
	BoothID        string
}

// CreateUserInput is an account created by an admin or superadmin.
type CreateUserInput struct {
	Actor          domain.Identity
	Name           string
	Email          string
	Password       string
	Role           domain.Role
	Status         domain.UserStatus // defaults to Active
	ConstituencyID string
	BoothID        string
}

// AuthService covers login, token verification and account management.
type AuthService interface {
	Login(ctx context.Context, email, password string, role domain.Role) (string, *domain.User, error)
	Verify(ctx context.Context, token string) (*domain.Identity, error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
}

// UserService is the admin-facing account management surface.
type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error)
	SetStatus(ctx context.Context, actor domain.Identity, userID string, status domain.UserStatus) (*domain.User, error)
	ListUsers(ctx context.Context, actor domain.Identity, filter ListUsersFilter) (*Page[*domain.User], error)
}

// Page is a generic paginated response.
type Page[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}
