package ports

import (
	"context"

	"github.com/ballotworks/election-api/internal/core/domain"
)

// ListUsersFilter carries the query parameters for listing users.
type ListUsersFilter struct {
	Role           domain.Role       // optional
	Status         domain.UserStatus // optional
	ConstituencyID string            // optional
	Page           int               // 1-based
	Limit          int
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// FindByEmailAndRole returns domain.ErrUserNotFound when no account matches.
	FindByEmailAndRole(ctx context.Context, email string, role domain.Role) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Create returns domain.ErrUserExists when (email, role) is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateStatus(ctx context.Context, id string, status domain.UserStatus) (*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
}
