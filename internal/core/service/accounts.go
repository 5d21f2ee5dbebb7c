package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ballotworks/election-api/internal/core/domain"
	"github.com/ballotworks/election-api/internal/core/ports"
)

// accountSpec is the raw input for a new account, from self-registration or
// from an admin.
type accountSpec struct {
	name           string
	email          string
	password       string
	role           domain.Role
	status         domain.UserStatus
	constituencyID string
	boothID        string
}

// newUser validates the account input and builds a user with a hashed password.
func newUser(ctx context.Context, geography ports.GeographyRepository, now time.Time, spec accountSpec) (*domain.User, error) {
	name := strings.TrimSpace(spec.name)
	email := normalizeEmail(spec.email)
	if name == "" || email == "" {
		return nil, domain.ErrValidation
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ErrValidation
	}
	if len(spec.password) < minPasswordLength {
		return nil, domain.ErrValidation
	}
	if _, err := domain.ParseRole(string(spec.role)); err != nil {
		return nil, err
	}
	if !spec.status.Valid() {
		return nil, domain.ErrValidation
	}
	if err := checkPlacement(ctx, geography, spec.constituencyID, spec.boothID); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(spec.password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	return &domain.User{
		Name:           name,
		Email:          email,
		PasswordHash:   string(hash),
		Role:           spec.role,
		Status:         spec.status,
		ConstituencyID: spec.constituencyID,
		BoothID:        spec.boothID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// checkPlacement verifies the optional constituency/booth assignment.
func checkPlacement(ctx context.Context, geography ports.GeographyRepository, constituencyID, boothID string) error {
	if constituencyID != "" {
		if _, err := geography.FindConstituency(ctx, constituencyID); err != nil {
			if errors.Is(err, domain.ErrConstituencyNotFound) {
				return domain.ErrInvalidConstituency
			}
			return err
		}
	}
	if boothID == "" {
		return nil
	}
	booth, err := geography.FindBooth(ctx, boothID)
	if err != nil {
		if errors.Is(err, domain.ErrBoothNotFound) {
			return domain.ErrBoothInvalid
		}
		return err
	}
	if constituencyID != "" && booth.ConstituencyID != constituencyID {
		return domain.ErrBoothOutsideConstituency
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
