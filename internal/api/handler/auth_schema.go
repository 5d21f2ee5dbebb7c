package handler

import "github.com/ballotworks/election-api/internal/core/domain"

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required,role"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	User      *domain.User `json:"user"`
	Home      string       `json:"home"`
}

type registerRequest struct {
	Name           string `json:"name"            validate:"required"`
	Email          string `json:"email"           validate:"required,email"`
	Password       string `json:"password"        validate:"required,min=8"`
	ConstituencyID string `json:"constituency_id"`
	BoothID        string `json:"booth_id"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type meResponse struct {
	domain.Identity
	Home string `json:"home"`
}
