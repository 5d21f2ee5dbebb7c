package handler

import "github.com/ballotworks/election-api/internal/core/domain"

type createUserRequest struct {
	Name           string `json:"name"            validate:"required"`
	Email          string `json:"email"           validate:"required,email"`
	Password       string `json:"password"        validate:"required,min=8"`
	Role           string `json:"role"            validate:"required,role"`
	Status         string `json:"status"          validate:"omitempty,oneof=Active Inactive Pending"`
	ConstituencyID string `json:"constituency_id"`
	BoothID        string `json:"booth_id"`
}

type userPageResponse struct {
	Items      []*domain.User `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

type createConstituencyRequest struct {
	Name  string `json:"name"  validate:"required"`
	Code  string `json:"code"  validate:"required,max=16"`
	State string `json:"state"`
}

type createBoothRequest struct {
	Name           string `json:"name"            validate:"required"`
	ConstituencyID string `json:"constituency_id" validate:"required"`
	Address        string `json:"address"`
}
