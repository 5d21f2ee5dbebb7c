package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ballotworks/election-api/internal/core/domain"
	"github.com/ballotworks/election-api/internal/core/ports"
)

// UserHandler exposes account management to admins and superadmins.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        role             query     string  false  "superadmin, admin or voter"
// @Param        status           query     string  false  "Active, Inactive or Pending"
// @Param        constituency_id  query     string  false  "Constituency filter"
// @Param        page             query     int     false  "Page number (1-based)"
// @Param        limit            query     int     false  "Page size (default 20, max 100)"
// @Success      200              {object}  userPageResponse
// @Failure      400              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	status := domain.UserStatus(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return domain.ErrValidation
	}

	result, err := h.service.ListUsers(c.Request().Context(), id, ports.ListUsersFilter{
		Role:           domain.Role(c.QueryParam("role")),
		Status:         status,
		ConstituencyID: c.QueryParam("constituency_id"),
		Page:           page,
		Limit:          limit,
	})
	if err != nil {
		return err
	}

	items := result.Items
	if items == nil {
		items = []*domain.User{}
	}
	return c.JSON(http.StatusOK, userPageResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Create handles POST /users.
//
// @Summary      Create a user
// @Description  Superadmins create any role; admins create voters only.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Actor:          id,
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Role:           domain.Role(req.Role),
		Status:         domain.UserStatus(req.Status),
		ConstituencyID: req.ConstituencyID,
		BoothID:        req.BoothID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, userResponse{User: user})
}

// SetStatus handles PATCH /users/:id/status.
//
// @Summary      Change account status
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "User id"
// @Param        body  body      statusRequest  true  "Active, Inactive or Pending"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id}/status [patch]
func (h *UserHandler) SetStatus(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.SetStatus(c.Request().Context(), id, c.Param("id"), domain.UserStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}
