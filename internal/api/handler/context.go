package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ballotworks/election-api/internal/api/middleware"
	"github.com/ballotworks/election-api/internal/core/domain"
)

// actor returns the identity injected by the Auth middleware. A missing
// identity means the route was registered without Auth; treat it as 401.
func actor(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.Identity(c)
	if !ok || id.UserID == "" {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs the struct
// validator registered on the Echo instance.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// queryInt parses an optional integer query parameter.
func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a non-negative integer")
	}
	return n, nil
}
