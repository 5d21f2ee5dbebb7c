package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ballotworks/election-api/internal/core/domain"
	"github.com/ballotworks/election-api/internal/core/ports"
)

// AuditHandler exposes the audit trail to superadmins.
type AuditHandler struct {
	service ports.AuditService
}

func NewAuditHandler(service ports.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List handles GET /audit.
//
// @Summary      List audit events
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        election_id  query     string  false  "Election filter"
// @Param        type         query     string  false  "Event type, e.g. vote.cast"
// @Param        since        query     string  false  "RFC3339 lower bound"
// @Param        limit        query     int     false  "Max events (default 100)"
// @Success      200          {object}  listResponse[domain.AuditEvent]
// @Failure      400          {object}  errorResponse
// @Router       /audit [get]
func (h *AuditHandler) List(c echo.Context) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	var since time.Time
	if raw := c.QueryParam("since"); raw != "" {
		since, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "since must be an RFC3339 timestamp")
		}
	}

	events, err := h.service.List(c.Request().Context(), ports.ListAuditFilter{
		ElectionID: c.QueryParam("election_id"),
		Type:       domain.AuditType(c.QueryParam("type")),
		Since:      since,
		Limit:      limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(events))
}
