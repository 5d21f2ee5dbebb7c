package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ballotworks/election-api/internal/core/domain"
	"github.com/ballotworks/election-api/internal/core/ports"
)

// ElectionHandler serves elections and their candidates.
type ElectionHandler struct {
	service ports.ElectionService
}

func NewElectionHandler(service ports.ElectionService) *ElectionHandler {
	return &ElectionHandler{service: service}
}

// List handles GET /elections.
//
// @Summary      List elections
// @Description  Voters never see cancelled elections.
// @Tags         elections
// @Produce      json
// @Security     BearerAuth
// @Param        status           query     string  false  "Upcoming, Active, Completed or Cancelled"
// @Param        type             query     string  false  "General, State, Local or ByElection"
// @Param        constituency_id  query     string  false  "Constituency filter"
// @Success      200              {object}  listResponse[domain.Election]
// @Failure      400              {object}  errorResponse
// @Router       /elections [get]
func (h *ElectionHandler) List(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	items, err := h.service.ListElections(c.Request().Context(), id, ports.ListElectionsFilter{
		Status:         domain.ElectionStatus(c.QueryParam("status")),
		Type:           domain.ElectionType(c.QueryParam("type")),
		ConstituencyID: c.QueryParam("constituency_id"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(items))
}

// Get handles GET /elections/:id.
//
// @Summary      Get an election
// @Tags         elections
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Election id"
// @Success      200  {object}  domain.Election
// @Failure      404  {object}  errorResponse
// @Router       /elections/{id} [get]
func (h *ElectionHandler) Get(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	election, err := h.service.GetElection(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, election)
}

// Create handles POST /elections.
//
// @Summary      Create an election
// @Tags         elections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createElectionRequest  true  "Election"
// @Success      201   {object}  domain.Election
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /elections [post]
func (h *ElectionHandler) Create(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var req createElectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	election, err := h.service.CreateElection(c.Request().Context(), ports.CreateElectionInput{
		Actor:          id,
		Name:           req.Name,
		Type:           domain.ElectionType(req.Type),
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		ConstituencyID: req.ConstituencyID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, election)
}

// SetStatus handles PATCH /elections/:id/status.
//
// @Summary      Change election status
// @Tags         elections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Election id"
// @Param        body  body      statusRequest  true  "Target status"
// @Success      200   {object}  domain.Election
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /elections/{id}/status [patch]
func (h *ElectionHandler) SetStatus(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	election, err := h.service.SetElectionStatus(c.Request().Context(), id, c.Param("id"), domain.ElectionStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, election)
}

// ListCandidates handles GET /elections/:id/candidates.
//
// @Summary      List candidates of an election
// @Description  Voters only see Active candidates.
// @Tags         candidates
// @Produce      json
// @Security     BearerAuth
// @Param        id               path      string  true   "Election id"
// @Param        constituency_id  query     string  false  "Constituency filter"
// @Param        status           query     string  false  "Pending, Active, Inactive or Rejected"
// @Success      200              {object}  listResponse[domain.Candidate]
// @Failure      404              {object}  errorResponse
// @Router       /elections/{id}/candidates [get]
func (h *ElectionHandler) ListCandidates(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	items, err := h.service.ListCandidates(c.Request().Context(), id, ports.ListCandidatesFilter{
		ElectionID:     c.Param("id"),
		ConstituencyID: c.QueryParam("constituency_id"),
		Status:         domain.CandidateStatus(c.QueryParam("status")),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(items))
}

// CreateCandidate handles POST /candidates.
//
// @Summary      Register a candidate
// @Description  New candidates start Pending until a superadmin approves them.
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCandidateRequest  true  "Candidate"
// @Success      201   {object}  domain.Candidate
// @Failure      400   {object}  errorResponse
// @Router       /candidates [post]
func (h *ElectionHandler) CreateCandidate(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var req createCandidateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	candidate, err := h.service.CreateCandidate(c.Request().Context(), ports.CreateCandidateInput{
		Actor:          id,
		Name:           req.Name,
		Party:          req.Party,
		ElectionID:     req.ElectionID,
		ConstituencyID: req.ConstituencyID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, candidate)
}

// SetCandidateStatus handles PATCH /candidates/:id/status.
//
// @Summary      Approve, reject or withdraw a candidate
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Candidate id"
// @Param        body  body      statusRequest  true  "Target status"
// @Success      200   {object}  domain.Candidate
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /candidates/{id}/status [patch]
func (h *ElectionHandler) SetCandidateStatus(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	candidate, err := h.service.SetCandidateStatus(c.Request().Context(), id, c.Param("id"), domain.CandidateStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, candidate)
}
