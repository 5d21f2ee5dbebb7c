package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ballotworks/election-api/internal/core/ports"
)

// ResultHandler triggers aggregation and serves results.
type ResultHandler struct {
	service ports.ResultService
}

func NewResultHandler(service ports.ResultService) *ResultHandler {
	return &ResultHandler{service: service}
}

// Generate handles POST /results/generate.
//
// @Summary      Generate results
// @Description  Recounts votes for the election (optionally one constituency) and replaces the stored result. Safe to repeat.
// @Tags         results
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      generateResultsRequest  true  "Aggregation scope"
// @Success      200   {object}  domain.Result
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /results/generate [post]
func (h *ResultHandler) Generate(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var req generateResultsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	result, err := h.service.GenerateResults(c.Request().Context(), id, req.ElectionID, req.ConstituencyID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Publish handles PATCH /results/:id/publish.
//
// @Summary      Publish or unpublish a result
// @Tags         results
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true   "Result id"
// @Param        body  body      publishRequest  false  "Defaults to published=true"
// @Success      200   {object}  domain.Result
// @Failure      404   {object}  errorResponse
// @Router       /results/{id}/publish [patch]
func (h *ResultHandler) Publish(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var req publishRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	}
	published := true
	if req.Published != nil {
		published = *req.Published
	}

	result, err := h.service.Publish(c.Request().Context(), id, c.Param("id"), published)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// List handles GET /results.
//
// @Summary      List results
// @Description  Voters only see published results.
// @Tags         results
// @Produce      json
// @Security     BearerAuth
// @Param        election_id      query     string  false  "Election filter"
// @Param        constituency_id  query     string  false  "Constituency filter"
// @Success      200              {object}  listResponse[domain.Result]
// @Router       /results [get]
func (h *ResultHandler) List(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	items, err := h.service.ListResults(c.Request().Context(), id, ports.ListResultsFilter{
		ElectionID:     c.QueryParam("election_id"),
		ConstituencyID: c.QueryParam("constituency_id"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(items))
}

// Get handles GET /results/:id.
//
// @Summary      Get a result with candidate rows
// @Tags         results
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Result id"
// @Success      200  {object}  domain.Result
// @Failure      404  {object}  errorResponse
// @Router       /results/{id} [get]
func (h *ResultHandler) Get(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	result, err := h.service.GetResult(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
