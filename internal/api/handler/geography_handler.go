package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ballotworks/election-api/internal/core/ports"
)

// GeographyHandler serves constituency and booth reference data.
type GeographyHandler struct {
	service ports.GeographyService
}

func NewGeographyHandler(service ports.GeographyService) *GeographyHandler {
	return &GeographyHandler{service: service}
}

// ListConstituencies handles GET /constituencies.
//
// @Summary      List constituencies
// @Tags         geography
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[domain.Constituency]
// @Router       /constituencies [get]
func (h *GeographyHandler) ListConstituencies(c echo.Context) error {
	items, err := h.service.ListConstituencies(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(items))
}

// CreateConstituency handles POST /constituencies.
//
// @Summary      Create a constituency
// @Tags         geography
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createConstituencyRequest  true  "Constituency"
// @Success      201   {object}  domain.Constituency
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /constituencies [post]
func (h *GeographyHandler) CreateConstituency(c echo.Context) error {
	var req createConstituencyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	created, err := h.service.CreateConstituency(c.Request().Context(), req.Name, req.Code, req.State)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// ListBooths handles GET /booths.
//
// @Summary      List polling booths
// @Tags         geography
// @Produce      json
// @Security     BearerAuth
// @Param        constituency_id  query     string  false  "Constituency filter"
// @Success      200              {object}  listResponse[domain.Booth]
// @Router       /booths [get]
func (h *GeographyHandler) ListBooths(c echo.Context) error {
	items, err := h.service.ListBooths(c.Request().Context(), c.QueryParam("constituency_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(items))
}

// CreateBooth handles POST /booths.
//
// @Summary      Create a polling booth
// @Tags         geography
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBoothRequest  true  "Booth"
// @Success      201   {object}  domain.Booth
// @Failure      400   {object}  errorResponse
// @Router       /booths [post]
func (h *GeographyHandler) CreateBooth(c echo.Context) error {
	var req createBoothRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	created, err := h.service.CreateBooth(c.Request().Context(), req.Name, req.ConstituencyID, req.Address)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}
