package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ballotworks/election-api/internal/core/ports"
)

// VoteHandler lets voters cast a ballot and check whether they have voted.
type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{service: service}
}

// Cast handles POST /votes/cast. The voter is always the caller.
//
// @Summary      Cast a vote
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      castVoteRequest  true  "Ballot"
// @Success      201   {object}  castVoteResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /votes/cast [post]
func (h *VoteHandler) Cast(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var req castVoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	vote, err := h.service.CastVote(c.Request().Context(), ports.CastVoteInput{
		ElectionID:  req.ElectionID,
		VoterID:     id.UserID,
		CandidateID: req.CandidateID,
		BoothID:     req.BoothID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, castVoteResponse{
		VoteID:     vote.ID,
		ElectionID: vote.ElectionID,
		CastAt:     vote.CastAt,
	})
}

// Status handles GET /votes/status/:electionId.
//
// @Summary      Has the caller voted in an election
// @Tags         votes
// @Produce      json
// @Security     BearerAuth
// @Param        electionId  path      string  true  "Election id"
// @Success      200         {object}  domain.VoteStatus
// @Failure      404         {object}  errorResponse
// @Router       /votes/status/{electionId} [get]
func (h *VoteHandler) Status(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	status, err := h.service.Status(c.Request().Context(), c.Param("electionId"), id.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, status)
}
