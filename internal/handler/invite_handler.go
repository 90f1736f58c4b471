package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tripwallet/internal/service"
)

// InviteHandler handles trip invite endpoints.
type InviteHandler struct {
	inviteService service.InviteService
}

// NewInviteHandler creates a new invite handler.
func NewInviteHandler(inviteService service.InviteService) *InviteHandler {
	return &InviteHandler{inviteService: inviteService}
}

// GenerateInviteRequest represents an invite generation request. Omitting
// expires_in_hours defaults to 24 hours.
type GenerateInviteRequest struct {
	ExpiresInHours *int `json:"expires_in_hours,omitempty" validate:"omitnil,min=1,max=720"`
}

// JoinRequest represents an invite redemption request.
type JoinRequest struct {
	Code string `json:"code" validate:"required"`
}

// JoinResponse represents the outcome of redeeming an invite code.
type JoinResponse struct {
	TripID        string `json:"trip_id"`
	AlreadyJoined bool   `json:"already_joined"`
}

// Generate godoc
// @Summary Generate an invite code for a trip
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param request body GenerateInviteRequest false "Invite options"
// @Success 201 {object} model.Invite
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trips/{id}/invite [post]
func (h *InviteHandler) Generate(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	tripID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req GenerateInviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	invite, err := h.inviteService.Generate(c.Request().Context(), tripID, userID, req.ExpiresInHours)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, invite)
}

// Current godoc
// @Summary Get the trip's active invite code
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} model.Invite
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trips/{id}/invite [get]
func (h *InviteHandler) Current(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	tripID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	invite, err := h.inviteService.Current(c.Request().Context(), tripID, userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, invite)
}

// Join godoc
// @Summary Join a trip using an invite code
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body JoinRequest true "Invite code"
// @Success 200 {object} JoinResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trips/join [post]
func (h *InviteHandler) Join(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req JoinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.inviteService.Redeem(c.Request().Context(), req.Code, userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, JoinResponse{
		TripID:        result.TripID.String(),
		AlreadyJoined: result.AlreadyJoined,
	})
}

// Deactivate godoc
// @Summary Deactivate the trip's current invite code
// @Tags invites
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trips/{id}/invite [delete]
func (h *InviteHandler) Deactivate(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	tripID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.inviteService.Deactivate(c.Request().Context(), tripID, userID); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
