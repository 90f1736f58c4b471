package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"tripwallet/internal/errors"
	"tripwallet/internal/service"
)

const dateLayout = "2006-01-02"

// TripHandler handles trip and membership endpoints.
type TripHandler struct {
	tripService service.TripService
}

// NewTripHandler creates a new trip handler.
func NewTripHandler(tripService service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// CreateTripRequest represents a trip creation request.
type CreateTripRequest struct {
	Name         string `json:"name" validate:"required"`
	BaseCurrency string `json:"base_currency" validate:"required,len=3"`
	StartDate    string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate      string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// CreateTrip godoc
// @Summary Create a trip
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTripRequest true "Trip data"
// @Success 201 {object} model.Trip
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trips [post]
func (h *TripHandler) CreateTrip(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req CreateTripRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid start_date",
			Code:  "INVALID_DATE",
		})
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid end_date",
			Code:  "INVALID_DATE",
		})
	}

	trip, err := h.tripService.CreateTrip(c.Request().Context(), userID, req.Name, req.BaseCurrency, startDate, endDate)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, trip)
}

// ListTrips godoc
// @Summary List trips the caller belongs to
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Trip
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trips [get]
func (h *TripHandler) ListTrips(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	trips, err := h.tripService.ListTrips(c.Request().Context(), userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, trips)
}

// GetTrip godoc
// @Summary Get a trip
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} model.Trip
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trips/{id} [get]
func (h *TripHandler) GetTrip(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	tripID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	trip, err := h.tripService.GetTrip(c.Request().Context(), tripID, userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, trip)
}

// ArchiveTrip godoc
// @Summary Archive a trip
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} model.Trip
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trips/{id}/archive [post]
func (h *TripHandler) ArchiveTrip(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	tripID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	trip, err := h.tripService.ArchiveTrip(c.Request().Context(), tripID, userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, trip)
}

// ListMembers godoc
// @Summary List trip members
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {array} service.TripMember
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trips/{id}/members [get]
func (h *TripHandler) ListMembers(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	tripID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	members, err := h.tripService.ListMembers(c.Request().Context(), tripID, userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, members)
}

// RemoveMember godoc
// @Summary Remove a member from a trip
// @Tags trips
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param userID path string true "User ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trips/{id}/members/{userID} [delete]
func (h *TripHandler) RemoveMember(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	tripID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	targetID, err := pathUUID(c, "userID")
	if err != nil {
		return err
	}

	if err := h.tripService.RemoveMember(c.Request().Context(), tripID, userID, targetID); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// parseDate parses an optional YYYY-MM-DD date string.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
