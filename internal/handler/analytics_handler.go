package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"tripwallet/internal/service"
)

// AnalyticsHandler handles trip analytics endpoints.
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// SummaryResponse serializes a spending summary. Amounts are strings in the
// trip's base currency.
type SummaryResponse struct {
	TotalSpendingInBase string            `json:"total_spending_in_base"`
	ByMember            map[string]string `json:"by_member"`
	ByCategory          map[string]string `json:"by_category"`
	ByDay               map[string]string `json:"by_day"`
}

// Summary godoc
// @Summary Trip spending summary
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} SummaryResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trips/{id}/analytics/summary [get]
func (h *AnalyticsHandler) Summary(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	tripID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	summary, err := h.analyticsService.Summary(c.Request().Context(), tripID, userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toSummaryResponse(summary))
}

// Personal godoc
// @Summary Caller's own spending summary within a trip
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} SummaryResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trips/{id}/analytics/me [get]
func (h *AnalyticsHandler) Personal(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	tripID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	summary, err := h.analyticsService.Personal(c.Request().Context(), tripID, userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toSummaryResponse(summary))
}

func toSummaryResponse(summary *service.Summary) SummaryResponse {
	return SummaryResponse{
		TotalSpendingInBase: summary.TotalSpendingInBase.String(),
		ByMember:            stringifyAmounts(summary.ByMember),
		ByCategory:          stringifyAmounts(summary.ByCategory),
		ByDay:               stringifyAmounts(summary.ByDay),
	}
}

func stringifyAmounts(amounts map[string]decimal.Decimal) map[string]string {
	out := make(map[string]string, len(amounts))
	for key, value := range amounts {
		out[key] = value.String()
	}
	return out
}
