package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"tripwallet/internal/errors"
	"tripwallet/internal/model"
	"tripwallet/internal/repository"
	"tripwallet/internal/service"
)

// ExpenseHandler handles expense ledger endpoints.
type ExpenseHandler struct {
	expenseService service.ExpenseService
}

// NewExpenseHandler creates a new expense handler.
func NewExpenseHandler(expenseService service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest represents an expense creation request. Monetary
// amounts are bound as strings to keep them out of float64.
type CreateExpenseRequest struct {
	Amount             string            `json:"amount" validate:"required"`
	Currency           string            `json:"currency" validate:"required,len=3"`
	FxRateToBase       *string           `json:"fx_rate_to_base,omitempty"`
	Category           string            `json:"category" validate:"required"`
	Note               string            `json:"note,omitempty"`
	ExpenseTime        time.Time         `json:"expense_time" validate:"required"`
	PaidByUserID       *string           `json:"paid_by_user_id,omitempty" validate:"omitempty,uuid"`
	SplitMode          string            `json:"split_mode,omitempty" validate:"omitempty,oneof=equal custom"`
	SplitWithUserIDs   []string          `json:"split_with_user_ids,omitempty" validate:"omitempty,dive,uuid"`
	CustomSplitAmounts map[string]string `json:"custom_split_amounts,omitempty"`
}

// UpdateExpenseRequest represents a partial expense update. Absent fields are
// left unchanged.
type UpdateExpenseRequest struct {
	Amount             *string            `json:"amount,omitempty"`
	Currency           *string            `json:"currency,omitempty" validate:"omitempty,len=3"`
	FxRateToBase       *string            `json:"fx_rate_to_base,omitempty"`
	Category           *string            `json:"category,omitempty"`
	Note               *string            `json:"note,omitempty"`
	ExpenseTime        *time.Time         `json:"expense_time,omitempty"`
	PaidByUserID       *string            `json:"paid_by_user_id,omitempty" validate:"omitempty,uuid"`
	SplitMode          *string            `json:"split_mode,omitempty" validate:"omitempty,oneof=equal custom"`
	SplitWithUserIDs   *[]string          `json:"split_with_user_ids,omitempty" validate:"omitempty,dive,uuid"`
	CustomSplitAmounts *map[string]string `json:"custom_split_amounts,omitempty"`
}

// Create godoc
// @Summary Record a new expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param request body CreateExpenseRequest true "Expense data"
// @Success 201 {object} model.Expense
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trips/{id}/expenses [post]
func (h *ExpenseHandler) Create(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	tripID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return err
	}
	fxRate, err := parseOptionalAmount(req.FxRateToBase, "fx_rate_to_base")
	if err != nil {
		return err
	}
	paidBy, err := parseOptionalUUID(req.PaidByUserID)
	if err != nil {
		return err
	}
	splitWith, err := parseUUIDs(req.SplitWithUserIDs)
	if err != nil {
		return err
	}
	customSplits, err := parseDecimalMap(req.CustomSplitAmounts)
	if err != nil {
		return err
	}

	expense, err := h.expenseService.Create(c.Request().Context(), tripID, userID, service.ExpenseCreateInput{
		Amount:             amount,
		Currency:           req.Currency,
		FxRateToBase:       fxRate,
		Category:           req.Category,
		Note:               req.Note,
		ExpenseTime:        req.ExpenseTime,
		PaidByUserID:       paidBy,
		SplitMode:          model.SplitMode(req.SplitMode),
		SplitWithUserIDs:   splitWith,
		CustomSplitAmounts: customSplits,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, expense)
}

// List godoc
// @Summary List a trip's expenses
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param paid_by query string false "Filter by payer user ID"
// @Param category query string false "Filter by category"
// @Param from query string false "Inclusive lower bound on expense_time (RFC 3339)"
// @Param to query string false "Inclusive upper bound on expense_time (RFC 3339)"
// @Success 200 {array} model.Expense
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trips/{id}/expenses [get]
func (h *ExpenseHandler) List(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	tripID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	filter, err := parseExpenseFilter(c)
	if err != nil {
		return err
	}

	expenses, err := h.expenseService.List(c.Request().Context(), tripID, userID, filter)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, expenses)
}

// Update godoc
// @Summary Partially update an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param expenseID path string true "Expense ID"
// @Param request body UpdateExpenseRequest true "Fields to change"
// @Success 200 {object} model.Expense
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trips/{id}/expenses/{expenseID} [patch]
func (h *ExpenseHandler) Update(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	tripID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	expenseID, err := pathUUID(c, "expenseID")
	if err != nil {
		return err
	}

	var req UpdateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := service.ExpenseUpdateInput{
		Currency:    req.Currency,
		Category:    req.Category,
		Note:        req.Note,
		ExpenseTime: req.ExpenseTime,
	}
	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount)
		if err != nil {
			return err
		}
		input.Amount = &amount
	}
	if req.FxRateToBase != nil {
		fxRate, err := parseOptionalAmount(req.FxRateToBase, "fx_rate_to_base")
		if err != nil {
			return err
		}
		input.FxRateToBase = fxRate
	}
	if req.PaidByUserID != nil {
		paidBy, err := parseOptionalUUID(req.PaidByUserID)
		if err != nil {
			return err
		}
		input.PaidByUserID = paidBy
	}
	if req.SplitMode != nil {
		mode := model.SplitMode(*req.SplitMode)
		input.SplitMode = &mode
	}
	if req.SplitWithUserIDs != nil {
		splitWith, err := parseUUIDs(*req.SplitWithUserIDs)
		if err != nil {
			return err
		}
		input.SplitWithUserIDs = &splitWith
	}
	if req.CustomSplitAmounts != nil {
		customSplits, err := parseDecimalMap(*req.CustomSplitAmounts)
		if err != nil {
			return err
		}
		input.CustomSplitAmounts = &customSplits
	}

	expense, err := h.expenseService.Update(c.Request().Context(), tripID, expenseID, userID, input)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, expense)
}

// Delete godoc
// @Summary Delete an expense
// @Tags expenses
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param expenseID path string true "Expense ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trips/{id}/expenses/{expenseID} [delete]
func (h *ExpenseHandler) Delete(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	tripID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	expenseID, err := pathUUID(c, "expenseID")
	if err != nil {
		return err
	}

	if err := h.expenseService.Delete(c.Request().Context(), tripID, expenseID, userID); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parseAmount(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid amount",
			Code:  "INVALID_AMOUNT",
		})
	}
	return d, nil
}

func parseOptionalAmount(value *string, field string) (*decimal.Decimal, error) {
	if value == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*value)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid " + field,
			Code:  "INVALID_AMOUNT",
		})
	}
	return &d, nil
}

func parseOptionalUUID(value *string) (*uuid.UUID, error) {
	if value == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*value)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid user id",
			Code:  "INVALID_UUID",
		})
	}
	return &id, nil
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	if len(values) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid user id in split_with_user_ids",
				Code:  "INVALID_UUID",
			})
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseDecimalMap(values map[string]string) (map[string]decimal.Decimal, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]decimal.Decimal, len(values))
	for key, value := range values {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid custom split amount",
				Code:  "INVALID_SPLIT",
			})
		}
		out[key] = d
	}
	return out, nil
}

func parseExpenseFilter(c echo.Context) (repository.ExpenseFilter, error) {
	var filter repository.ExpenseFilter

	if raw := c.QueryParam("paid_by"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid paid_by",
				Code:  "INVALID_UUID",
			})
		}
		filter.PaidBy = &id
	}
	if raw := c.QueryParam("category"); raw != "" {
		category := raw
		filter.Category = &category
	}
	if raw := c.QueryParam("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid from timestamp",
				Code:  "INVALID_TIMESTAMP",
			})
		}
		filter.From = &t
	}
	if raw := c.QueryParam("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid to timestamp",
				Code:  "INVALID_TIMESTAMP",
			})
		}
		filter.To = &t
	}

	return filter, nil
}
