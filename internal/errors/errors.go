package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated is returned when the caller has no valid session.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrNotTripMember is returned when the caller has no membership for the trip.
	ErrNotTripMember = errors.New("not a trip member")
	// ErrOwnerRequired is returned when an owner-only action is attempted by a member.
	ErrOwnerRequired = errors.New("owner role required")
	// ErrNotExpenseCreator is returned when an expense is modified by someone other than its creator.
	ErrNotExpenseCreator = errors.New("only the expense creator may modify it")
	// ErrTripNotFound is returned when a trip does not exist.
	ErrTripNotFound = errors.New("trip not found")
	// ErrExpenseNotFound is returned when an expense does not exist in the trip.
	ErrExpenseNotFound = errors.New("expense not found")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidInvite is returned when an invite code is unknown.
	ErrInvalidInvite = errors.New("invite code not found")
	// ErrExpiredInvite is returned when an invite code is past its expiry.
	ErrExpiredInvite = errors.New("invite expired")
	// ErrInactiveInvite is returned when an invite code has been deactivated.
	ErrInactiveInvite = errors.New("invite inactive")
	// ErrMissingFxRate is returned when a non-base-currency expense lacks a positive fx rate.
	ErrMissingFxRate = errors.New("fx_rate_to_base is required for non-base currencies")
	// ErrInvalidPayer is returned when paid_by is not a trip member.
	ErrInvalidPayer = errors.New("payer must be a trip member")
	// ErrInvalidAmount is returned when an amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInvalidCurrency is returned when a currency code is malformed.
	ErrInvalidCurrency = errors.New("currency must be a three-letter ISO code")
	// ErrInvalidSplit is returned when split data fails validation.
	ErrInvalidSplit = errors.New("invalid split")
	// ErrTripArchived is returned when expenses are mutated on an archived trip.
	ErrTripArchived = errors.New("trip is archived")
	// ErrCannotRemoveOwner is returned when removing the trip owner's membership.
	ErrCannotRemoveOwner = errors.New("cannot remove trip owner")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrUnauthenticated:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHENTICATED")
	case ErrNotTripMember:
		return NewHTTPError(http.StatusForbidden, err.Error(), "NOT_TRIP_MEMBER")
	case ErrOwnerRequired:
		return NewHTTPError(http.StatusForbidden, err.Error(), "OWNER_REQUIRED")
	case ErrNotExpenseCreator:
		return NewHTTPError(http.StatusForbidden, err.Error(), "NOT_EXPENSE_CREATOR")
	case ErrTripNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "TRIP_NOT_FOUND")
	case ErrExpenseNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "EXPENSE_NOT_FOUND")
	case ErrUserNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case ErrInvalidInvite:
		return NewHTTPError(http.StatusNotFound, err.Error(), "INVALID_INVITE")
	case ErrExpiredInvite:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EXPIRED_INVITE")
	case ErrInactiveInvite:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INACTIVE_INVITE")
	case ErrMissingFxRate:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "MISSING_FX_RATE")
	case ErrInvalidPayer:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_PAYER")
	case ErrInvalidAmount:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_AMOUNT")
	case ErrInvalidCurrency:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_CURRENCY")
	case ErrInvalidSplit:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_SPLIT")
	case ErrTripArchived:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "TRIP_ARCHIVED")
	case ErrCannotRemoveOwner:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "CANNOT_REMOVE_OWNER")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
