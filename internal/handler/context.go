package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"tripwallet/internal/auth"
	"tripwallet/internal/errors"
)

// callerID extracts the authenticated user's ID from the *auth.Claims placed
// in the context by the JWT middleware.
func callerID(c echo.Context) (uuid.UUID, error) {
	claims, ok := c.Get("user").(*auth.Claims)
	if !ok || claims.UserID == uuid.Nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: errors.ErrUnauthenticated.Error(),
			Code:  "UNAUTHENTICATED",
		})
	}
	return claims.UserID, nil
}

// pathUUID parses a UUID path parameter.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid " + name,
			Code:  "INVALID_UUID",
		})
	}
	return id, nil
}

// domainError maps a service error onto an echo HTTP error.
func domainError(err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
