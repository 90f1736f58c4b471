package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"tripwallet/internal/auth"
	"tripwallet/internal/handler"
)

// JWTMiddleware authenticates requests carrying "Authorization: Bearer
// <token>" and stores the verified *auth.Claims under the "user" context key.
// Parsing goes through the project's JWTService so the claims type matches
// what the handlers extract.
func JWTMiddleware(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
	})
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	tripHandler *handler.TripHandler,
	inviteHandler *handler.InviteHandler,
	expenseHandler *handler.ExpenseHandler,
	analyticsHandler *handler.AnalyticsHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Secured routes (require JWT authentication)
	secured := api.Group("", JWTMiddleware(jwtService))

	secured.GET("/me", userHandler.Me)

	// Trip routes
	secured.POST("/trips", tripHandler.CreateTrip)
	secured.GET("/trips", tripHandler.ListTrips)
	secured.GET("/trips/:id", tripHandler.GetTrip)
	secured.POST("/trips/:id/archive", tripHandler.ArchiveTrip)
	secured.GET("/trips/:id/members", tripHandler.ListMembers)
	secured.DELETE("/trips/:id/members/:userID", tripHandler.RemoveMember)

	// Invite routes. Echo matches the static /trips/join ahead of /trips/:id.
	secured.POST("/trips/join", inviteHandler.Join)
	secured.POST("/trips/:id/invite", inviteHandler.Generate)
	secured.GET("/trips/:id/invite", inviteHandler.Current)
	secured.DELETE("/trips/:id/invite", inviteHandler.Deactivate)

	// Expense routes
	secured.POST("/trips/:id/expenses", expenseHandler.Create)
	secured.GET("/trips/:id/expenses", expenseHandler.List)
	secured.PATCH("/trips/:id/expenses/:expenseID", expenseHandler.Update)
	secured.DELETE("/trips/:id/expenses/:expenseID", expenseHandler.Delete)

	// Analytics routes
	secured.GET("/trips/:id/analytics/summary", analyticsHandler.Summary)
	secured.GET("/trips/:id/analytics/me", analyticsHandler.Personal)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
