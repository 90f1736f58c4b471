package main

import (
	"log"
	"net/http"
	"os"

	_ "tripwallet/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"tripwallet/internal/access"
	"tripwallet/internal/auth"
	"tripwallet/internal/cache"
	"tripwallet/internal/config"
	"tripwallet/internal/db"
	"tripwallet/internal/handler"
	"tripwallet/internal/model"
	"tripwallet/internal/repository"
	"tripwallet/internal/router"
	"tripwallet/internal/service"
)

// @title TripWallet API
// @version 1.0
// @description Trip expense sharing API with multi-currency expenses, invite codes, and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Expense{},
			&model.Invite{},
			&model.Membership{},
			&model.Trip{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Trip{},
		&model.Membership{},
		&model.Invite{},
		&model.Expense{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	tripRepo := repository.NewTripRepository(gormDB)
	memberRepo := repository.NewMembershipRepository(gormDB)
	inviteRepo := repository.NewInviteRepository(gormDB)
	expenseRepo := repository.NewExpenseRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	gate := access.NewGate(memberRepo)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, cacheClient)
	tripService := service.NewTripService(gate, tripRepo, memberRepo, userRepo)
	inviteService := service.NewInviteService(gate, inviteRepo, memberRepo)
	expenseService := service.NewExpenseService(gate, tripRepo, memberRepo, expenseRepo)
	analyticsService := service.NewAnalyticsService(gate, expenseRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	tripHandler := handler.NewTripHandler(tripService)
	inviteHandler := handler.NewInviteHandler(inviteService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)

	// Register routes
	router.Register(
		e,
		jwtService,
		authHandler,
		userHandler,
		tripHandler,
		inviteHandler,
		expenseHandler,
		analyticsHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
