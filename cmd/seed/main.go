package main

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tripwallet/internal/config"
	"tripwallet/internal/currency"
	"tripwallet/internal/db"
	"tripwallet/internal/model"
	"tripwallet/internal/repository"
)

const seedPassword = "password123"

type seedUser struct {
	Email       string
	DisplayName string
}

var seedUsers = []seedUser{
	{Email: "alice@example.com", DisplayName: "Alice"},
	{Email: "bob@example.com", DisplayName: "Bob"},
	{Email: "carol@example.com", DisplayName: "Carol"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Trip{},
		&model.Membership{},
		&model.Invite{},
		&model.Expense{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	tripRepo := repository.NewTripRepository(gormDB)
	memberRepo := repository.NewMembershipRepository(gormDB)
	expenseRepo := repository.NewExpenseRepository(gormDB)

	users, created, err := ensureUsers(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	log.Printf("Users ready: %d (created %d)", len(users), created)

	trip, err := ensureTrip(ctx, tripRepo, users[0])
	if err != nil {
		log.Fatalf("Failed to seed trip: %v", err)
	}
	log.Printf("Trip ready: %s (%s)", trip.Name, trip.ID)

	joined, err := ensureMemberships(ctx, memberRepo, trip, users[1:])
	if err != nil {
		log.Fatalf("Failed to seed memberships: %v", err)
	}
	log.Printf("Memberships joined: %d", joined)

	recorded, err := ensureExpenses(ctx, expenseRepo, trip, users)
	if err != nil {
		log.Fatalf("Failed to seed expenses: %v", err)
	}
	log.Printf("Expenses recorded: %d", recorded)

	log.Println("Seed completed successfully!")
}

// ensureUsers creates the demo users, skipping any that already exist.
func ensureUsers(ctx context.Context, repo repository.UserRepository) ([]*model.User, int, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, 0, err
	}

	users := make([]*model.User, 0, len(seedUsers))
	created := 0
	for _, su := range seedUsers {
		existing, err := repo.FindByEmail(ctx, su.Email)
		if err == nil {
			users = append(users, existing)
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return nil, created, err
		}

		user := &model.User{
			Email:        su.Email,
			PasswordHash: string(hash),
			DisplayName:  su.DisplayName,
		}
		if err := repo.Create(ctx, user); err != nil {
			return nil, created, err
		}
		users = append(users, user)
		created++
	}
	return users, created, nil
}

// ensureTrip creates the demo trip with the first user as owner. The trip is
// keyed by name; rerunning the seed reuses an existing trip.
func ensureTrip(ctx context.Context, repo repository.TripRepository, owner *model.User) (*model.Trip, error) {
	trips, err := repo.ListByUserID(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	for i := range trips {
		if trips[i].Name == "Lisbon 2026" {
			return &trips[i], nil
		}
	}

	start := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC)
	trip := &model.Trip{
		OwnerUserID:  owner.ID,
		Name:         "Lisbon 2026",
		BaseCurrency: "EUR",
		StartDate:    &start,
		EndDate:      &end,
		Status:       model.TripStatusActive,
	}
	if err := repo.CreateWithOwner(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// ensureMemberships joins the remaining users as plain members.
func ensureMemberships(ctx context.Context, repo repository.MembershipRepository, trip *model.Trip, users []*model.User) (int, error) {
	joined := 0
	for _, user := range users {
		if _, err := repo.Find(ctx, trip.ID, user.ID); err == nil {
			continue
		} else if err != gorm.ErrRecordNotFound {
			return joined, err
		}

		membership := &model.Membership{
			TripID:   trip.ID,
			UserID:   user.ID,
			Role:     model.MemberRoleMember,
			JoinedAt: time.Now().UTC(),
		}
		if err := repo.Create(ctx, membership); err != nil {
			return joined, err
		}
		joined++
	}
	return joined, nil
}

// ensureExpenses records a handful of demo expenses across payers and
// currencies. Only runs against an empty ledger.
func ensureExpenses(ctx context.Context, repo repository.ExpenseRepository, trip *model.Trip, users []*model.User) (int, error) {
	existing, err := repo.List(ctx, trip.ID, repository.ExpenseFilter{})
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	type demoExpense struct {
		payer    *model.User
		amount   string
		currency string
		fx       string
		category string
		note     string
		day      int
	}
	demos := []demoExpense{
		{payer: users[0], amount: "184.50", currency: "EUR", fx: "1", category: "lodging", note: "Airbnb night one", day: 0},
		{payer: users[1], amount: "62.80", currency: "EUR", fx: "1", category: "food", note: "Dinner at Time Out Market", day: 0},
		{payer: users[2], amount: "45", currency: "USD", fx: "0.92", category: "transport", note: "Airport transfer", day: 1},
		{payer: users[0], amount: "28.40", currency: "EUR", fx: "1", category: "food", note: "Pastel de nata run", day: 2},
		{payer: users[1], amount: "5400", currency: "JPY", fx: "0.0061", category: "misc", note: "Souvenirs from layover", day: 2},
	}

	recorded := 0
	for _, d := range demos {
		amount, err := decimal.NewFromString(d.amount)
		if err != nil {
			return recorded, err
		}
		fx, err := decimal.NewFromString(d.fx)
		if err != nil {
			return recorded, err
		}

		split := make(model.UUIDList, 0, len(users))
		for _, u := range users {
			split = append(split, u.ID)
		}

		now := time.Now().UTC()
		expense := &model.Expense{
			TripID:          trip.ID,
			CreatedByUserID: d.payer.ID,
			PaidByUserID:    d.payer.ID,
			Amount:          amount,
			Currency:        d.currency,
			FxRateToBase:    fx,
			AmountInBase:    currency.ConvertToBase(amount, fx, trip.BaseCurrency),
			Category:        d.category,
			Note:            d.note,
			SplitMode:       model.SplitModeEqual,
			SplitWithUsers:  split,
			ExpenseTime:     trip.StartDate.AddDate(0, 0, d.day),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := repo.Create(ctx, expense); err != nil {
			return recorded, err
		}
		recorded++
	}
	return recorded, nil
}
