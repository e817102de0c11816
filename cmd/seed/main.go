package main

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"moneytrack/internal/config"
	"moneytrack/internal/db"
	"moneytrack/internal/model"
	"moneytrack/internal/repository"
)

const (
	demoEmail    = "demo@moneytrack.local"
	demoPassword = "qwerty1"
	demoName     = "Demo User"
)

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Category{}, &model.Record{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	users := repository.NewUserRepository(gormDB)
	categories := repository.NewCategoryRepository(gormDB)
	records := repository.NewRecordRepository(gormDB)

	user, err := seedUser(ctx, users)
	if err != nil {
		log.Fatalf("Failed to seed user: %v", err)
	}
	log.Printf("Demo user ready: %s (id=%d)", user.Email, user.ID)

	seeded, err := seedCategories(ctx, categories, records, user.ID)
	if err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}
	log.Printf("Seed completed: %d categories created", seeded)
}

func seedUser(ctx context.Context, users repository.UserRepository) (*model.User, error) {
	existing, err := users.FindByEmail(ctx, demoEmail)
	if err == nil {
		return existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 10)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Email:        demoEmail,
		PasswordHash: string(hashed),
		Name:         demoName,
		Bill:         model.DefaultBill,
		Locale:       model.DefaultLocale,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func seedCategories(ctx context.Context, categories repository.CategoryRepository, records repository.RecordRepository, userID uint) (int, error) {
	demo := []struct {
		title   string
		limit   int64
		records []struct {
			description string
			amount      int64
			recordType  model.RecordType
		}
	}{
		{
			title: "Groceries", limit: 5000,
			records: []struct {
				description string
				amount      int64
				recordType  model.RecordType
			}{
				{"Weekly shopping", 1200, model.RecordTypeOutcome},
				{"Farmers market", 350, model.RecordTypeOutcome},
			},
		},
		{
			title: "Salary", limit: 0,
			records: []struct {
				description string
				amount      int64
				recordType  model.RecordType
			}{
				{"Monthly salary", 50000, model.RecordTypeIncome},
			},
		},
		{
			title: "Transport", limit: 2000,
			records: nil,
		},
	}

	created := 0
	for _, d := range demo {
		taken, err := categories.TitleTaken(ctx, userID, d.title, 0)
		if err != nil {
			return created, err
		}
		if taken {
			log.Printf("Category %q already exists, skipping", d.title)
			continue
		}

		category := &model.Category{
			Title:  d.title,
			Limit:  decimal.NewFromInt(d.limit),
			UserID: userID,
		}
		if err := categories.Create(ctx, category); err != nil {
			return created, err
		}
		created++

		for _, r := range d.records {
			record := &model.Record{
				Description: r.description,
				Amount:      decimal.NewFromInt(r.amount),
				Date:        time.Now(),
				Type:        r.recordType,
				CategoryID:  category.ID,
				UserID:      userID,
			}
			if err := records.Create(ctx, record); err != nil {
				return created, err
			}
		}
	}
	return created, nil
}
