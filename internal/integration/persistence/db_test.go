package persistence

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/budget-tracker/engine/internal/domain/entity"
	"github.com/budget-tracker/engine/internal/integration/persistence/model"
)

// testDB opens a fresh in-memory sqlite database with the full schema.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.BudgetModel{},
		&model.BudgetHistoryModel{},
		&model.CategoryBudgetModel{},
		&model.TransactionModel{},
		&model.BudgetAllocationModel{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func seedBudget(t *testing.T, db *gorm.DB, ownerID, accountID uuid.UUID, start, end time.Time, amount string) *entity.Budget {
	t.Helper()
	b := entity.NewBudget(ownerID, accountID, nil, "Groceries", dec(amount), start.Day(), start, end, true)
	if err := db.Create(model.BudgetFromEntity(b)).Error; err != nil {
		t.Fatalf("failed to seed budget: %v", err)
	}
	return b
}
