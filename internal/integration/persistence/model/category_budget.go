package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/engine/internal/domain/entity"
)

// CategoryBudgetModel represents the category_budgets table in the database.
type CategoryBudgetModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BudgetID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_category_budgets_budget_category"`
	CategoryID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_category_budgets_budget_category"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Spent      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	CreatedAt  time.Time       `gorm:"not null"`
	UpdatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for the CategoryBudgetModel.
func (CategoryBudgetModel) TableName() string {
	return "category_budgets"
}

// ToEntity converts a CategoryBudgetModel to a domain CategoryBudget entity.
func (m *CategoryBudgetModel) ToEntity() *entity.CategoryBudget {
	return &entity.CategoryBudget{
		ID:         m.ID,
		BudgetID:   m.BudgetID,
		CategoryID: m.CategoryID,
		Amount:     m.Amount,
		Spent:      m.Spent,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// CategoryBudgetFromEntity creates a CategoryBudgetModel from a domain CategoryBudget entity.
func CategoryBudgetFromEntity(categoryBudget *entity.CategoryBudget) *CategoryBudgetModel {
	return &CategoryBudgetModel{
		ID:         categoryBudget.ID,
		BudgetID:   categoryBudget.BudgetID,
		CategoryID: categoryBudget.CategoryID,
		Amount:     categoryBudget.Amount,
		Spent:      categoryBudget.Spent,
		CreatedAt:  categoryBudget.CreatedAt,
		UpdatedAt:  categoryBudget.UpdatedAt,
	}
}
