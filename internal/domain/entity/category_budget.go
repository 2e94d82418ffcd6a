package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryBudget is a sub-allocation of a Budget to one category. When the
// parent budget is auto-calculated its amount is kept equal to the sum of its
// category budgets; otherwise the sum must not exceed the parent's fixed
// amount.
type CategoryBudget struct {
	ID         uuid.UUID
	BudgetID   uuid.UUID
	CategoryID uuid.UUID
	Amount     decimal.Decimal
	// Spent is denormalized and recomputed, never authoritative.
	Spent     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCategoryBudget creates a new CategoryBudget entity.
func NewCategoryBudget(budgetID, categoryID uuid.UUID, amount decimal.Decimal) *CategoryBudget {
	now := time.Now().UTC()
	return &CategoryBudget{
		ID:         uuid.New(),
		BudgetID:   budgetID,
		CategoryID: categoryID,
		Amount:     amount,
		Spent:      decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
