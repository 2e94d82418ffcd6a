package adapter

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/engine/internal/domain/entity"
)

// CategoryBudgetRepository defines the interface for category sub-budget
// persistence operations.
type CategoryBudgetRepository interface {
	// Create creates a new category budget.
	Create(ctx context.Context, categoryBudget *entity.CategoryBudget) error

	// FindByID retrieves a category budget by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CategoryBudget, error)

	// FindByBudget lists the category budgets of a parent budget.
	FindByBudget(ctx context.Context, budgetID uuid.UUID) ([]*entity.CategoryBudget, error)

	// FindByBudgetAndCategory retrieves the sub-budget for one category of a
	// parent budget, or ErrCategoryBudgetNotFound.
	FindByBudgetAndCategory(ctx context.Context, budgetID, categoryID uuid.UUID) (*entity.CategoryBudget, error)

	// SumAmountByBudget returns the sum of sibling amounts for a parent budget.
	SumAmountByBudget(ctx context.Context, budgetID uuid.UUID) (decimal.Decimal, error)

	// Update persists amount changes of a category budget.
	Update(ctx context.Context, categoryBudget *entity.CategoryBudget) error

	// Delete removes a category budget.
	Delete(ctx context.Context, id uuid.UUID) error
}
