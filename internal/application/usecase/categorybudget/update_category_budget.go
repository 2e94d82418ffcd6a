package categorybudget

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/engine/internal/application/adapter"
	budgetusecase "github.com/budget-tracker/engine/internal/application/usecase/budget"
	"github.com/budget-tracker/engine/internal/domain/entity"
	domainerror "github.com/budget-tracker/engine/internal/domain/error"
)

// UpdateCategoryBudgetInput represents the input for category budget updates.
type UpdateCategoryBudgetInput struct {
	CategoryBudgetID uuid.UUID
	Amount           decimal.Decimal
	Now              time.Time
}

// UpdateCategoryBudgetOutput represents the output of a category budget update.
type UpdateCategoryBudgetOutput struct {
	CategoryBudget *entity.CategoryBudget
}

// UpdateCategoryBudgetUseCase handles category budget amount changes.
type UpdateCategoryBudgetUseCase struct {
	categoryBudgetRepo adapter.CategoryBudgetRepository
	budgetRepo         adapter.BudgetRepository
	recalculate        *budgetusecase.RecalculateChainUseCase
}

// NewUpdateCategoryBudgetUseCase creates a new UpdateCategoryBudgetUseCase instance.
func NewUpdateCategoryBudgetUseCase(
	categoryBudgetRepo adapter.CategoryBudgetRepository,
	budgetRepo adapter.BudgetRepository,
	recalculate *budgetusecase.RecalculateChainUseCase,
) *UpdateCategoryBudgetUseCase {
	return &UpdateCategoryBudgetUseCase{
		categoryBudgetRepo: categoryBudgetRepo,
		budgetRepo:         budgetRepo,
		recalculate:        recalculate,
	}
}

// Execute changes one category budget's amount, re-validating the sibling sum
// against a fixed parent and resyncing an auto-calculated one.
func (uc *UpdateCategoryBudgetUseCase) Execute(ctx context.Context, input UpdateCategoryBudgetInput) (*UpdateCategoryBudgetOutput, error) {
	categoryBudget, err := uc.categoryBudgetRepo.FindByID(ctx, input.CategoryBudgetID)
	if err != nil {
		return nil, err
	}

	parent, err := uc.budgetRepo.FindByID(ctx, categoryBudget.BudgetID)
	if err != nil {
		return nil, err
	}

	if err := validateSiblingSum(ctx, uc.categoryBudgetRepo, parent, categoryBudget.ID, input.Amount); err != nil {
		return nil, err
	}

	categoryBudget.Amount = input.Amount
	categoryBudget.UpdatedAt = input.Now
	if err := uc.categoryBudgetRepo.Update(ctx, categoryBudget); err != nil {
		return nil, domainerror.NewCategoryBudgetError(
			domainerror.ErrCodeCategoryBudgetUpdateFailed,
			"failed to update category budget",
			err,
		)
	}

	if err := syncAutoCalculatedParent(ctx, uc.categoryBudgetRepo, uc.budgetRepo, uc.recalculate, parent, input.Now); err != nil {
		return nil, err
	}

	return &UpdateCategoryBudgetOutput{CategoryBudget: categoryBudget}, nil
}
