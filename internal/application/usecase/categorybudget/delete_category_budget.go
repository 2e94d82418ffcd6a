package categorybudget

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/budget-tracker/engine/internal/application/adapter"
	budgetusecase "github.com/budget-tracker/engine/internal/application/usecase/budget"
	domainerror "github.com/budget-tracker/engine/internal/domain/error"
)

// DeleteCategoryBudgetInput identifies the category budget to remove.
type DeleteCategoryBudgetInput struct {
	CategoryBudgetID uuid.UUID
	Now              time.Time
}

// DeleteCategoryBudgetUseCase handles category budget removal.
type DeleteCategoryBudgetUseCase struct {
	categoryBudgetRepo adapter.CategoryBudgetRepository
	budgetRepo         adapter.BudgetRepository
	recalculate        *budgetusecase.RecalculateChainUseCase
}

// NewDeleteCategoryBudgetUseCase creates a new DeleteCategoryBudgetUseCase instance.
func NewDeleteCategoryBudgetUseCase(
	categoryBudgetRepo adapter.CategoryBudgetRepository,
	budgetRepo adapter.BudgetRepository,
	recalculate *budgetusecase.RecalculateChainUseCase,
) *DeleteCategoryBudgetUseCase {
	return &DeleteCategoryBudgetUseCase{
		categoryBudgetRepo: categoryBudgetRepo,
		budgetRepo:         budgetRepo,
		recalculate:        recalculate,
	}
}

// Execute removes the category budget and resyncs an auto-calculated parent.
func (uc *DeleteCategoryBudgetUseCase) Execute(ctx context.Context, input DeleteCategoryBudgetInput) error {
	categoryBudget, err := uc.categoryBudgetRepo.FindByID(ctx, input.CategoryBudgetID)
	if err != nil {
		return err
	}

	parent, err := uc.budgetRepo.FindByID(ctx, categoryBudget.BudgetID)
	if err != nil {
		return err
	}

	if err := uc.categoryBudgetRepo.Delete(ctx, categoryBudget.ID); err != nil {
		return domainerror.NewCategoryBudgetError(
			domainerror.ErrCodeCategoryBudgetDeleteFailed,
			"failed to delete category budget",
			err,
		)
	}

	return syncAutoCalculatedParent(ctx, uc.categoryBudgetRepo, uc.budgetRepo, uc.recalculate, parent, input.Now)
}
