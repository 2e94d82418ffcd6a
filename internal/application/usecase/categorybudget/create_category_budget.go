// Package categorybudget contains category sub-budget use cases.
package categorybudget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/engine/internal/application/adapter"
	budgetusecase "github.com/budget-tracker/engine/internal/application/usecase/budget"
	"github.com/budget-tracker/engine/internal/domain/entity"
	domainerror "github.com/budget-tracker/engine/internal/domain/error"
)

// CreateCategoryBudgetInput represents the input for category budget creation.
type CreateCategoryBudgetInput struct {
	BudgetID   uuid.UUID
	CategoryID uuid.UUID
	Amount     decimal.Decimal
	Now        time.Time
}

// CreateCategoryBudgetOutput represents the output of category budget creation.
type CreateCategoryBudgetOutput struct {
	CategoryBudget *entity.CategoryBudget
}

// CreateCategoryBudgetUseCase handles category budget creation.
type CreateCategoryBudgetUseCase struct {
	categoryBudgetRepo adapter.CategoryBudgetRepository
	budgetRepo         adapter.BudgetRepository
	recalculate        *budgetusecase.RecalculateChainUseCase
}

// NewCreateCategoryBudgetUseCase creates a new CreateCategoryBudgetUseCase instance.
func NewCreateCategoryBudgetUseCase(
	categoryBudgetRepo adapter.CategoryBudgetRepository,
	budgetRepo adapter.BudgetRepository,
	recalculate *budgetusecase.RecalculateChainUseCase,
) *CreateCategoryBudgetUseCase {
	return &CreateCategoryBudgetUseCase{
		categoryBudgetRepo: categoryBudgetRepo,
		budgetRepo:         budgetRepo,
		recalculate:        recalculate,
	}
}

// Execute creates the category budget. With a fixed (non auto-calculated)
// parent the sibling sum must stay within the parent's amount; validation
// failures prevent any write. With an auto-calculated parent the parent
// amount is recomputed as the sibling sum afterwards.
func (uc *CreateCategoryBudgetUseCase) Execute(ctx context.Context, input CreateCategoryBudgetInput) (*CreateCategoryBudgetOutput, error) {
	parent, err := uc.budgetRepo.FindByID(ctx, input.BudgetID)
	if err != nil {
		return nil, err
	}

	if !parent.EnableCategoryBudget {
		return nil, domainerror.NewCategoryBudgetError(
			domainerror.ErrCodeCategoryBudgetDisabled,
			"category budgets are not enabled for this budget",
			domainerror.ErrCategoryBudgetDisabled,
		)
	}

	// A category-scoped parent only subdivides into its own category.
	if parent.CategoryID != nil && *parent.CategoryID != input.CategoryID {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeCategoryMismatch,
			"category does not match the budget's category scope",
			domainerror.ErrCategoryMismatch,
		)
	}

	existing, err := uc.categoryBudgetRepo.FindByBudgetAndCategory(ctx, input.BudgetID, input.CategoryID)
	if err != nil && !errors.Is(err, domainerror.ErrCategoryBudgetNotFound) {
		return nil, fmt.Errorf("failed to check existing category budget: %w", err)
	}
	if existing != nil {
		return nil, domainerror.NewCategoryBudgetError(
			domainerror.ErrCodeCategoryBudgetExists,
			"category already has a budget for this period",
			domainerror.ErrCategoryBudgetExists,
		)
	}

	if err := validateSiblingSum(ctx, uc.categoryBudgetRepo, parent, uuid.Nil, input.Amount); err != nil {
		return nil, err
	}

	categoryBudget := entity.NewCategoryBudget(input.BudgetID, input.CategoryID, input.Amount)
	if err := uc.categoryBudgetRepo.Create(ctx, categoryBudget); err != nil {
		return nil, fmt.Errorf("failed to create category budget: %w", err)
	}

	if err := syncAutoCalculatedParent(ctx, uc.categoryBudgetRepo, uc.budgetRepo, uc.recalculate, parent, input.Now); err != nil {
		return nil, err
	}

	return &CreateCategoryBudgetOutput{CategoryBudget: categoryBudget}, nil
}

// validateSiblingSum rejects writes that would push the sibling sum past a
// fixed parent's amount. excludeID carves the updated row out of the current
// sum; uuid.Nil excludes nothing.
func validateSiblingSum(
	ctx context.Context,
	repo adapter.CategoryBudgetRepository,
	parent *entity.Budget,
	excludeID uuid.UUID,
	newAmount decimal.Decimal,
) error {
	if parent.IsAutoCalculated || !parent.Amount.IsPositive() {
		return nil
	}

	siblings, err := repo.FindByBudget(ctx, parent.ID)
	if err != nil {
		return fmt.Errorf("failed to load sibling category budgets: %w", err)
	}

	total := newAmount
	for _, sibling := range siblings {
		if sibling.ID == excludeID {
			continue
		}
		total = total.Add(sibling.Amount)
	}

	if total.GreaterThan(parent.Amount) {
		return domainerror.NewCategoryBudgetError(
			domainerror.ErrCodeAllocationExceedsTotal,
			fmt.Sprintf("category budget total %s exceeds parent amount %s", total, parent.Amount),
			domainerror.ErrAllocationExceedsTotal,
		)
	}
	return nil
}

// syncAutoCalculatedParent recomputes an auto-calculated parent's amount as
// the sibling sum. Changing a closed, rolling-over period's amount shifts its
// remaining, so the rollover chain is re-propagated from that parent.
func syncAutoCalculatedParent(
	ctx context.Context,
	repo adapter.CategoryBudgetRepository,
	budgetRepo adapter.BudgetRepository,
	recalculate *budgetusecase.RecalculateChainUseCase,
	parent *entity.Budget,
	now time.Time,
) error {
	if !parent.IsAutoCalculated {
		return nil
	}

	total, err := repo.SumAmountByBudget(ctx, parent.ID)
	if err != nil {
		return fmt.Errorf("failed to sum category budgets: %w", err)
	}

	if err := budgetRepo.UpdateAmount(ctx, parent.ID, total); err != nil {
		return fmt.Errorf("failed to update auto-calculated budget amount: %w", err)
	}

	if parent.RolloverEnabled && parent.HasEnded(now) {
		_, err := recalculate.Execute(ctx, budgetusecase.RecalculateChainInput{
			StartBudgetID: parent.ID,
			Propagate:     true,
			Now:           now,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
