package budget

import (
	"context"

	"github.com/google/uuid"

	"github.com/budget-tracker/engine/internal/application/adapter"
	"github.com/budget-tracker/engine/internal/domain/entity"
)

// GetBudgetUseCase reads one budget enriched with its computed spend figures.
type GetBudgetUseCase struct {
	budgetRepo adapter.BudgetRepository
	aggregator *SpendAggregator
}

// NewGetBudgetUseCase creates a new GetBudgetUseCase instance.
func NewGetBudgetUseCase(
	budgetRepo adapter.BudgetRepository,
	aggregator *SpendAggregator,
) *GetBudgetUseCase {
	return &GetBudgetUseCase{
		budgetRepo: budgetRepo,
		aggregator: aggregator,
	}
}

// GetBudgetInput identifies the budget to read.
type GetBudgetInput struct {
	BudgetID uuid.UUID
}

// GetBudgetOutput carries the budget with spent, total available and
// remaining already rolled up.
type GetBudgetOutput struct {
	Status *entity.BudgetStatus
}

// Execute loads the budget and computes spent, total available
// (amount + opening carry) and remaining.
func (uc *GetBudgetUseCase) Execute(ctx context.Context, input GetBudgetInput) (*GetBudgetOutput, error) {
	budget, err := uc.budgetRepo.FindByID(ctx, input.BudgetID)
	if err != nil {
		return nil, err
	}

	spent, err := uc.aggregator.SpentAmount(ctx, budget)
	if err != nil {
		return nil, err
	}

	total := budget.TotalAvailable()
	return &GetBudgetOutput{
		Status: &entity.BudgetStatus{
			Budget:         budget,
			Spent:          spent,
			TotalAvailable: total,
			Remaining:      total.Sub(spent),
		},
	}, nil
}
