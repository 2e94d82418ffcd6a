package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budget-tracker/engine/internal/application/adapter"
	"github.com/budget-tracker/engine/internal/domain/entity"
	domainerror "github.com/budget-tracker/engine/internal/domain/error"
	"github.com/budget-tracker/engine/internal/domain/valueobject"
)

// CreateMissingPeriodsUseCase backfills budget rows for every period between
// a chain's last known budget and now. The most recent existing budget acts
// as the template: amount, refresh day and rollover configuration are
// inherited. Backfill is purely additive and idempotent; previously created
// periods are never mutated.
type CreateMissingPeriodsUseCase struct {
	budgetRepo adapter.BudgetRepository
	closer     *ClosePeriodUseCase
}

// NewCreateMissingPeriodsUseCase creates a new CreateMissingPeriodsUseCase instance.
func NewCreateMissingPeriodsUseCase(
	budgetRepo adapter.BudgetRepository,
	closer *ClosePeriodUseCase,
) *CreateMissingPeriodsUseCase {
	return &CreateMissingPeriodsUseCase{
		budgetRepo: budgetRepo,
		closer:     closer,
	}
}

// CreateMissingPeriodsInput identifies the chain to backfill.
type CreateMissingPeriodsInput struct {
	Key entity.ChainKey
	Now time.Time
}

// CreateMissingPeriodsOutput reports the budgets created by one backfill run.
type CreateMissingPeriodsOutput struct {
	Created []*entity.Budget
}

// Execute backfills the chain. For each missing period in ascending order the
// predecessor's closing remaining is computed on the fly (closure is lazy:
// the predecessor may never have been explicitly closed) and recorded as the
// successor's opening carry. A chain whose owner never had a budget is left
// alone: backfill maintains existing chains, it does not bootstrap new ones.
func (uc *CreateMissingPeriodsUseCase) Execute(ctx context.Context, input CreateMissingPeriodsInput) (*CreateMissingPeriodsOutput, error) {
	template, err := uc.budgetRepo.FindLatestInChain(ctx, input.Key)
	if err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return &CreateMissingPeriodsOutput{}, nil
		}
		return nil, fmt.Errorf("failed to find latest budget for chain: %w", err)
	}

	periods, err := valueobject.MissingPeriods(template.EndDate, input.Now, template.RefreshDay)
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return &CreateMissingPeriodsOutput{}, nil
	}

	slog.Info("Backfilling budget periods",
		"ownerID", input.Key.OwnerID,
		"accountID", input.Key.AccountID,
		"periods", len(periods),
		"refreshDay", template.RefreshDay,
	)

	output := &CreateMissingPeriodsOutput{}
	previous := template

	for _, period := range periods {
		exists, err := uc.budgetRepo.ExistsAtStart(ctx, input.Key, period.Start)
		if err != nil {
			return output, fmt.Errorf("failed to check existing period %s: %w", period.Key(), err)
		}
		if exists {
			// Another run already created this period; re-derive the chain
			// head so the next opening carry is computed from the right row.
			previous, err = uc.budgetRepo.FindLatestInChain(ctx, input.Key)
			if err != nil {
				return output, fmt.Errorf("failed to re-read chain after skip: %w", err)
			}
			continue
		}

		opening := decimal.Zero
		if template.RolloverEnabled {
			closed, err := uc.closer.Execute(ctx, previous, input.Now)
			if err != nil {
				return output, fmt.Errorf("failed to close period for budget %s: %w", previous.ID, err)
			}
			opening = closed.Remaining
		}

		created := entity.NewBudget(
			template.OwnerID,
			template.AccountID,
			template.CategoryID,
			template.Name,
			template.Amount,
			template.RefreshDay,
			period.Start,
			period.End,
			template.RolloverEnabled,
		)
		created.RolloverAmount = opening
		created.EnableCategoryBudget = template.EnableCategoryBudget
		created.IsAutoCalculated = template.IsAutoCalculated

		if err := uc.budgetRepo.Create(ctx, created); err != nil {
			return output, fmt.Errorf("failed to create budget for period %s: %w", period.Key(), err)
		}

		slog.Debug("Created budget period",
			"budgetID", created.ID,
			"period", period.Key(),
			"openingRollover", opening,
		)

		output.Created = append(output.Created, created)
		previous = created
	}

	return output, nil
}
