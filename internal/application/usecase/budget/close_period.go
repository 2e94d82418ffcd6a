package budget

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budget-tracker/engine/internal/application/adapter"
	"github.com/budget-tracker/engine/internal/domain/entity"
)

// ClosePeriodUseCase closes a budget period into the rollover ledger. Closure
// is lazy and idempotent: it can run at backfill time, at recalculation time
// or redundantly, and converges to the same ledger state.
type ClosePeriodUseCase struct {
	historyRepo adapter.BudgetHistoryRepository
	aggregator  *SpendAggregator
}

// NewClosePeriodUseCase creates a new ClosePeriodUseCase instance.
func NewClosePeriodUseCase(
	historyRepo adapter.BudgetHistoryRepository,
	aggregator *SpendAggregator,
) *ClosePeriodUseCase {
	return &ClosePeriodUseCase{
		historyRepo: historyRepo,
		aggregator:  aggregator,
	}
}

// ClosePeriodResult reports the signed closing delta of the period: the carry
// for the successor period.
type ClosePeriodResult struct {
	Spent     decimal.Decimal
	Remaining decimal.Decimal
	Recorded  bool
}

// Execute computes the closing delta of the budget and records it in the
// ledger. remaining = amount + opening carry - spent, unclamped: a deficit
// carries negative. The ledger entry is only written once the period has
// actually ended; computing the delta for an in-flight period is still valid
// (backfill needs it) but leaves no record. A budget without rollover closes
// to nothing.
func (uc *ClosePeriodUseCase) Execute(ctx context.Context, budget *entity.Budget, now time.Time) (*ClosePeriodResult, error) {
	if !budget.RolloverEnabled {
		return &ClosePeriodResult{Spent: decimal.Zero, Remaining: decimal.Zero}, nil
	}

	spent, err := uc.aggregator.SpentAmount(ctx, budget)
	if err != nil {
		return nil, err
	}

	remaining := budget.Amount.Add(budget.RolloverAmount).Sub(spent)

	result := &ClosePeriodResult{
		Spent:     spent,
		Remaining: remaining,
	}

	if !budget.HasEnded(now) {
		return result, nil
	}

	period, err := entityPeriodLabel(budget)
	if err != nil {
		return nil, err
	}

	history := entity.NewBudgetHistory(
		budget.ID,
		period,
		remaining,
		budget.Amount,
		spent,
		budget.RolloverAmount,
	)

	if err := uc.historyRepo.Upsert(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to record rollover history for budget %s: %w", budget.ID, err)
	}
	result.Recorded = true

	slog.Debug("Recorded period closure",
		"budgetID", budget.ID,
		"period", period,
		"spent", spent,
		"remaining", remaining,
		"type", history.Type,
	)

	return result, nil
}

// entityPeriodLabel derives the "YYYY-MM" ledger label from the budget's end
// date.
func entityPeriodLabel(budget *entity.Budget) (string, error) {
	if budget.EndDate.IsZero() {
		return "", fmt.Errorf("budget %s has no end date", budget.ID)
	}
	return budget.EndDate.Format("2006-01"), nil
}
