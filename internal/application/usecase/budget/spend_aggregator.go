// Package budget contains the budget cycle use cases: spend aggregation,
// period closure, backfill and rollover chain recalculation.
package budget

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/budget-tracker/engine/internal/application/adapter"
	"github.com/budget-tracker/engine/internal/domain/entity"
)

// SpendAggregator computes the total spent against a budget within its
// period. Two disjoint paths must both be included: expenses directly
// assigned to the budget (full amount) and split expenses carrying an
// allocation entry for it (that entry's amount only). The paths are mutually
// exclusive per transaction, so merging by sum cannot double count, but
// dropping the split path silently undercounts shared expenses.
type SpendAggregator struct {
	transactionRepo adapter.TransactionRepository
}

// NewSpendAggregator creates a new SpendAggregator instance.
func NewSpendAggregator(transactionRepo adapter.TransactionRepository) *SpendAggregator {
	return &SpendAggregator{
		transactionRepo: transactionRepo,
	}
}

// SpentAmount returns the total expense amount charged to the budget during
// its own period. When the budget is category-scoped, only matching
// transactions are counted.
func (a *SpendAggregator) SpentAmount(ctx context.Context, budget *entity.Budget) (decimal.Decimal, error) {
	query := adapter.ExpenseQuery{
		BudgetID:   budget.ID,
		StartDate:  budget.StartDate,
		EndDate:    budget.EndDate,
		CategoryID: budget.CategoryID,
	}

	direct, err := a.transactionRepo.SumDirectExpenses(ctx, query)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum direct expenses for budget %s: %w", budget.ID, err)
	}

	splits, err := a.transactionRepo.FindSplitExpenses(ctx, query)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query split expenses for budget %s: %w", budget.ID, err)
	}

	total := direct
	for _, txn := range splits {
		total = total.Add(txn.AllocationFor(budget.ID))
	}

	return total, nil
}
