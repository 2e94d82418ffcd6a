package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/engine/internal/domain/entity"
)

// ExpenseQuery narrows the transactions considered for spend aggregation.
// CategoryID is applied when the budget is category-scoped.
type ExpenseQuery struct {
	BudgetID   uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	CategoryID *uuid.UUID
}

// TransactionRepository defines the read-only transaction queries the budget
// engine consumes. Spend aggregation deliberately uses two separate queries:
// directly assigned expenses and split expenses carrying an allocation entry
// for the budget.
type TransactionRepository interface {
	// SumDirectExpenses sums EXPENSE transactions whose direct budget
	// reference equals the query's budget, dated within the period.
	SumDirectExpenses(ctx context.Context, query ExpenseQuery) (decimal.Decimal, error)

	// FindSplitExpenses returns EXPENSE transactions dated within the period
	// that are split and whose allocation list contains an entry for the
	// query's budget, with allocations loaded.
	FindSplitExpenses(ctx context.Context, query ExpenseQuery) ([]*entity.Transaction, error)
}
