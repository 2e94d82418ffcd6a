// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/engine/internal/domain/entity"
)

// BudgetRepository defines the interface for budget persistence operations.
type BudgetRepository interface {
	// Create creates a new budget row.
	Create(ctx context.Context, budget *entity.Budget) error

	// FindByID retrieves a budget by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Budget, error)

	// FindLatestInChain returns the most recent budget (by end date) of the
	// given (owner, account, category) chain, or ErrBudgetNotFound.
	FindLatestInChain(ctx context.Context, key entity.ChainKey) (*entity.Budget, error)

	// FindChainFrom returns every budget of the same chain as the given
	// budget whose start date is >= the budget's own, ordered ascending by
	// start date. The given budget is the first element. The chain is
	// fetched in one query so a forward walk never re-queries per hop.
	FindChainFrom(ctx context.Context, budget *entity.Budget) ([]*entity.Budget, error)

	// ExistsAtStart reports whether the chain already has a budget starting
	// on the given date. Used to keep backfill idempotent.
	ExistsAtStart(ctx context.Context, key entity.ChainKey, startDate time.Time) (bool, error)

	// UpdateRollover sets the opening carry of a budget using an optimistic
	// version check. Returns ErrBudgetVersionConflict when the row was
	// modified concurrently.
	UpdateRollover(ctx context.Context, id uuid.UUID, rollover decimal.Decimal, expectedVersion int) error

	// UpdateAmount sets the base amount of a budget (auto-calculated
	// category budget parents).
	UpdateAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error

	// ListChainKeys returns the distinct (owner, account, category) chains
	// that have at least one budget. This is the scheduler's work list.
	ListChainKeys(ctx context.Context) ([]entity.ChainKey, error)
}
