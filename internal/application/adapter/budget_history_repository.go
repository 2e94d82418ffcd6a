package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/budget-tracker/engine/internal/domain/entity"
)

// BudgetHistoryRepository defines the interface for the rollover ledger.
type BudgetHistoryRepository interface {
	// Upsert records a period closure. An existing entry for the same
	// (budget, period label) is replaced; recalculation is a full rewrite,
	// never an incremental patch.
	Upsert(ctx context.Context, history *entity.BudgetHistory) error

	// FindByBudget lists the ledger entries for a budget, newest first.
	FindByBudget(ctx context.Context, budgetID uuid.UUID) ([]*entity.BudgetHistory, error)
}
