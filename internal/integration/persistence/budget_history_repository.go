package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/budget-tracker/engine/internal/application/adapter"
	"github.com/budget-tracker/engine/internal/domain/entity"
	"github.com/budget-tracker/engine/internal/integration/persistence/model"
)

// budgetHistoryRepository implements the adapter.BudgetHistoryRepository interface.
type budgetHistoryRepository struct {
	db *gorm.DB
}

// NewBudgetHistoryRepository creates a new budget history repository instance.
func NewBudgetHistoryRepository(db *gorm.DB) adapter.BudgetHistoryRepository {
	return &budgetHistoryRepository{
		db: db,
	}
}

// Upsert records a period closure, replacing any existing entry for the same
// (budget, period) pair.
func (r *budgetHistoryRepository) Upsert(ctx context.Context, history *entity.BudgetHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.BudgetHistoryModel
		err := tx.Where("budget_id = ? AND period = ?", history.BudgetID, history.Period).
			First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		historyModel := model.BudgetHistoryFromEntity(history)
		if err == nil {
			// Keep the original row identity so readers holding the id are
			// not invalidated by a recalculation.
			historyModel.ID = existing.ID
			historyModel.CreatedAt = existing.CreatedAt
			historyModel.UpdatedAt = time.Now().UTC()
			return tx.Save(historyModel).Error
		}
		return tx.Create(historyModel).Error
	})
}

// FindByBudget lists the ledger entries for a budget, newest first.
func (r *budgetHistoryRepository) FindByBudget(ctx context.Context, budgetID uuid.UUID) ([]*entity.BudgetHistory, error) {
	var historyModels []model.BudgetHistoryModel
	result := r.db.WithContext(ctx).
		Where("budget_id = ?", budgetID).
		Order("period DESC").
		Find(&historyModels)
	if result.Error != nil {
		return nil, result.Error
	}

	histories := make([]*entity.BudgetHistory, len(historyModels))
	for i, hm := range historyModels {
		histories[i] = hm.ToEntity()
	}
	return histories, nil
}
