// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/budget-tracker/engine/internal/application/adapter"
	"github.com/budget-tracker/engine/internal/domain/entity"
	domainerror "github.com/budget-tracker/engine/internal/domain/error"
	"github.com/budget-tracker/engine/internal/integration/persistence/model"
)

// budgetRepository implements the adapter.BudgetRepository interface.
type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository instance.
func NewBudgetRepository(db *gorm.DB) adapter.BudgetRepository {
	return &budgetRepository{
		db: db,
	}
}

// chainScope narrows a query to one (owner, account, category) chain. A nil
// category means the account-wide chain, matched with IS NULL.
func chainScope(query *gorm.DB, key entity.ChainKey) *gorm.DB {
	query = query.Where("owner_id = ? AND account_id = ?", key.OwnerID, key.AccountID)
	if key.CategoryID == nil {
		return query.Where("category_id IS NULL")
	}
	return query.Where("category_id = ?", *key.CategoryID)
}

// Create creates a new budget in the database.
func (r *budgetRepository) Create(ctx context.Context, budget *entity.Budget) error {
	budgetModel := model.BudgetFromEntity(budget)
	result := r.db.WithContext(ctx).Create(budgetModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a budget by its ID.
func (r *budgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Budget, error) {
	var budgetModel model.BudgetModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&budgetModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrBudgetNotFound
		}
		return nil, result.Error
	}
	return budgetModel.ToEntity(), nil
}

// FindLatestInChain returns the most recent budget of the chain by end date.
func (r *budgetRepository) FindLatestInChain(ctx context.Context, key entity.ChainKey) (*entity.Budget, error) {
	var budgetModel model.BudgetModel
	result := chainScope(r.db.WithContext(ctx), key).
		Order("end_date DESC").
		First(&budgetModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrBudgetNotFound
		}
		return nil, result.Error
	}
	return budgetModel.ToEntity(), nil
}

// FindChainFrom returns the budget's chain from its own period forward,
// ascending by start date, in one query.
func (r *budgetRepository) FindChainFrom(ctx context.Context, budget *entity.Budget) ([]*entity.Budget, error) {
	var budgetModels []model.BudgetModel
	result := chainScope(r.db.WithContext(ctx), entity.ChainKeyOf(budget)).
		Where("start_date >= ?", budget.StartDate).
		Order("start_date ASC").
		Find(&budgetModels)
	if result.Error != nil {
		return nil, result.Error
	}

	budgets := make([]*entity.Budget, len(budgetModels))
	for i, bm := range budgetModels {
		budgets[i] = bm.ToEntity()
	}
	return budgets, nil
}

// ExistsAtStart checks whether the chain already has a budget starting on the
// given date.
func (r *budgetRepository) ExistsAtStart(ctx context.Context, key entity.ChainKey, startDate time.Time) (bool, error) {
	var count int64
	result := chainScope(r.db.WithContext(ctx).Model(&model.BudgetModel{}), key).
		Where("start_date = ?", startDate).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// UpdateRollover sets the opening carry of a budget, guarded by an optimistic
// version check so concurrent chain walks cannot silently overwrite each
// other.
func (r *budgetRepository) UpdateRollover(ctx context.Context, id uuid.UUID, rollover decimal.Decimal, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&model.BudgetModel{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]interface{}{
			"rollover_amount": rollover,
			"version":         expectedVersion + 1,
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrBudgetVersionConflict
	}
	return nil
}

// UpdateAmount sets the base amount of a budget.
func (r *budgetRepository) UpdateAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&model.BudgetModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"amount":     amount,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrBudgetNotFound
	}
	return nil
}

// ListChainKeys returns the distinct chains that have at least one budget.
func (r *budgetRepository) ListChainKeys(ctx context.Context) ([]entity.ChainKey, error) {
	var rows []struct {
		OwnerID    uuid.UUID
		AccountID  uuid.UUID
		CategoryID *uuid.UUID
	}
	result := r.db.WithContext(ctx).
		Model(&model.BudgetModel{}).
		Distinct("owner_id", "account_id", "category_id").
		Order("owner_id, account_id").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	keys := make([]entity.ChainKey, len(rows))
	for i, row := range rows {
		keys[i] = entity.ChainKey{
			OwnerID:    row.OwnerID,
			AccountID:  row.AccountID,
			CategoryID: row.CategoryID,
		}
	}
	return keys, nil
}
