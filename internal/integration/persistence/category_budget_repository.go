package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/budget-tracker/engine/internal/application/adapter"
	"github.com/budget-tracker/engine/internal/domain/entity"
	domainerror "github.com/budget-tracker/engine/internal/domain/error"
	"github.com/budget-tracker/engine/internal/integration/persistence/model"
)

// categoryBudgetRepository implements the adapter.CategoryBudgetRepository interface.
type categoryBudgetRepository struct {
	db *gorm.DB
}

// NewCategoryBudgetRepository creates a new category budget repository instance.
func NewCategoryBudgetRepository(db *gorm.DB) adapter.CategoryBudgetRepository {
	return &categoryBudgetRepository{
		db: db,
	}
}

// Create creates a new category budget in the database.
func (r *categoryBudgetRepository) Create(ctx context.Context, categoryBudget *entity.CategoryBudget) error {
	categoryBudgetModel := model.CategoryBudgetFromEntity(categoryBudget)
	result := r.db.WithContext(ctx).Create(categoryBudgetModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a category budget by its ID.
func (r *categoryBudgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CategoryBudget, error) {
	var categoryBudgetModel model.CategoryBudgetModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&categoryBudgetModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCategoryBudgetNotFound
		}
		return nil, result.Error
	}
	return categoryBudgetModel.ToEntity(), nil
}

// FindByBudget lists the category budgets of a parent budget.
func (r *categoryBudgetRepository) FindByBudget(ctx context.Context, budgetID uuid.UUID) ([]*entity.CategoryBudget, error) {
	var categoryBudgetModels []model.CategoryBudgetModel
	result := r.db.WithContext(ctx).
		Where("budget_id = ?", budgetID).
		Order("created_at ASC").
		Find(&categoryBudgetModels)
	if result.Error != nil {
		return nil, result.Error
	}

	categoryBudgets := make([]*entity.CategoryBudget, len(categoryBudgetModels))
	for i, cbm := range categoryBudgetModels {
		categoryBudgets[i] = cbm.ToEntity()
	}
	return categoryBudgets, nil
}

// FindByBudgetAndCategory retrieves the sub-budget for one category of a
// parent budget.
func (r *categoryBudgetRepository) FindByBudgetAndCategory(ctx context.Context, budgetID, categoryID uuid.UUID) (*entity.CategoryBudget, error) {
	var categoryBudgetModel model.CategoryBudgetModel
	result := r.db.WithContext(ctx).
		Where("budget_id = ? AND category_id = ?", budgetID, categoryID).
		First(&categoryBudgetModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCategoryBudgetNotFound
		}
		return nil, result.Error
	}
	return categoryBudgetModel.ToEntity(), nil
}

// SumAmountByBudget returns the sum of sibling amounts for a parent budget.
func (r *categoryBudgetRepository) SumAmountByBudget(ctx context.Context, budgetID uuid.UUID) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	result := r.db.WithContext(ctx).
		Model(&model.CategoryBudgetModel{}).
		Where("budget_id = ?", budgetID).
		Select("COALESCE(SUM(amount), 0) as total").
		Scan(&row)
	if result.Error != nil {
		return decimal.Zero, result.Error
	}
	return row.Total, nil
}

// Update persists changes of a category budget.
func (r *categoryBudgetRepository) Update(ctx context.Context, categoryBudget *entity.CategoryBudget) error {
	categoryBudgetModel := model.CategoryBudgetFromEntity(categoryBudget)
	result := r.db.WithContext(ctx).Save(categoryBudgetModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// Delete removes a category budget from the database.
func (r *categoryBudgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.CategoryBudgetModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	return nil
}
