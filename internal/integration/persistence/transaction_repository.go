package persistence

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/budget-tracker/engine/internal/application/adapter"
	"github.com/budget-tracker/engine/internal/domain/entity"
	"github.com/budget-tracker/engine/internal/integration/persistence/model"
)

// transactionRepository implements the adapter.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// SumDirectExpenses sums expenses directly assigned to the budget within the
// period.
func (r *transactionRepository) SumDirectExpenses(ctx context.Context, query adapter.ExpenseQuery) (decimal.Decimal, error) {
	q := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("budget_id = ?", query.BudgetID).
		Where("type = ?", string(entity.TransactionTypeExpense)).
		Where("is_split = ?", false).
		Where("date >= ? AND date <= ?", query.StartDate, query.EndDate)
	if query.CategoryID != nil {
		q = q.Where("category_id = ?", *query.CategoryID)
	}

	var row struct {
		Total decimal.Decimal
	}
	result := q.Select("COALESCE(SUM(amount), 0) as total").Scan(&row)
	if result.Error != nil {
		return decimal.Zero, result.Error
	}
	return row.Total, nil
}

// FindSplitExpenses returns split expenses in the period carrying an
// allocation entry for the budget, with allocations loaded.
func (r *transactionRepository) FindSplitExpenses(ctx context.Context, query adapter.ExpenseQuery) ([]*entity.Transaction, error) {
	q := r.db.WithContext(ctx).
		Preload("Allocations").
		Where("type = ?", string(entity.TransactionTypeExpense)).
		Where("is_split = ?", true).
		Where("date >= ? AND date <= ?", query.StartDate, query.EndDate).
		Where("id IN (SELECT transaction_id FROM transaction_budget_allocations WHERE budget_id = ?)", query.BudgetID)
	if query.CategoryID != nil {
		q = q.Where("category_id = ?", *query.CategoryID)
	}

	var transactionModels []model.TransactionModel
	result := q.Order("date ASC, created_at ASC").Find(&transactionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	transactions := make([]*entity.Transaction, len(transactionModels))
	for i, tm := range transactionModels {
		transactions[i] = tm.ToEntity()
	}
	return transactions, nil
}
