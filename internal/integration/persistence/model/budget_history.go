package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/engine/internal/domain/entity"
)

// BudgetHistoryModel represents the budget_histories table: the rollover
// ledger. (budget_id, period) is unique; recalculation replaces rows.
type BudgetHistoryModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BudgetID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budget_histories_budget_period"`
	Period      string          `gorm:"type:varchar(7);not null;uniqueIndex:idx_budget_histories_budget_period"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Type        string          `gorm:"type:varchar(10);not null"`
	Description string          `gorm:"type:varchar(255)"`

	BudgetAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	SpentAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PreviousRollover decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the BudgetHistoryModel.
func (BudgetHistoryModel) TableName() string {
	return "budget_histories"
}

// ToEntity converts a BudgetHistoryModel to a domain BudgetHistory entity.
func (m *BudgetHistoryModel) ToEntity() *entity.BudgetHistory {
	return &entity.BudgetHistory{
		ID:               m.ID,
		BudgetID:         m.BudgetID,
		Period:           m.Period,
		Amount:           m.Amount,
		Type:             entity.RolloverType(m.Type),
		Description:      m.Description,
		BudgetAmount:     m.BudgetAmount,
		SpentAmount:      m.SpentAmount,
		PreviousRollover: m.PreviousRollover,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// BudgetHistoryFromEntity creates a BudgetHistoryModel from a domain BudgetHistory entity.
func BudgetHistoryFromEntity(history *entity.BudgetHistory) *BudgetHistoryModel {
	return &BudgetHistoryModel{
		ID:               history.ID,
		BudgetID:         history.BudgetID,
		Period:           history.Period,
		Amount:           history.Amount,
		Type:             string(history.Type),
		Description:      history.Description,
		BudgetAmount:     history.BudgetAmount,
		SpentAmount:      history.SpentAmount,
		PreviousRollover: history.PreviousRollover,
		CreatedAt:        history.CreatedAt,
		UpdatedAt:        history.UpdatedAt,
	}
}
