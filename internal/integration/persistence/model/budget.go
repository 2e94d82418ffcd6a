// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/engine/internal/domain/entity"
)

// BudgetModel represents the budgets table in the database. One row is one
// period of a budget chain.
type BudgetModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_budgets_chain"`
	AccountID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_budgets_chain"`
	CategoryID *uuid.UUID      `gorm:"type:uuid;index:idx_budgets_chain"`
	Name       string          `gorm:"type:varchar(255);not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	RefreshDay int             `gorm:"type:integer;not null"`
	StartDate  time.Time       `gorm:"type:date;not null;index"`
	EndDate    time.Time       `gorm:"type:date;not null;index"`

	RolloverEnabled bool            `gorm:"default:false"`
	RolloverAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`

	EnableCategoryBudget bool `gorm:"default:false"`
	IsAutoCalculated     bool `gorm:"default:false"`

	Version int `gorm:"type:integer;not null;default:1"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the BudgetModel.
func (BudgetModel) TableName() string {
	return "budgets"
}

// ToEntity converts a BudgetModel to a domain Budget entity.
func (m *BudgetModel) ToEntity() *entity.Budget {
	return &entity.Budget{
		ID:                   m.ID,
		OwnerID:              m.OwnerID,
		AccountID:            m.AccountID,
		CategoryID:           m.CategoryID,
		Name:                 m.Name,
		Amount:               m.Amount,
		RefreshDay:           m.RefreshDay,
		StartDate:            m.StartDate,
		EndDate:              m.EndDate,
		RolloverEnabled:      m.RolloverEnabled,
		RolloverAmount:       m.RolloverAmount,
		EnableCategoryBudget: m.EnableCategoryBudget,
		IsAutoCalculated:     m.IsAutoCalculated,
		Version:              m.Version,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

// BudgetFromEntity creates a BudgetModel from a domain Budget entity.
func BudgetFromEntity(budget *entity.Budget) *BudgetModel {
	return &BudgetModel{
		ID:                   budget.ID,
		OwnerID:              budget.OwnerID,
		AccountID:            budget.AccountID,
		CategoryID:           budget.CategoryID,
		Name:                 budget.Name,
		Amount:               budget.Amount,
		RefreshDay:           budget.RefreshDay,
		StartDate:            budget.StartDate,
		EndDate:              budget.EndDate,
		RolloverEnabled:      budget.RolloverEnabled,
		RolloverAmount:       budget.RolloverAmount,
		EnableCategoryBudget: budget.EnableCategoryBudget,
		IsAutoCalculated:     budget.IsAutoCalculated,
		Version:              budget.Version,
		CreatedAt:            budget.CreatedAt,
		UpdatedAt:            budget.UpdatedAt,
	}
}
