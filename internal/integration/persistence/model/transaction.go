package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/engine/internal/domain/entity"
)

// TransactionModel represents the transactions table in the database.
type TransactionModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Date        time.Time       `gorm:"type:date;not null;index"`
	Description string          `gorm:"type:varchar(255);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Type        string          `gorm:"type:varchar(10);not null;index"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`

	BudgetID *uuid.UUID `gorm:"type:uuid;index"`
	IsSplit  bool       `gorm:"default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	Allocations []BudgetAllocationModel `gorm:"foreignKey:TransactionID;references:ID"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// BudgetAllocationModel represents one split entry of a transaction: the share
// of the amount charged to a single budget.
type BudgetAllocationModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	BudgetID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for the BudgetAllocationModel.
func (BudgetAllocationModel) TableName() string {
	return "transaction_budget_allocations"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	allocations := make([]entity.BudgetAllocation, len(m.Allocations))
	for i, alloc := range m.Allocations {
		allocations[i] = entity.BudgetAllocation{
			BudgetID: alloc.BudgetID,
			Amount:   alloc.Amount,
		}
	}

	return &entity.Transaction{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		AccountID:   m.AccountID,
		Date:        m.Date,
		Description: m.Description,
		Amount:      m.Amount,
		Type:        entity.TransactionType(m.Type),
		CategoryID:  m.CategoryID,
		BudgetID:    m.BudgetID,
		IsSplit:     m.IsSplit,
		Allocations: allocations,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
func TransactionFromEntity(transaction *entity.Transaction) *TransactionModel {
	allocations := make([]BudgetAllocationModel, len(transaction.Allocations))
	for i, alloc := range transaction.Allocations {
		allocations[i] = BudgetAllocationModel{
			ID:            uuid.New(),
			TransactionID: transaction.ID,
			BudgetID:      alloc.BudgetID,
			Amount:        alloc.Amount,
			CreatedAt:     transaction.CreatedAt,
		}
	}

	return &TransactionModel{
		ID:          transaction.ID,
		OwnerID:     transaction.OwnerID,
		AccountID:   transaction.AccountID,
		Date:        transaction.Date,
		Description: transaction.Description,
		Amount:      transaction.Amount,
		Type:        string(transaction.Type),
		CategoryID:  transaction.CategoryID,
		BudgetID:    transaction.BudgetID,
		IsSplit:     transaction.IsSplit,
		Allocations: allocations,
		CreatedAt:   transaction.CreatedAt,
		UpdatedAt:   transaction.UpdatedAt,
	}
}
