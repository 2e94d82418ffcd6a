package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction (expense or income).
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "EXPENSE"
	TransactionTypeIncome  TransactionType = "INCOME"
)

// BudgetAllocation is one entry of a split expense: the share of the
// transaction amount charged to a single budget.
type BudgetAllocation struct {
	BudgetID uuid.UUID
	Amount   decimal.Decimal
}

// Transaction represents a financial transaction. The budget engine consumes
// transactions read-only: only EXPENSE transactions affect budgets, and a
// transaction is either wholly assigned to one budget (BudgetID set) or split
// across several (IsSplit with Allocations), never both.
type Transaction struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	AccountID   uuid.UUID
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        TransactionType
	CategoryID  *uuid.UUID

	BudgetID    *uuid.UUID // direct assignment; nil for split transactions
	IsSplit     bool
	Allocations []BudgetAllocation

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AllocationFor returns the split share charged to the given budget, or zero
// when the transaction does not allocate to it.
func (t *Transaction) AllocationFor(budgetID uuid.UUID) decimal.Decimal {
	for _, alloc := range t.Allocations {
		if alloc.BudgetID == budgetID {
			return alloc.Amount
		}
	}
	return decimal.Zero
}
