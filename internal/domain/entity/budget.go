// Package entity contains the domain entities of the budget engine.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget is one period of a budget chain: a spending limit for an owner and
// account, optionally scoped to a category, covering one refresh cycle.
// Consecutive periods of the same (owner, account, category) form a chain
// linked by rollover.
type Budget struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	AccountID  uuid.UUID
	CategoryID *uuid.UUID // nil for account-wide budgets
	Name       string
	Amount     decimal.Decimal
	RefreshDay int
	StartDate  time.Time
	EndDate    time.Time

	RolloverEnabled bool
	// RolloverAmount is the opening carry INTO this period: the remaining of
	// the predecessor, signed. Zero for the first period of a chain.
	RolloverAmount decimal.Decimal

	EnableCategoryBudget bool
	IsAutoCalculated     bool

	// Version supports optimistic concurrency on rollover updates.
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBudget creates a new Budget entity for one period.
func NewBudget(
	ownerID, accountID uuid.UUID,
	categoryID *uuid.UUID,
	name string,
	amount decimal.Decimal,
	refreshDay int,
	startDate, endDate time.Time,
	rolloverEnabled bool,
) *Budget {
	now := time.Now().UTC()
	return &Budget{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		AccountID:       accountID,
		CategoryID:      categoryID,
		Name:            name,
		Amount:          amount,
		RefreshDay:      refreshDay,
		StartDate:       startDate,
		EndDate:         endDate,
		RolloverEnabled: rolloverEnabled,
		RolloverAmount:  decimal.Zero,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// TotalAvailable is the spendable total of the period: the base amount plus
// the opening carry when rollover is enabled. A negative carry shrinks it.
func (b *Budget) TotalAvailable() decimal.Decimal {
	if b.RolloverEnabled {
		return b.Amount.Add(b.RolloverAmount)
	}
	return b.Amount
}

// HasEnded reports whether the period is over as of now.
func (b *Budget) HasEnded(now time.Time) bool {
	return b.EndDate.Before(now)
}

// SameChain reports whether two budgets belong to the same rollover chain.
func (b *Budget) SameChain(other *Budget) bool {
	if b.OwnerID != other.OwnerID || b.AccountID != other.AccountID {
		return false
	}
	if b.CategoryID == nil || other.CategoryID == nil {
		return b.CategoryID == other.CategoryID
	}
	return *b.CategoryID == *other.CategoryID
}

// ChainKey identifies a rollover chain.
type ChainKey struct {
	OwnerID    uuid.UUID
	AccountID  uuid.UUID
	CategoryID *uuid.UUID
}

// ChainKeyOf returns the chain key of the budget.
func ChainKeyOf(b *Budget) ChainKey {
	return ChainKey{
		OwnerID:    b.OwnerID,
		AccountID:  b.AccountID,
		CategoryID: b.CategoryID,
	}
}

// BudgetStatus is a budget enriched with its computed spend figures.
type BudgetStatus struct {
	Budget         *Budget
	Spent          decimal.Decimal
	TotalAvailable decimal.Decimal
	Remaining      decimal.Decimal
}
