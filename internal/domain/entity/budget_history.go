package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RolloverType classifies a period closure.
type RolloverType string

const (
	RolloverTypeSurplus RolloverType = "SURPLUS"
	RolloverTypeDeficit RolloverType = "DEFICIT"
)

// BudgetHistory is one rollover ledger entry: the closing delta of a budget
// period. At most one entry exists per (budget, period label); recalculation
// replaces it wholesale.
type BudgetHistory struct {
	ID       uuid.UUID
	BudgetID uuid.UUID
	// Period is the ledger label, "YYYY-MM" of the period's end date.
	Period string
	// Amount is the absolute closing delta; Type carries the sign.
	Amount      decimal.Decimal
	Type        RolloverType
	Description string

	BudgetAmount     decimal.Decimal
	SpentAmount      decimal.Decimal
	PreviousRollover decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBudgetHistory creates a ledger entry from a period's signed remaining.
func NewBudgetHistory(
	budgetID uuid.UUID,
	period string,
	remaining decimal.Decimal,
	budgetAmount, spent, previousRollover decimal.Decimal,
) *BudgetHistory {
	now := time.Now().UTC()

	rolloverType := RolloverTypeSurplus
	if remaining.IsNegative() {
		rolloverType = RolloverTypeDeficit
	}

	return &BudgetHistory{
		ID:               uuid.New(),
		BudgetID:         budgetID,
		Period:           period,
		Amount:           remaining.Abs(),
		Type:             rolloverType,
		Description:      fmt.Sprintf("Period %s closed with %s of %s", period, rolloverType, remaining.Abs()),
		BudgetAmount:     budgetAmount,
		SpentAmount:      spent,
		PreviousRollover: previousRollover,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// SignedAmount returns the closing delta with its sign restored.
func (h *BudgetHistory) SignedAmount() decimal.Decimal {
	if h.Type == RolloverTypeDeficit {
		return h.Amount.Neg()
	}
	return h.Amount
}
