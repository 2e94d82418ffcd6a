// Package error defines domain errors with stable codes.
package error

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors for budget operations.
var (
	ErrInvalidRefreshDay      = errors.New("invalid refresh day")
	ErrBudgetNotFound         = errors.New("budget not found")
	ErrPeriodNotFound         = errors.New("budget period not found")
	ErrCategoryMismatch       = errors.New("category does not match the budget's category scope")
	ErrBudgetVersionConflict  = errors.New("budget was modified concurrently")
	ErrBackfillWindowExceeded = errors.New("backfill window exceeded")
	ErrRolloverDisabled       = errors.New("rollover is not enabled for this budget")
)

// Budget error codes.
const (
	ErrCodeInvalidRefreshDay      = "BGT-010001"
	ErrCodeBudgetNotFound         = "BGT-010002"
	ErrCodePeriodNotFound         = "BGT-010003"
	ErrCodeCategoryMismatch       = "BGT-010004"
	ErrCodeVersionConflict        = "BGT-010005"
	ErrCodeBackfillWindowExceeded = "BGT-020001"
	ErrCodeRolloverDisabled       = "BGT-020002"
	ErrCodeChainPartialFailure    = "BGT-020003"
)

// BudgetError is a coded budget domain error.
type BudgetError struct {
	Code    string
	Message string
	Err     error
}

func (e *BudgetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BudgetError) Unwrap() error {
	return e.Err
}

// NewBudgetError creates a new BudgetError.
func NewBudgetError(code, message string, err error) *BudgetError {
	return &BudgetError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ChainRecalculationError reports a rollover chain walk that stopped partway.
// Periods up to and including LastGoodBudgetID hold correct values; the walk
// stopped at FailedBudgetID and later periods were not touched.
type ChainRecalculationError struct {
	LastGoodBudgetID uuid.UUID
	FailedBudgetID   uuid.UUID
	Err              error
}

func (e *ChainRecalculationError) Error() string {
	return fmt.Sprintf("%s: chain recalculation stopped at budget %s (last good: %s): %v",
		ErrCodeChainPartialFailure, e.FailedBudgetID, e.LastGoodBudgetID, e.Err)
}

func (e *ChainRecalculationError) Unwrap() error {
	return e.Err
}
