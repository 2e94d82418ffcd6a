package error

import (
	"errors"
	"fmt"
)

// Sentinel errors for category budget operations.
var (
	ErrCategoryBudgetNotFound = errors.New("category budget not found")
	ErrCategoryBudgetExists   = errors.New("category budget already exists")
	ErrCategoryBudgetDisabled = errors.New("category budgets are not enabled")
	ErrAllocationExceedsTotal = errors.New("category allocations exceed budget amount")
)

// Category budget error codes.
const (
	ErrCodeCategoryBudgetNotFound     = "CBG-010001"
	ErrCodeCategoryBudgetExists       = "CBG-010002"
	ErrCodeCategoryBudgetDisabled     = "CBG-010003"
	ErrCodeAllocationExceedsTotal     = "CBG-010004"
	ErrCodeCategoryBudgetUpdateFailed = "CBG-010005"
	ErrCodeCategoryBudgetDeleteFailed = "CBG-010006"
)

// CategoryBudgetError is a coded category budget domain error.
type CategoryBudgetError struct {
	Code    string
	Message string
	Err     error
}

func (e *CategoryBudgetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CategoryBudgetError) Unwrap() error {
	return e.Err
}

// NewCategoryBudgetError creates a new CategoryBudgetError.
func NewCategoryBudgetError(code, message string, err error) *CategoryBudgetError {
	return &CategoryBudgetError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
