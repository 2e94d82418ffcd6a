// Package dto defines request and response payloads for the API.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/budget-tracker/engine/internal/domain/entity"
)

// ErrorResponse is the common error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// BudgetResponse represents one budget period with its computed figures.
type BudgetResponse struct {
	ID                   string          `json:"id"`
	OwnerID              string          `json:"ownerId"`
	AccountID            string          `json:"accountId"`
	CategoryID           *string         `json:"categoryId,omitempty"`
	Name                 string          `json:"name"`
	Amount               decimal.Decimal `json:"amount"`
	RefreshDay           int             `json:"refreshDay"`
	StartDate            string          `json:"startDate"`
	EndDate              string          `json:"endDate"`
	RolloverEnabled      bool            `json:"rolloverEnabled"`
	RolloverAmount       decimal.Decimal `json:"rolloverAmount"`
	EnableCategoryBudget bool            `json:"enableCategoryBudget"`
	IsAutoCalculated     bool            `json:"isAutoCalculated"`
	Spent                decimal.Decimal `json:"spent"`
	TotalAvailable       decimal.Decimal `json:"totalAvailable"`
	Remaining            decimal.Decimal `json:"remaining"`
}

// ToBudgetResponse converts a budget status to its response payload.
func ToBudgetResponse(status *entity.BudgetStatus) BudgetResponse {
	budget := status.Budget

	var categoryID *string
	if budget.CategoryID != nil {
		id := budget.CategoryID.String()
		categoryID = &id
	}

	return BudgetResponse{
		ID:                   budget.ID.String(),
		OwnerID:              budget.OwnerID.String(),
		AccountID:            budget.AccountID.String(),
		CategoryID:           categoryID,
		Name:                 budget.Name,
		Amount:               budget.Amount,
		RefreshDay:           budget.RefreshDay,
		StartDate:            budget.StartDate.Format("2006-01-02"),
		EndDate:              budget.EndDate.Format("2006-01-02"),
		RolloverEnabled:      budget.RolloverEnabled,
		RolloverAmount:       budget.RolloverAmount,
		EnableCategoryBudget: budget.EnableCategoryBudget,
		IsAutoCalculated:     budget.IsAutoCalculated,
		Spent:                status.Spent,
		TotalAvailable:       status.TotalAvailable,
		Remaining:            status.Remaining,
	}
}

// BudgetHistoryResponse represents one rollover ledger entry.
type BudgetHistoryResponse struct {
	ID               string          `json:"id"`
	BudgetID         string          `json:"budgetId"`
	Period           string          `json:"period"`
	Amount           decimal.Decimal `json:"amount"`
	Type             string          `json:"type"`
	Description      string          `json:"description"`
	BudgetAmount     decimal.Decimal `json:"budgetAmount"`
	SpentAmount      decimal.Decimal `json:"spentAmount"`
	PreviousRollover decimal.Decimal `json:"previousRollover"`
	CreatedAt        string          `json:"createdAt"`
}

// ToBudgetHistoryListResponse converts ledger entries to their response payload.
func ToBudgetHistoryListResponse(histories []*entity.BudgetHistory) []BudgetHistoryResponse {
	responses := make([]BudgetHistoryResponse, len(histories))
	for i, history := range histories {
		responses[i] = BudgetHistoryResponse{
			ID:               history.ID.String(),
			BudgetID:         history.BudgetID.String(),
			Period:           history.Period,
			Amount:           history.Amount,
			Type:             string(history.Type),
			Description:      history.Description,
			BudgetAmount:     history.BudgetAmount,
			SpentAmount:      history.SpentAmount,
			PreviousRollover: history.PreviousRollover,
			CreatedAt:        history.CreatedAt.Format(time.RFC3339),
		}
	}
	return responses
}

// RecalculateRequest asks for a rollover recomputation from one budget.
type RecalculateRequest struct {
	Propagate bool `json:"propagate"`
}

// RecalculateResponse reports the periods recomputed by one run.
type RecalculateResponse struct {
	Recalculated int    `json:"recalculated"`
	LastBudgetID string `json:"lastBudgetId,omitempty"`
}

// ReconcileResponse reports the outcome of one reconciliation pass.
type ReconcileResponse struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// CreateCategoryBudgetRequest creates a sub-budget for one category.
type CreateCategoryBudgetRequest struct {
	CategoryID string          `json:"categoryId" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

// UpdateCategoryBudgetRequest changes a sub-budget's amount.
type UpdateCategoryBudgetRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CategoryBudgetResponse represents one category sub-budget.
type CategoryBudgetResponse struct {
	ID         string          `json:"id"`
	BudgetID   string          `json:"budgetId"`
	CategoryID string          `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Spent      decimal.Decimal `json:"spent"`
}

// ToCategoryBudgetResponse converts a category budget to its response payload.
func ToCategoryBudgetResponse(categoryBudget *entity.CategoryBudget) CategoryBudgetResponse {
	return CategoryBudgetResponse{
		ID:         categoryBudget.ID.String(),
		BudgetID:   categoryBudget.BudgetID.String(),
		CategoryID: categoryBudget.CategoryID.String(),
		Amount:     categoryBudget.Amount,
		Spent:      categoryBudget.Spent,
	}
}
