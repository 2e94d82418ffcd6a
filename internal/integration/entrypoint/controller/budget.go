// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/budget-tracker/engine/internal/application/adapter"
	"github.com/budget-tracker/engine/internal/application/usecase/budget"
	domainerror "github.com/budget-tracker/engine/internal/domain/error"
	"github.com/budget-tracker/engine/internal/integration/entrypoint/dto"
)

// BudgetController handles budget endpoints.
type BudgetController struct {
	getUseCase         *budget.GetBudgetUseCase
	recalculateUseCase *budget.RecalculateChainUseCase
	reconcileUseCase   *budget.ReconcileOwnersUseCase
	historyRepo        adapter.BudgetHistoryRepository
}

// NewBudgetController creates a new budget controller instance.
func NewBudgetController(
	getUseCase *budget.GetBudgetUseCase,
	recalculateUseCase *budget.RecalculateChainUseCase,
	reconcileUseCase *budget.ReconcileOwnersUseCase,
	historyRepo adapter.BudgetHistoryRepository,
) *BudgetController {
	return &BudgetController{
		getUseCase:         getUseCase,
		recalculateUseCase: recalculateUseCase,
		reconcileUseCase:   reconcileUseCase,
		historyRepo:        historyRepo,
	}
}

// Get handles GET /budgets/:id requests.
func (c *BudgetController) Get(ctx *gin.Context) {
	budgetID, ok := parseBudgetID(ctx)
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), budget.GetBudgetInput{BudgetID: budgetID})
	if err != nil {
		c.handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetResponse(output.Status))
}

// History handles GET /budgets/:id/history requests.
func (c *BudgetController) History(ctx *gin.Context) {
	budgetID, ok := parseBudgetID(ctx)
	if !ok {
		return
	}

	histories, err := c.historyRepo.FindByBudget(ctx.Request.Context(), budgetID)
	if err != nil {
		c.handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetHistoryListResponse(histories))
}

// Recalculate handles POST /budgets/:id/recalculate requests.
func (c *BudgetController) Recalculate(ctx *gin.Context) {
	budgetID, ok := parseBudgetID(ctx)
	if !ok {
		return
	}

	var req dto.RecalculateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	output, err := c.recalculateUseCase.Execute(ctx.Request.Context(), budget.RecalculateChainInput{
		StartBudgetID: budgetID,
		Propagate:     req.Propagate,
		Now:           time.Now().UTC(),
	})
	if err != nil {
		c.handleBudgetError(ctx, err)
		return
	}

	response := dto.RecalculateResponse{Recalculated: output.Recalculated}
	if output.Recalculated > 0 {
		response.LastBudgetID = output.LastBudgetID.String()
	}
	ctx.JSON(http.StatusOK, response)
}

// Reconcile handles POST /internal/reconcile requests.
func (c *BudgetController) Reconcile(ctx *gin.Context) {
	report, err := c.reconcileUseCase.Execute(ctx.Request.Context(), time.Now().UTC())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to start reconciliation",
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.ReconcileResponse{
		Succeeded: report.Succeeded,
		Failed:    report.Failed,
	})
}

// parseBudgetID reads the :id path parameter, writing the error response on
// failure.
func parseBudgetID(ctx *gin.Context) (uuid.UUID, bool) {
	budgetID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid budget ID format",
		})
		return uuid.Nil, false
	}
	return budgetID, true
}

// handleBudgetError maps budget domain errors to HTTP responses.
func (c *BudgetController) handleBudgetError(ctx *gin.Context, err error) {
	var chainErr *domainerror.ChainRecalculationError
	if errors.As(err, &chainErr) {
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{
			Error: chainErr.Error(),
			Code:  domainerror.ErrCodeChainPartialFailure,
		})
		return
	}

	switch {
	case errors.Is(err, domainerror.ErrBudgetNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "Budget not found",
			Code:  domainerror.ErrCodeBudgetNotFound,
		})
	case errors.Is(err, domainerror.ErrBudgetVersionConflict):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{
			Error: "Budget was modified concurrently, retry the operation",
			Code:  domainerror.ErrCodeVersionConflict,
		})
	case errors.Is(err, domainerror.ErrBackfillWindowExceeded):
		ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error: "Too many periods missing to backfill",
			Code:  domainerror.ErrCodeBackfillWindowExceeded,
		})
	case errors.Is(err, domainerror.ErrRolloverDisabled):
		ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error: "Budget does not roll over",
			Code:  domainerror.ErrCodeRolloverDisabled,
		})
	default:
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Internal server error",
		})
	}
}
