package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/budget-tracker/engine/internal/application/usecase/categorybudget"
	domainerror "github.com/budget-tracker/engine/internal/domain/error"
	"github.com/budget-tracker/engine/internal/integration/entrypoint/dto"
)

// CategoryBudgetController handles category sub-budget endpoints.
type CategoryBudgetController struct {
	createUseCase *categorybudget.CreateCategoryBudgetUseCase
	updateUseCase *categorybudget.UpdateCategoryBudgetUseCase
	deleteUseCase *categorybudget.DeleteCategoryBudgetUseCase
}

// NewCategoryBudgetController creates a new category budget controller instance.
func NewCategoryBudgetController(
	createUseCase *categorybudget.CreateCategoryBudgetUseCase,
	updateUseCase *categorybudget.UpdateCategoryBudgetUseCase,
	deleteUseCase *categorybudget.DeleteCategoryBudgetUseCase,
) *CategoryBudgetController {
	return &CategoryBudgetController{
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// Create handles POST /budgets/:id/categories requests.
func (c *CategoryBudgetController) Create(ctx *gin.Context) {
	budgetID, ok := parseBudgetID(ctx)
	if !ok {
		return
	}

	var req dto.CreateCategoryBudgetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid category ID format",
		})
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), categorybudget.CreateCategoryBudgetInput{
		BudgetID:   budgetID,
		CategoryID: categoryID,
		Amount:     req.Amount,
		Now:        time.Now().UTC(),
	})
	if err != nil {
		c.handleCategoryBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToCategoryBudgetResponse(output.CategoryBudget))
}

// Update handles PUT /category-budgets/:id requests.
func (c *CategoryBudgetController) Update(ctx *gin.Context) {
	categoryBudgetID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid category budget ID format",
		})
		return
	}

	var req dto.UpdateCategoryBudgetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), categorybudget.UpdateCategoryBudgetInput{
		CategoryBudgetID: categoryBudgetID,
		Amount:           req.Amount,
		Now:              time.Now().UTC(),
	})
	if err != nil {
		c.handleCategoryBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryBudgetResponse(output.CategoryBudget))
}

// Delete handles DELETE /category-budgets/:id requests.
func (c *CategoryBudgetController) Delete(ctx *gin.Context) {
	categoryBudgetID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid category budget ID format",
		})
		return
	}

	err = c.deleteUseCase.Execute(ctx.Request.Context(), categorybudget.DeleteCategoryBudgetInput{
		CategoryBudgetID: categoryBudgetID,
		Now:              time.Now().UTC(),
	})
	if err != nil {
		c.handleCategoryBudgetError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// handleCategoryBudgetError maps category budget domain errors to HTTP
// responses.
func (c *CategoryBudgetController) handleCategoryBudgetError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, domainerror.ErrCategoryBudgetNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "Category budget not found",
			Code:  domainerror.ErrCodeCategoryBudgetNotFound,
		})
	case errors.Is(err, domainerror.ErrBudgetNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "Budget not found",
			Code:  domainerror.ErrCodeBudgetNotFound,
		})
	case errors.Is(err, domainerror.ErrCategoryBudgetExists):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{
			Error: "Category already has a budget",
			Code:  domainerror.ErrCodeCategoryBudgetExists,
		})
	case errors.Is(err, domainerror.ErrCategoryBudgetDisabled):
		ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error: "Category budgets are not enabled for this budget",
			Code:  domainerror.ErrCodeCategoryBudgetDisabled,
		})
	case errors.Is(err, domainerror.ErrAllocationExceedsTotal):
		ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error: "Category allocations exceed the budget amount",
			Code:  domainerror.ErrCodeAllocationExceedsTotal,
		})
	case errors.Is(err, domainerror.ErrCategoryMismatch):
		ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error: "Category does not match the budget's category scope",
			Code:  domainerror.ErrCodeCategoryMismatch,
		})
	default:
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Internal server error",
		})
	}
}
