// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/budget-tracker/engine/internal/integration/entrypoint/controller"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                   *gin.Engine
	healthController         *controller.HealthController
	budgetController         *controller.BudgetController
	categoryBudgetController *controller.CategoryBudgetController
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	budgetController *controller.BudgetController,
	categoryBudgetController *controller.CategoryBudgetController,
) *Router {
	return &Router{
		healthController:         healthController,
		budgetController:         budgetController,
		categoryBudgetController: categoryBudgetController,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	{
		budgets := v1.Group("/budgets")
		{
			budgets.GET("/:id", r.budgetController.Get)
			budgets.GET("/:id/history", r.budgetController.History)
			budgets.POST("/:id/recalculate", r.budgetController.Recalculate)
			budgets.POST("/:id/categories", r.categoryBudgetController.Create)
		}

		categoryBudgets := v1.Group("/category-budgets")
		{
			categoryBudgets.PUT("/:id", r.categoryBudgetController.Update)
			categoryBudgets.DELETE("/:id", r.categoryBudgetController.Delete)
		}

		internal := v1.Group("/internal")
		{
			internal.POST("/reconcile", r.budgetController.Reconcile)
		}
	}
}
