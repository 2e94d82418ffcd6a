// Package dependency provides dependency injection for the application.
package dependency

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/budget-tracker/engine/config"
	budgetusecase "github.com/budget-tracker/engine/internal/application/usecase/budget"
	"github.com/budget-tracker/engine/internal/application/usecase/categorybudget"
	"github.com/budget-tracker/engine/internal/infra/server/router"
	"github.com/budget-tracker/engine/internal/integration/adapters"
	"github.com/budget-tracker/engine/internal/integration/entrypoint/controller"
	"github.com/budget-tracker/engine/internal/integration/persistence"
	"github.com/budget-tracker/engine/internal/integration/scheduler"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Router *router.Router

	Reconcile *budgetusecase.ReconcileOwnersUseCase
	Scheduler *scheduler.Worker
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil for one-shot binaries that never take the lease.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Injector {
	// Create repositories
	budgetRepo := persistence.NewBudgetRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	historyRepo := persistence.NewBudgetHistoryRepository(db)
	categoryBudgetRepo := persistence.NewCategoryBudgetRepository(db)

	// Create budget use cases
	aggregator := budgetusecase.NewSpendAggregator(transactionRepo)
	closer := budgetusecase.NewClosePeriodUseCase(historyRepo, aggregator)
	backfill := budgetusecase.NewCreateMissingPeriodsUseCase(budgetRepo, closer)
	recalculate := budgetusecase.NewRecalculateChainUseCase(budgetRepo, aggregator, closer)
	reconcile := budgetusecase.NewReconcileOwnersUseCase(budgetRepo, backfill, cfg.Scheduler.WorkerPoolSize)
	getBudget := budgetusecase.NewGetBudgetUseCase(budgetRepo, aggregator)

	// Create category budget use cases
	createCategoryBudget := categorybudget.NewCreateCategoryBudgetUseCase(categoryBudgetRepo, budgetRepo, recalculate)
	updateCategoryBudget := categorybudget.NewUpdateCategoryBudgetUseCase(categoryBudgetRepo, budgetRepo, recalculate)
	deleteCategoryBudget := categorybudget.NewDeleteCategoryBudgetUseCase(categoryBudgetRepo, budgetRepo, recalculate)

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	})

	budgetController := controller.NewBudgetController(
		getBudget,
		recalculate,
		reconcile,
		historyRepo,
	)

	categoryBudgetController := controller.NewCategoryBudgetController(
		createCategoryBudget,
		updateCategoryBudget,
		deleteCategoryBudget,
	)

	appRouter := router.NewRouter(
		healthController,
		budgetController,
		categoryBudgetController,
	)

	injector := &Injector{
		Config:    cfg,
		DB:        db,
		Router:    appRouter,
		Reconcile: reconcile,
	}

	if redisClient != nil {
		lock := adapters.NewRedisRunLock(redisClient)
		injector.Scheduler = scheduler.NewWorker(reconcile, lock, scheduler.WorkerConfig{
			Interval: cfg.Scheduler.Interval,
			LeaseTTL: cfg.Scheduler.LeaseTTL,
		})
	}

	return injector
}
