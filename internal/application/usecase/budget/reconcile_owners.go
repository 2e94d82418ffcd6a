package budget

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/budget-tracker/engine/internal/application/adapter"
	"github.com/budget-tracker/engine/internal/domain/entity"
)

// DefaultWorkerPoolSize bounds chain processing parallelism when the caller
// does not configure one.
const DefaultWorkerPoolSize = 4

// ReconcileOwnersUseCase drives the scheduler pass: for every budget chain in
// the system, backfill the periods that are missing as of now. Chains share
// no mutable state, so they run in parallel under a bounded worker pool;
// within one chain the steps stay strictly sequential (period N feeds N+1).
type ReconcileOwnersUseCase struct {
	budgetRepo adapter.BudgetRepository
	backfill   *CreateMissingPeriodsUseCase
	poolSize   int
}

// NewReconcileOwnersUseCase creates a new ReconcileOwnersUseCase instance.
func NewReconcileOwnersUseCase(
	budgetRepo adapter.BudgetRepository,
	backfill *CreateMissingPeriodsUseCase,
	poolSize int,
) *ReconcileOwnersUseCase {
	if poolSize <= 0 {
		poolSize = DefaultWorkerPoolSize
	}
	return &ReconcileOwnersUseCase{
		budgetRepo: budgetRepo,
		backfill:   backfill,
		poolSize:   poolSize,
	}
}

// ChainFailure reports one chain that could not be reconciled.
type ChainFailure struct {
	Key entity.ChainKey
	Err error
}

// ReconcileReport aggregates the outcome of one scheduler pass. Partial
// per-chain failures are counted, never raised: one owner's broken data must
// not starve everyone else's backfill.
type ReconcileReport struct {
	Succeeded int
	Failed    int
	Errors    []ChainFailure
}

// Execute reconciles every chain as of now and reports aggregate counts. It
// only returns an error when the work list itself cannot be read (total
// failure to start).
func (uc *ReconcileOwnersUseCase) Execute(ctx context.Context, now time.Time) (*ReconcileReport, error) {
	keys, err := uc.budgetRepo.ListChainKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list budget chains: %w", err)
	}

	slog.Info("Reconciling budget chains", "chains", len(keys), "workers", uc.poolSize)

	report := &ReconcileReport{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, uc.poolSize)

	for _, key := range keys {
		select {
		case <-ctx.Done():
			mu.Lock()
			report.Failed++
			report.Errors = append(report.Errors, ChainFailure{Key: key, Err: ctx.Err()})
			mu.Unlock()
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(key entity.ChainKey) {
			defer wg.Done()
			defer func() { <-sem }()

			err := uc.reconcileChain(ctx, key, now)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				report.Errors = append(report.Errors, ChainFailure{Key: key, Err: err})
			} else {
				report.Succeeded++
			}
		}(key)
	}

	wg.Wait()

	slog.Info("Budget chain reconciliation complete",
		"succeeded", report.Succeeded,
		"failed", report.Failed,
	)

	return report, nil
}

// reconcileChain backfills one chain, converting panics from broken owner
// data into ordinary failures so the batch survives.
func (uc *ReconcileOwnersUseCase) reconcileChain(ctx context.Context, key entity.ChainKey, now time.Time) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic reconciling chain: %v", rec)
		}
	}()

	_, err = uc.backfill.Execute(ctx, CreateMissingPeriodsInput{Key: key, Now: now})
	if err != nil {
		slog.Error("Failed to reconcile budget chain",
			"ownerID", key.OwnerID,
			"accountID", key.AccountID,
			"error", err,
		)
	}
	return err
}
