package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/engine/internal/application/adapter"
	"github.com/budget-tracker/engine/internal/application/usecase/budget"
	"github.com/budget-tracker/engine/internal/domain/entity"
	domainerror "github.com/budget-tracker/engine/internal/domain/error"
)

// fakeRunLock records acquire/release calls and can be told to deny the lease.
type fakeRunLock struct {
	mu       sync.Mutex
	held     bool
	deny     bool
	acquires int
	releases int
}

func (l *fakeRunLock) Acquire(_ context.Context, _ string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.acquires++
	if l.deny || l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *fakeRunLock) Release(_ context.Context, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.releases++
	l.held = false
	return nil
}

// fakeBudgetRepo exposes a fixed set of chains and counts work list reads.
type fakeBudgetRepo struct {
	mu        sync.Mutex
	keys      []entity.ChainKey
	listCalls int
}

func (r *fakeBudgetRepo) Create(context.Context, *entity.Budget) error { return nil }

func (r *fakeBudgetRepo) FindByID(context.Context, uuid.UUID) (*entity.Budget, error) {
	return nil, domainerror.ErrBudgetNotFound
}

func (r *fakeBudgetRepo) FindLatestInChain(context.Context, entity.ChainKey) (*entity.Budget, error) {
	// Empty chains make the backfill a no-op; the worker contract under
	// test is lease handling, not period creation.
	return nil, domainerror.ErrBudgetNotFound
}

func (r *fakeBudgetRepo) FindChainFrom(context.Context, *entity.Budget) ([]*entity.Budget, error) {
	return nil, nil
}

func (r *fakeBudgetRepo) ExistsAtStart(context.Context, entity.ChainKey, time.Time) (bool, error) {
	return false, nil
}

func (r *fakeBudgetRepo) UpdateRollover(context.Context, uuid.UUID, decimal.Decimal, int) error {
	return nil
}

func (r *fakeBudgetRepo) UpdateAmount(context.Context, uuid.UUID, decimal.Decimal) error {
	return nil
}

func (r *fakeBudgetRepo) ListChainKeys(context.Context) ([]entity.ChainKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	return r.keys, nil
}

type fakeHistoryRepo struct{}

func (r *fakeHistoryRepo) Upsert(context.Context, *entity.BudgetHistory) error { return nil }

func (r *fakeHistoryRepo) FindByBudget(context.Context, uuid.UUID) ([]*entity.BudgetHistory, error) {
	return nil, nil
}

type fakeTransactionRepo struct{}

func (r *fakeTransactionRepo) SumDirectExpenses(context.Context, adapter.ExpenseQuery) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *fakeTransactionRepo) FindSplitExpenses(context.Context, adapter.ExpenseQuery) ([]*entity.Transaction, error) {
	return nil, nil
}

func newTestWorker(repo *fakeBudgetRepo, lock *fakeRunLock) *Worker {
	aggregator := budget.NewSpendAggregator(&fakeTransactionRepo{})
	closer := budget.NewClosePeriodUseCase(&fakeHistoryRepo{}, aggregator)
	backfill := budget.NewCreateMissingPeriodsUseCase(repo, closer)
	reconcile := budget.NewReconcileOwnersUseCase(repo, backfill, 2)
	return NewWorker(reconcile, lock, WorkerConfig{Interval: time.Hour, LeaseTTL: time.Minute})
}

func TestWorkerRunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("runs the pass under the lease and releases it", func(t *testing.T) {
		repo := &fakeBudgetRepo{keys: []entity.ChainKey{
			{OwnerID: uuid.New(), AccountID: uuid.New()},
		}}
		lock := &fakeRunLock{}

		newTestWorker(repo, lock).RunOnce(ctx)

		if repo.listCalls != 1 {
			t.Errorf("expected one reconciliation pass, got %d", repo.listCalls)
		}
		if lock.acquires != 1 || lock.releases != 1 {
			t.Errorf("expected one acquire and one release, got %d and %d", lock.acquires, lock.releases)
		}
		if lock.held {
			t.Error("expected the lease to be free after the pass")
		}
	})

	t.Run("skips the pass when the lease is held elsewhere", func(t *testing.T) {
		repo := &fakeBudgetRepo{}
		lock := &fakeRunLock{deny: true}

		newTestWorker(repo, lock).RunOnce(ctx)

		if repo.listCalls != 0 {
			t.Error("expected no reconciliation pass without the lease")
		}
		if lock.releases != 0 {
			t.Error("expected no release of a lease that was never taken")
		}
	})

	t.Run("releases the lease even when the pass fails to start", func(t *testing.T) {
		repo := &fakeBudgetRepo{}
		lock := &fakeRunLock{}
		aggregator := budget.NewSpendAggregator(&fakeTransactionRepo{})
		closer := budget.NewClosePeriodUseCase(&fakeHistoryRepo{}, aggregator)
		backfill := budget.NewCreateMissingPeriodsUseCase(&failingListRepo{fakeBudgetRepo: repo}, closer)
		reconcile := budget.NewReconcileOwnersUseCase(&failingListRepo{fakeBudgetRepo: repo}, backfill, 2)
		worker := NewWorker(reconcile, lock, WorkerConfig{Interval: time.Hour, LeaseTTL: time.Minute})

		worker.RunOnce(ctx)

		if lock.releases != 1 {
			t.Errorf("expected the lease to be released, got %d releases", lock.releases)
		}
	})
}

func TestWorkerConfigDefaults(t *testing.T) {
	repo := &fakeBudgetRepo{}
	aggregator := budget.NewSpendAggregator(&fakeTransactionRepo{})
	closer := budget.NewClosePeriodUseCase(&fakeHistoryRepo{}, aggregator)
	backfill := budget.NewCreateMissingPeriodsUseCase(repo, closer)
	reconcile := budget.NewReconcileOwnersUseCase(repo, backfill, 2)

	w := NewWorker(reconcile, &fakeRunLock{}, WorkerConfig{})
	defaults := DefaultWorkerConfig()
	if w.interval != defaults.Interval {
		t.Errorf("expected default interval %s, got %s", defaults.Interval, w.interval)
	}
	if w.leaseTTL != defaults.LeaseTTL {
		t.Errorf("expected default lease TTL %s, got %s", defaults.LeaseTTL, w.leaseTTL)
	}
}

// failingListRepo makes the work list unreadable.
type failingListRepo struct {
	*fakeBudgetRepo
}

func (r *failingListRepo) ListChainKeys(context.Context) ([]entity.ChainKey, error) {
	return nil, errors.New("work list unavailable")
}
