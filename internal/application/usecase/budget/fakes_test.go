package budget

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/engine/internal/application/adapter"
	"github.com/budget-tracker/engine/internal/domain/entity"
	domainerror "github.com/budget-tracker/engine/internal/domain/error"
)

// fakeBudgetRepo is an in-memory adapter.BudgetRepository.
type fakeBudgetRepo struct {
	mu      sync.Mutex
	budgets []*entity.Budget

	failListChainKeys error
	failCreate        error
	failFindChain     map[uuid.UUID]error
}

func newFakeBudgetRepo(budgets ...*entity.Budget) *fakeBudgetRepo {
	return &fakeBudgetRepo{budgets: budgets}
}

func sameChainKey(b *entity.Budget, key entity.ChainKey) bool {
	if b.OwnerID != key.OwnerID || b.AccountID != key.AccountID {
		return false
	}
	if b.CategoryID == nil || key.CategoryID == nil {
		return b.CategoryID == nil && key.CategoryID == nil
	}
	return *b.CategoryID == *key.CategoryID
}

func (r *fakeBudgetRepo) Create(ctx context.Context, budget *entity.Budget) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	r.budgets = append(r.budgets, budget)
	return nil
}

func (r *fakeBudgetRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.budgets {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, domainerror.ErrBudgetNotFound
}

func (r *fakeBudgetRepo) FindLatestInChain(ctx context.Context, key entity.ChainKey) (*entity.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *entity.Budget
	for _, b := range r.budgets {
		if !sameChainKey(b, key) {
			continue
		}
		if latest == nil || b.EndDate.After(latest.EndDate) {
			latest = b
		}
	}
	if latest == nil {
		return nil, domainerror.ErrBudgetNotFound
	}
	return latest, nil
}

func (r *fakeBudgetRepo) FindChainFrom(ctx context.Context, budget *entity.Budget) ([]*entity.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failFindChain[budget.ID]; err != nil {
		return nil, err
	}
	var chain []*entity.Budget
	for _, b := range r.budgets {
		if b.SameChain(budget) && !b.StartDate.Before(budget.StartDate) {
			chain = append(chain, b)
		}
	}
	sort.Slice(chain, func(i, j int) bool {
		return chain[i].StartDate.Before(chain[j].StartDate)
	})
	return chain, nil
}

func (r *fakeBudgetRepo) ExistsAtStart(ctx context.Context, key entity.ChainKey, startDate time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.budgets {
		if sameChainKey(b, key) && b.StartDate.Equal(startDate) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBudgetRepo) UpdateRollover(ctx context.Context, id uuid.UUID, rollover decimal.Decimal, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.budgets {
		if b.ID == id {
			if b.Version != expectedVersion {
				return domainerror.ErrBudgetVersionConflict
			}
			b.RolloverAmount = rollover
			b.Version++
			return nil
		}
	}
	return domainerror.ErrBudgetNotFound
}

func (r *fakeBudgetRepo) UpdateAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.budgets {
		if b.ID == id {
			b.Amount = amount
			return nil
		}
	}
	return domainerror.ErrBudgetNotFound
}

func (r *fakeBudgetRepo) ListChainKeys(ctx context.Context) ([]entity.ChainKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failListChainKeys != nil {
		return nil, r.failListChainKeys
	}
	var keys []entity.ChainKey
	for _, b := range r.budgets {
		key := entity.ChainKeyOf(b)
		found := false
		for _, k := range keys {
			if sameChainKey(b, k) {
				found = true
				break
			}
		}
		if !found {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// fakeTransactionRepo is an in-memory adapter.TransactionRepository computing
// both spend paths from a transaction list.
type fakeTransactionRepo struct {
	transactions []*entity.Transaction

	failSum   error
	failSplit error
}

func (r *fakeTransactionRepo) inPeriod(t *entity.Transaction, query adapter.ExpenseQuery) bool {
	if t.Type != entity.TransactionTypeExpense {
		return false
	}
	if t.Date.Before(query.StartDate) || t.Date.After(query.EndDate) {
		return false
	}
	if query.CategoryID != nil {
		if t.CategoryID == nil || *t.CategoryID != *query.CategoryID {
			return false
		}
	}
	return true
}

func (r *fakeTransactionRepo) SumDirectExpenses(ctx context.Context, query adapter.ExpenseQuery) (decimal.Decimal, error) {
	if r.failSum != nil {
		return decimal.Zero, r.failSum
	}
	total := decimal.Zero
	for _, t := range r.transactions {
		if t.IsSplit || t.BudgetID == nil || *t.BudgetID != query.BudgetID {
			continue
		}
		if r.inPeriod(t, query) {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

func (r *fakeTransactionRepo) FindSplitExpenses(ctx context.Context, query adapter.ExpenseQuery) ([]*entity.Transaction, error) {
	if r.failSplit != nil {
		return nil, r.failSplit
	}
	var result []*entity.Transaction
	for _, t := range r.transactions {
		if !t.IsSplit || !r.inPeriod(t, query) {
			continue
		}
		for _, alloc := range t.Allocations {
			if alloc.BudgetID == query.BudgetID {
				result = append(result, t)
				break
			}
		}
	}
	return result, nil
}

// fakeHistoryRepo is an in-memory adapter.BudgetHistoryRepository.
type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries map[string]*entity.BudgetHistory

	failUpsert map[uuid.UUID]error
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{entries: make(map[string]*entity.BudgetHistory)}
}

func historyKey(budgetID uuid.UUID, period string) string {
	return budgetID.String() + "|" + period
}

func (r *fakeHistoryRepo) Upsert(ctx context.Context, history *entity.BudgetHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failUpsert[history.BudgetID]; err != nil {
		return err
	}
	r.entries[historyKey(history.BudgetID, history.Period)] = history
	return nil
}

func (r *fakeHistoryRepo) FindByBudget(ctx context.Context, budgetID uuid.UUID) ([]*entity.BudgetHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.BudgetHistory
	for _, h := range r.entries {
		if h.BudgetID == budgetID {
			result = append(result, h)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Period > result[j].Period
	})
	return result, nil
}

func (r *fakeHistoryRepo) get(budgetID uuid.UUID, period string) *entity.BudgetHistory {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[historyKey(budgetID, period)]
}

// Test data helpers.

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func testBudget(start, end time.Time, amount string, rollover bool) *entity.Budget {
	return entity.NewBudget(
		uuid.New(),
		uuid.New(),
		nil,
		"Groceries",
		dec(amount),
		start.Day(),
		start,
		end,
		rollover,
	)
}

func directExpense(budgetID uuid.UUID, ownerID, accountID uuid.UUID, day time.Time, amount string) *entity.Transaction {
	id := budgetID
	return &entity.Transaction{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		AccountID: accountID,
		Date:      day,
		Amount:    dec(amount),
		Type:      entity.TransactionTypeExpense,
		BudgetID:  &id,
	}
}

func splitExpense(ownerID, accountID uuid.UUID, day time.Time, total string, allocations ...entity.BudgetAllocation) *entity.Transaction {
	return &entity.Transaction{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		AccountID:   accountID,
		Date:        day,
		Amount:      dec(total),
		Type:        entity.TransactionTypeExpense,
		IsSplit:     true,
		Allocations: allocations,
	}
}
