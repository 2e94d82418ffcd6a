package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/budget-tracker/engine/internal/domain/entity"
	domainerror "github.com/budget-tracker/engine/internal/domain/error"
)

func TestBudgetRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and find by id", func(t *testing.T) {
		db := testDB(t)
		repo := NewBudgetRepository(db)

		b := entity.NewBudget(uuid.New(), uuid.New(), nil, "Groceries", dec("1000"), 1,
			date(2024, time.March, 1), date(2024, time.March, 31), true)
		if err := repo.Create(ctx, b); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		found, err := repo.FindByID(ctx, b.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if found.Name != "Groceries" || !found.Amount.Equal(dec("1000")) {
			t.Errorf("round trip mismatch: %+v", found)
		}
		if found.Version != 1 {
			t.Errorf("expected version 1, got %d", found.Version)
		}
	})

	t.Run("find by id not found", func(t *testing.T) {
		db := testDB(t)
		repo := NewBudgetRepository(db)
		if _, err := repo.FindByID(ctx, uuid.New()); !errors.Is(err, domainerror.ErrBudgetNotFound) {
			t.Errorf("expected ErrBudgetNotFound, got %v", err)
		}
	})

	t.Run("latest in chain ignores other chains", func(t *testing.T) {
		db := testDB(t)
		repo := NewBudgetRepository(db)
		ownerID, accountID := uuid.New(), uuid.New()

		seedBudget(t, db, ownerID, accountID, date(2024, time.January, 1), date(2024, time.January, 31), "1000")
		want := seedBudget(t, db, ownerID, accountID, date(2024, time.February, 1), date(2024, time.February, 29), "1000")
		seedBudget(t, db, uuid.New(), accountID, date(2024, time.March, 1), date(2024, time.March, 31), "999")

		latest, err := repo.FindLatestInChain(ctx, entity.ChainKey{OwnerID: ownerID, AccountID: accountID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if latest.ID != want.ID {
			t.Errorf("expected latest %s, got %s", want.ID, latest.ID)
		}
	})

	t.Run("empty chain yields not found", func(t *testing.T) {
		db := testDB(t)
		repo := NewBudgetRepository(db)
		_, err := repo.FindLatestInChain(ctx, entity.ChainKey{OwnerID: uuid.New(), AccountID: uuid.New()})
		if !errors.Is(err, domainerror.ErrBudgetNotFound) {
			t.Errorf("expected ErrBudgetNotFound, got %v", err)
		}
	})

	t.Run("category scoped chains are distinct", func(t *testing.T) {
		db := testDB(t)
		repo := NewBudgetRepository(db)
		ownerID, accountID := uuid.New(), uuid.New()
		categoryID := uuid.New()

		wide := seedBudget(t, db, ownerID, accountID, date(2024, time.March, 1), date(2024, time.March, 31), "1000")
		scoped := entity.NewBudget(ownerID, accountID, &categoryID, "Dining", dec("300"), 1,
			date(2024, time.March, 1), date(2024, time.March, 31), true)
		if err := repo.Create(ctx, scoped); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		latestWide, err := repo.FindLatestInChain(ctx, entity.ChainKey{OwnerID: ownerID, AccountID: accountID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if latestWide.ID != wide.ID {
			t.Error("account-wide lookup must not see the category chain")
		}

		latestScoped, err := repo.FindLatestInChain(ctx, entity.ChainKey{OwnerID: ownerID, AccountID: accountID, CategoryID: &categoryID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if latestScoped.ID != scoped.ID {
			t.Error("category lookup must see only the category chain")
		}
	})

	t.Run("chain from walks forward in order", func(t *testing.T) {
		db := testDB(t)
		repo := NewBudgetRepository(db)
		ownerID, accountID := uuid.New(), uuid.New()

		jan := seedBudget(t, db, ownerID, accountID, date(2024, time.January, 1), date(2024, time.January, 31), "1000")
		feb := seedBudget(t, db, ownerID, accountID, date(2024, time.February, 1), date(2024, time.February, 29), "1000")
		mar := seedBudget(t, db, ownerID, accountID, date(2024, time.March, 1), date(2024, time.March, 31), "1000")

		chain, err := repo.FindChainFrom(ctx, feb)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(chain) != 2 {
			t.Fatalf("expected 2 budgets from February, got %d", len(chain))
		}
		if chain[0].ID != feb.ID || chain[1].ID != mar.ID {
			t.Error("expected [feb, mar] in ascending start date order")
		}
		for _, b := range chain {
			if b.ID == jan.ID {
				t.Error("chain walk must not include earlier periods")
			}
		}
	})

	t.Run("exists at start", func(t *testing.T) {
		db := testDB(t)
		repo := NewBudgetRepository(db)
		ownerID, accountID := uuid.New(), uuid.New()
		key := entity.ChainKey{OwnerID: ownerID, AccountID: accountID}

		seedBudget(t, db, ownerID, accountID, date(2024, time.March, 1), date(2024, time.March, 31), "1000")

		exists, err := repo.ExistsAtStart(ctx, key, date(2024, time.March, 1))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !exists {
			t.Error("expected existing start date to be found")
		}

		exists, err = repo.ExistsAtStart(ctx, key, date(2024, time.April, 1))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if exists {
			t.Error("expected missing start date to be absent")
		}
	})

	t.Run("update rollover bumps the version", func(t *testing.T) {
		db := testDB(t)
		repo := NewBudgetRepository(db)
		b := seedBudget(t, db, uuid.New(), uuid.New(), date(2024, time.March, 1), date(2024, time.March, 31), "1000")

		if err := repo.UpdateRollover(ctx, b.ID, dec("250"), 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		updated, err := repo.FindByID(ctx, b.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !updated.RolloverAmount.Equal(dec("250")) {
			t.Errorf("expected rollover 250, got %s", updated.RolloverAmount)
		}
		if updated.Version != 2 {
			t.Errorf("expected version 2, got %d", updated.Version)
		}
	})

	t.Run("update rollover with a stale version conflicts", func(t *testing.T) {
		db := testDB(t)
		repo := NewBudgetRepository(db)
		b := seedBudget(t, db, uuid.New(), uuid.New(), date(2024, time.March, 1), date(2024, time.March, 31), "1000")

		if err := repo.UpdateRollover(ctx, b.ID, dec("250"), 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		err := repo.UpdateRollover(ctx, b.ID, dec("300"), 1)
		if !errors.Is(err, domainerror.ErrBudgetVersionConflict) {
			t.Errorf("expected ErrBudgetVersionConflict, got %v", err)
		}
	})

	t.Run("update amount", func(t *testing.T) {
		db := testDB(t)
		repo := NewBudgetRepository(db)
		b := seedBudget(t, db, uuid.New(), uuid.New(), date(2024, time.March, 1), date(2024, time.March, 31), "1000")

		if err := repo.UpdateAmount(ctx, b.ID, dec("1500")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		updated, _ := repo.FindByID(ctx, b.ID)
		if !updated.Amount.Equal(dec("1500")) {
			t.Errorf("expected amount 1500, got %s", updated.Amount)
		}
	})

	t.Run("list chain keys deduplicates periods", func(t *testing.T) {
		db := testDB(t)
		repo := NewBudgetRepository(db)
		ownerID, accountID := uuid.New(), uuid.New()
		categoryID := uuid.New()

		seedBudget(t, db, ownerID, accountID, date(2024, time.January, 1), date(2024, time.January, 31), "1000")
		seedBudget(t, db, ownerID, accountID, date(2024, time.February, 1), date(2024, time.February, 29), "1000")
		scoped := entity.NewBudget(ownerID, accountID, &categoryID, "Dining", dec("300"), 1,
			date(2024, time.February, 1), date(2024, time.February, 29), false)
		if err := repo.Create(ctx, scoped); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		keys, err := repo.ListChainKeys(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(keys) != 2 {
			t.Errorf("expected 2 distinct chains, got %d", len(keys))
		}
	})
}
