package budget

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/budget-tracker/engine/internal/domain/entity"
)

func newBackfill(budgets *fakeBudgetRepo, txns *fakeTransactionRepo) *CreateMissingPeriodsUseCase {
	closer := NewClosePeriodUseCase(newFakeHistoryRepo(), NewSpendAggregator(txns))
	return NewCreateMissingPeriodsUseCase(budgets, closer)
}

func TestCreateMissingPeriods(t *testing.T) {
	t.Run("backfills the gap with inherited configuration", func(t *testing.T) {
		// Last budget covers Jan 1-31, now is Apr 15: Feb, Mar, Apr missing.
		template := testBudget(date(2024, time.January, 1), date(2024, time.January, 31), "1000", true)
		template.RefreshDay = 1
		budgets := newFakeBudgetRepo(template)
		txns := &fakeTransactionRepo{transactions: []*entity.Transaction{
			directExpense(template.ID, template.OwnerID, template.AccountID, date(2024, time.January, 10), "700"),
		}}

		output, err := newBackfill(budgets, txns).Execute(context.Background(), CreateMissingPeriodsInput{
			Key: entity.ChainKeyOf(template),
			Now: date(2024, time.April, 15),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(output.Created) != 3 {
			t.Fatalf("expected 3 created budgets, got %d", len(output.Created))
		}

		feb := output.Created[0]
		if !feb.StartDate.Equal(date(2024, time.February, 1)) {
			t.Errorf("expected first created to start 2024-02-01, got %s", feb.StartDate)
		}
		if !feb.Amount.Equal(dec("1000")) {
			t.Errorf("expected inherited amount 1000, got %s", feb.Amount)
		}
		if !feb.RolloverAmount.Equal(dec("300")) {
			t.Errorf("expected opening carry 300 from January surplus, got %s", feb.RolloverAmount)
		}

		// No spend in Feb or Mar, so the surplus compounds.
		mar := output.Created[1]
		if !mar.RolloverAmount.Equal(dec("1300")) {
			t.Errorf("expected opening carry 1300, got %s", mar.RolloverAmount)
		}
		apr := output.Created[2]
		if !apr.RolloverAmount.Equal(dec("2300")) {
			t.Errorf("expected opening carry 2300, got %s", apr.RolloverAmount)
		}
	})

	t.Run("zero carry when rollover is disabled", func(t *testing.T) {
		template := testBudget(date(2024, time.February, 1), date(2024, time.February, 29), "500", false)
		template.RefreshDay = 1
		budgets := newFakeBudgetRepo(template)

		output, err := newBackfill(budgets, &fakeTransactionRepo{}).Execute(context.Background(), CreateMissingPeriodsInput{
			Key: entity.ChainKeyOf(template),
			Now: date(2024, time.March, 10),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(output.Created) != 1 {
			t.Fatalf("expected 1 created budget, got %d", len(output.Created))
		}
		if !output.Created[0].RolloverAmount.IsZero() {
			t.Errorf("expected zero opening carry, got %s", output.Created[0].RolloverAmount)
		}
	})

	t.Run("no template means nothing to do", func(t *testing.T) {
		budgets := newFakeBudgetRepo()
		output, err := newBackfill(budgets, &fakeTransactionRepo{}).Execute(context.Background(), CreateMissingPeriodsInput{
			Key: entity.ChainKey{OwnerID: uuid.New(), AccountID: uuid.New()},
			Now: date(2024, time.April, 15),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(output.Created) != 0 {
			t.Errorf("expected no created budgets, got %d", len(output.Created))
		}
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		template := testBudget(date(2024, time.January, 1), date(2024, time.January, 31), "1000", true)
		template.RefreshDay = 1
		budgets := newFakeBudgetRepo(template)
		backfill := newBackfill(budgets, &fakeTransactionRepo{})
		input := CreateMissingPeriodsInput{
			Key: entity.ChainKeyOf(template),
			Now: date(2024, time.April, 15),
		}

		first, err := backfill.Execute(context.Background(), input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(first.Created) != 3 {
			t.Fatalf("expected 3 created budgets, got %d", len(first.Created))
		}

		second, err := backfill.Execute(context.Background(), input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(second.Created) != 0 {
			t.Errorf("expected idempotent rerun, got %d new budgets", len(second.Created))
		}
	})

	t.Run("mid-month refresh day gap", func(t *testing.T) {
		template := testBudget(date(2024, time.January, 15), date(2024, time.February, 14), "800", true)
		template.RefreshDay = 15
		budgets := newFakeBudgetRepo(template)

		output, err := newBackfill(budgets, &fakeTransactionRepo{}).Execute(context.Background(), CreateMissingPeriodsInput{
			Key: entity.ChainKeyOf(template),
			Now: date(2024, time.March, 20),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(output.Created) != 2 {
			t.Fatalf("expected 2 created budgets, got %d", len(output.Created))
		}
		if !output.Created[0].StartDate.Equal(date(2024, time.February, 15)) {
			t.Errorf("expected start 2024-02-15, got %s", output.Created[0].StartDate)
		}
		if !output.Created[1].EndDate.Equal(date(2024, time.April, 14)) {
			t.Errorf("expected end 2024-04-14, got %s", output.Created[1].EndDate)
		}
	})
}
