package budget

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/budget-tracker/engine/internal/application/adapter"
	domainerror "github.com/budget-tracker/engine/internal/domain/error"
	"github.com/budget-tracker/engine/internal/domain/valueobject"
)

// RecalculateChainUseCase re-derives rollover for a period and everything
// after it. It runs whenever a transaction dated in a past, already-closed
// period is created, edited or deleted: that period's spend changed after its
// rollover was computed and propagated forward.
//
// Every step is a full recomputation, never an incremental delta, which makes
// the operation idempotent: running it twice with no intervening transaction
// changes yields identical carries.
type RecalculateChainUseCase struct {
	budgetRepo adapter.BudgetRepository
	aggregator *SpendAggregator
	closer     *ClosePeriodUseCase
}

// NewRecalculateChainUseCase creates a new RecalculateChainUseCase instance.
func NewRecalculateChainUseCase(
	budgetRepo adapter.BudgetRepository,
	aggregator *SpendAggregator,
	closer *ClosePeriodUseCase,
) *RecalculateChainUseCase {
	return &RecalculateChainUseCase{
		budgetRepo: budgetRepo,
		aggregator: aggregator,
		closer:     closer,
	}
}

// RecalculateChainInput identifies the starting budget and whether the
// recomputation propagates to subsequent periods.
type RecalculateChainInput struct {
	StartBudgetID uuid.UUID
	Propagate     bool
	Now           time.Time
}

// RecalculateChainOutput reports the periods recomputed by one run.
type RecalculateChainOutput struct {
	Recalculated int
	LastBudgetID uuid.UUID
}

// Execute recomputes the start budget's spent and remaining and, when
// propagation is requested, walks forward through every subsequent period of
// the chain in ascending date order. Each successor's opening carry is
// re-derived from its predecessor's freshly recomputed remaining; its own
// spend does not change, only the carry and hence the remaining.
//
// A failure mid-walk stops the chain at that point (it never skips and
// continues, which would leave downstream periods silently inconsistent) and
// is reported as a ChainRecalculationError carrying the last successfully
// recomputed budget id. Already-applied earlier updates are correct and are
// not rolled back.
func (uc *RecalculateChainUseCase) Execute(ctx context.Context, input RecalculateChainInput) (*RecalculateChainOutput, error) {
	start, err := uc.budgetRepo.FindByID(ctx, input.StartBudgetID)
	if err != nil {
		return nil, err
	}

	if !start.RolloverEnabled {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeRolloverDisabled,
			"budget does not roll over",
			domainerror.ErrRolloverDisabled,
		)
	}

	if !input.Propagate {
		if _, err := uc.closer.Execute(ctx, start, input.Now); err != nil {
			return nil, err
		}
		return &RecalculateChainOutput{Recalculated: 1, LastBudgetID: start.ID}, nil
	}

	chain, err := uc.budgetRepo.FindChainFrom(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget chain from %s: %w", start.ID, err)
	}
	if len(chain) > valueobject.MaxBackfillPeriods {
		// A chain longer than the backfill bound means corrupted period
		// data; recomputing it would loop for a very long time.
		chain = chain[:valueobject.MaxBackfillPeriods]
	}

	slog.Info("Recalculating rollover chain",
		"startBudgetID", start.ID,
		"chainLength", len(chain),
	)

	output := &RecalculateChainOutput{}
	var previousRemaining *ClosePeriodResult

	for i, current := range chain {
		// The carry only flows across adjacent periods. A hole in the
		// chain means a period row is missing; propagating across it
		// would silently assign the wrong carry.
		if i > 0 {
			expectedStart := chain[i-1].EndDate.AddDate(0, 0, 1)
			if !current.StartDate.Equal(expectedStart) {
				err := domainerror.NewBudgetError(
					domainerror.ErrCodePeriodNotFound,
					fmt.Sprintf("no period between %s and %s",
						chain[i-1].EndDate.Format("2006-01-02"),
						current.StartDate.Format("2006-01-02")),
					domainerror.ErrPeriodNotFound,
				)
				return output, uc.chainFailure(output, current.ID, err)
			}
		}

		// The start budget keeps its own opening carry: only its spend
		// changed. Successors get their carry re-derived from the
		// predecessor's fresh remaining.
		if i > 0 && previousRemaining != nil {
			if !current.RolloverAmount.Equal(previousRemaining.Remaining) {
				err := uc.budgetRepo.UpdateRollover(ctx, current.ID, previousRemaining.Remaining, current.Version)
				if err != nil {
					return output, uc.chainFailure(output, current.ID, err)
				}
				current.RolloverAmount = previousRemaining.Remaining
				current.Version++
			}
		}

		closed, err := uc.closer.Execute(ctx, current, input.Now)
		if err != nil {
			return output, uc.chainFailure(output, current.ID, err)
		}

		previousRemaining = closed
		output.Recalculated++
		output.LastBudgetID = current.ID
	}

	slog.Info("Rollover chain recalculation complete",
		"startBudgetID", start.ID,
		"recalculated", output.Recalculated,
	)

	return output, nil
}

// chainFailure wraps a mid-walk error with the partial-success position.
func (uc *RecalculateChainUseCase) chainFailure(output *RecalculateChainOutput, failedID uuid.UUID, err error) error {
	slog.Error("Chain recalculation stopped",
		"failedBudgetID", failedID,
		"lastGoodBudgetID", output.LastBudgetID,
		"error", err,
	)
	return &domainerror.ChainRecalculationError{
		LastGoodBudgetID: output.LastBudgetID,
		FailedBudgetID:   failedID,
		Err:              err,
	}
}
