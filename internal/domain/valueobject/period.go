// Package valueobject holds immutable domain values.
package valueobject

import (
	"fmt"
	"time"

	domainerror "github.com/budget-tracker/engine/internal/domain/error"
)

// ValidRefreshDays are the days of month a budget cycle may start on. The set
// avoids days 29-31 so every month has the anchor day.
var ValidRefreshDays = []int{1, 5, 10, 15, 20, 25}

// MaxBackfillPeriods bounds how many consecutive periods a single backfill or
// chain walk may cover. A gap larger than this means abandoned or corrupted
// data, not a real catch-up.
const MaxBackfillPeriods = 120

// Period is one budget cycle anchored to a refresh day: it runs from the
// refresh day of its anchor month through the day before the refresh day of
// the following month.
type Period struct {
	Year       int
	Month      time.Month
	RefreshDay int
	Start      time.Time
	End        time.Time
}

// IsValidRefreshDay reports whether day is an allowed cycle anchor.
func IsValidRefreshDay(day int) bool {
	for _, d := range ValidRefreshDays {
		if d == day {
			return true
		}
	}
	return false
}

// NewPeriod builds the period anchored at refreshDay of the given month.
func NewPeriod(year int, month time.Month, refreshDay int) (Period, error) {
	if !IsValidRefreshDay(refreshDay) {
		return Period{}, domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidRefreshDay,
			fmt.Sprintf("refresh day %d is not one of the allowed cycle anchors", refreshDay),
			domainerror.ErrInvalidRefreshDay,
		)
	}

	start := time.Date(year, month, refreshDay, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).AddDate(0, 0, -1)

	return Period{
		Year:       start.Year(),
		Month:      start.Month(),
		RefreshDay: refreshDay,
		Start:      start,
		End:        end,
	}, nil
}

// CurrentPeriod returns the period containing date. A date before the refresh
// day belongs to the previous month's period.
func CurrentPeriod(date time.Time, refreshDay int) (Period, error) {
	year, month := date.Year(), date.Month()
	if date.Day() < refreshDay {
		anchor := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
		year, month = anchor.Year(), anchor.Month()
	}
	return NewPeriod(year, month, refreshDay)
}

// Next returns the period immediately after p.
func (p Period) Next() (Period, error) {
	anchor := p.Start.AddDate(0, 1, 0)
	return NewPeriod(anchor.Year(), anchor.Month(), p.RefreshDay)
}

// Previous returns the period immediately before p.
func (p Period) Previous() (Period, error) {
	anchor := p.Start.AddDate(0, -1, 0)
	return NewPeriod(anchor.Year(), anchor.Month(), p.RefreshDay)
}

// Key identifies the period by its start date, "YYYY-MM-DD".
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d-%02d", p.Start.Year(), p.Start.Month(), p.Start.Day())
}

// Label is the ledger label of the period, "YYYY-MM" of its end date. Using
// the end date names the month the cycle mostly covers for late refresh days.
func (p Period) Label() string {
	return p.End.Format("2006-01")
}

// Contains reports whether date falls inside the period, boundaries included.
func (p Period) Contains(date time.Time) bool {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(p.Start) && !day.After(p.End)
}

// MissingPeriods returns, in ascending order, every period between the end of
// the last known period and now, including the period containing now. An
// up-to-date chain yields an empty slice. A gap wider than MaxBackfillPeriods
// returns ErrBackfillWindowExceeded.
func MissingPeriods(lastPeriodEnd, now time.Time, refreshDay int) ([]Period, error) {
	if !lastPeriodEnd.Before(now) {
		return nil, nil
	}

	current, err := CurrentPeriod(lastPeriodEnd.AddDate(0, 0, 1), refreshDay)
	if err != nil {
		return nil, err
	}

	var periods []Period
	seen := make(map[string]struct{})

	for !current.Start.After(now) {
		if len(periods) >= MaxBackfillPeriods {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeBackfillWindowExceeded,
				fmt.Sprintf("more than %d periods missing since %s", MaxBackfillPeriods, lastPeriodEnd.Format("2006-01-02")),
				domainerror.ErrBackfillWindowExceeded,
			)
		}
		if _, ok := seen[current.Key()]; !ok {
			seen[current.Key()] = struct{}{}
			periods = append(periods, current)
		}
		current, err = current.Next()
		if err != nil {
			return nil, err
		}
	}

	return periods, nil
}
