package billing

import (
	"fmt"
	"time"

	"github.com/cardstamp/loyalty/internal/model"
)

// trialDays is the fixed trial length. Trials are not calendar-aware.
const trialDays = 30

// PeriodEnd computes the end of the billing period that starts at start.
// Paid plans advance by calendar months/years with end-of-month clamping
// (Jan 31 + 1 month = Feb 28/29), trials by a fixed 30 days. Pure and
// deterministic.
func PeriodEnd(plan string, start time.Time) (time.Time, error) {
	switch plan {
	case model.PlanTrial:
		return start.Add(trialDays * 24 * time.Hour), nil
	case model.PlanMonthly:
		return addMonthsClamped(start, 1), nil
	case model.PlanSemiannual:
		return addMonthsClamped(start, 6), nil
	case model.PlanAnnual:
		return addMonthsClamped(start, 12), nil
	default:
		return time.Time{}, fmt.Errorf("plan %q: %w", plan, ErrUnknownPlan)
	}
}

// addMonthsClamped advances t by the given number of calendar months,
// keeping the day of month and clamping to the last day when the target
// month is shorter. time.Time.AddDate is unsuitable here: it normalizes
// Jan 31 + 1 month to Mar 2/3 instead of clamping to Feb.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	target := time.Date(y, m, 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	if last := daysInMonth(target.Year(), target.Month()); d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysInMonth returns the number of days in the given month. Day 0 of the
// following month normalizes to its last day.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
