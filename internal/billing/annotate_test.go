package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cardstamp/loyalty/internal/model"
)

func TestAnnotate_MonthlyDurationAccurate(t *testing.T) {
	start := date(2024, time.January, 1)
	end := start.Add(31 * 24 * time.Hour)

	text, accurate := Annotate(model.PlanMonthly, start, end)
	assert.True(t, accurate)
	assert.Equal(t, "Jan 1, 2024 – Feb 1, 2024 (1 month)", text)
}

// The same 31-day period stored against an annual plan signals
// provider-side drift.
func TestAnnotate_MonthlyDurationOnAnnualPlanInaccurate(t *testing.T) {
	start := date(2024, time.January, 1)
	end := start.Add(31 * 24 * time.Hour)

	text, accurate := Annotate(model.PlanAnnual, start, end)
	assert.False(t, accurate)
	assert.Contains(t, text, "(1 month)")
}

func TestAnnotate_TrialCountsAsMonthClass(t *testing.T) {
	start := date(2024, time.June, 1)
	end := start.Add(30 * 24 * time.Hour)

	_, accurate := Annotate(model.PlanTrial, start, end)
	assert.True(t, accurate)
}

func TestAnnotate_YearClass(t *testing.T) {
	start := date(2024, time.January, 1)

	text, accurate := Annotate(model.PlanAnnual, start, start.AddDate(1, 0, 0))
	assert.True(t, accurate)
	assert.Equal(t, "Jan 1, 2024 – Jan 1, 2025 (1 year)", text)

	// 350 days is the lower bound of the year class.
	_, accurate = Annotate(model.PlanAnnual, start, start.Add(350*24*time.Hour))
	assert.True(t, accurate)

	_, accurate = Annotate(model.PlanAnnual, start, start.Add(349*24*time.Hour))
	assert.False(t, accurate)
}

func TestAnnotate_SixMonthClass(t *testing.T) {
	start := date(2024, time.January, 15)
	end := start.AddDate(0, 6, 0)

	text, accurate := Annotate(model.PlanSemiannual, start, end)
	assert.True(t, accurate)
	assert.Contains(t, text, "(6 months)")

	_, accurate = Annotate(model.PlanMonthly, start, end)
	assert.False(t, accurate)
}

// Periods shorter than 25 days are spelled out in days and are never
// accurate for any plan.
func TestAnnotate_ShortPeriodNeverAccurate(t *testing.T) {
	start := date(2024, time.March, 1)
	end := start.Add(10 * 24 * time.Hour)

	for _, plan := range []string{model.PlanTrial, model.PlanMonthly, model.PlanSemiannual, model.PlanAnnual} {
		text, accurate := Annotate(plan, start, end)
		assert.False(t, accurate, plan)
		assert.Equal(t, "Mar 1, 2024 – Mar 11, 2024 (10 days)", text, plan)
	}
}

func TestAnnotate_PartialDaysTruncate(t *testing.T) {
	start := date(2024, time.March, 1)
	end := start.Add(26*24*time.Hour + 12*time.Hour)

	_, accurate := Annotate(model.PlanMonthly, start, end)
	assert.True(t, accurate)
}
