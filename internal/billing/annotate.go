package billing

import (
	"fmt"
	"time"

	"github.com/cardstamp/loyalty/internal/model"
)

const periodDateFormat = "Jan 2, 2006"

// Annotate derives the human-readable period text and the accuracy flag
// for a stored billing period. The day thresholds classify the actual
// stored duration; accurate is true only when that class matches the
// plan's nominal duration. A mismatch (e.g. a monthly plan whose provider
// period is 45 days) is a data-quality alarm, not an error.
//
// Runs on every write that touches the period bounds, inside the same
// transaction as the write.
func Annotate(plan string, start, end time.Time) (text string, accurate bool) {
	days := int(end.Sub(start) / (24 * time.Hour))

	var suffix string
	switch {
	case days >= 350:
		suffix = "(1 year)"
		accurate = plan == model.PlanAnnual
	case days >= 150:
		suffix = "(6 months)"
		accurate = plan == model.PlanSemiannual
	case days >= 25:
		suffix = "(1 month)"
		accurate = plan == model.PlanMonthly || plan == model.PlanTrial
	default:
		suffix = fmt.Sprintf("(%d days)", days)
		accurate = false
	}

	text = fmt.Sprintf("%s – %s %s",
		start.Format(periodDateFormat), end.Format(periodDateFormat), suffix)
	return text, accurate
}
