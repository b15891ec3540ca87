package model

// Subscription status constants.
const (
	StatusActive    = "active"
	StatusPastDue   = "past_due"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// ValidStatus reports whether s is one of the known subscription statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusPastDue, StatusCancelled, StatusExpired:
		return true
	}
	return false
}
