// Package freshness decides whether a rate set may still be served and when
// it should be refreshed ahead of expiry.
package freshness

import "time"

// RefreshAheadLead is how long before hard expiry a proactive refresh is due.
const RefreshAheadLead = 30 * time.Second

// IsValid reports whether validUntil is strictly after now. A set expiring
// exactly now is expired.
func IsValid(validUntil, now time.Time) bool {
	return validUntil.After(now)
}

// RefreshAheadInstant is advisory; callers that poll use it to refetch
// before validUntil.
func RefreshAheadInstant(validUntil time.Time) time.Time {
	return validUntil.Add(-RefreshAheadLead)
}
