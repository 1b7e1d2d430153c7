package freshness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	now := time.Date(2024, 11, 20, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name       string
		validUntil time.Time
		expected   bool
	}{
		{name: "future", validUntil: now.Add(time.Minute), expected: true},
		{name: "one nanosecond ahead", validUntil: now.Add(time.Nanosecond), expected: true},
		{name: "exactly now", validUntil: now, expected: false},
		{name: "past", validUntil: now.Add(-time.Second), expected: false},
		{name: "zero", validUntil: time.Time{}, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsValid(tc.validUntil, now))
		})
	}
}

func TestRefreshAheadInstant(t *testing.T) {
	validUntil := time.Date(2024, 11, 20, 12, 5, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 11, 20, 12, 4, 30, 0, time.UTC), RefreshAheadInstant(validUntil))
}
