package arrivals

import (
	"math"
	"time"
)

// MinutesUntil returns the whole minutes from now until eta, rounded half to even.
// Overdue buses give negative values.
func MinutesUntil(eta, now time.Time) int {
	return int(math.RoundToEven(eta.Sub(now).Minutes()))
}

// ParseTimestamp parses an ISO 8601 timestamp with a UTC offset, e.g. 2024-05-01T08:15:30+08:00.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &ParseError{What: "timestamp " + s, Err: err}
	}
	return t, nil
}
