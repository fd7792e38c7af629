package core

import (
	"time"
)

// Timestamp represents a point in time with timezone awareness
type Timestamp time.Time

// Now returns the current timestamp
func Now() Timestamp {
	return Timestamp(time.Now())
}

// Time returns the underlying time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero checks if the timestamp is zero
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// Format renders the timestamp the way the dashboard footer shows it
func (t Timestamp) Format() string {
	if t.IsZero() {
		return "—"
	}
	return time.Time(t).Format("02/01/2006 15:04:05")
}
