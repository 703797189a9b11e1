package core

import (
	"context"
	"time"
)

// TimeProvider abstracts time operations for the domain.
// Now is expressed in the server timezone returned by Location, which also
// defines the calendar day used for daily transfer caps.
type TimeProvider interface {
	Now() time.Time
	Location() *time.Location
	Since(t time.Time) time.Duration
	Sleep(ctx context.Context, d time.Duration) error
	WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc)
}

// StartOfDay returns local midnight of the day containing t in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
