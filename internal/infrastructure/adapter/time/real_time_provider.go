package time

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
)

// RealTimeProvider implements the TimeProvider interface with the wall clock,
// expressed in the configured server timezone
type RealTimeProvider struct {
	loc *time.Location
}

// NewRealTimeProvider creates a time provider in the process local timezone
func NewRealTimeProvider() core.TimeProvider {
	return &RealTimeProvider{loc: time.Local}
}

// NewRealTimeProviderIn creates a time provider whose Now is expressed in loc
func NewRealTimeProviderIn(loc *time.Location) core.TimeProvider {
	if loc == nil {
		loc = time.Local
	}
	return &RealTimeProvider{loc: loc}
}

// Now returns the current time
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().In(p.loc)
}

// Location returns the server timezone
func (p *RealTimeProvider) Location() *time.Location {
	return p.loc
}

// Since returns the time elapsed since t
func (p *RealTimeProvider) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// Sleep pauses for d or until ctx is done
func (p *RealTimeProvider) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WithTimeout returns a context that will be canceled after the specified timeout
func (p *RealTimeProvider) WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}
