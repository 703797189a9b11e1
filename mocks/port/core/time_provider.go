package core

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
)

// MockTimeProvider is a testify mock of core.TimeProvider
type MockTimeProvider struct {
	mock.Mock
}

var _ coreport.TimeProvider = (*MockTimeProvider)(nil)

// NewMockTimeProvider creates a mock that asserts its expectations on cleanup
func NewMockTimeProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTimeProvider {
	m := &MockTimeProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Now mocks TimeProvider.Now
func (m *MockTimeProvider) Now() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

// Location mocks TimeProvider.Location
func (m *MockTimeProvider) Location() *time.Location {
	args := m.Called()
	if loc, ok := args.Get(0).(*time.Location); ok {
		return loc
	}
	return time.UTC
}

// Since mocks TimeProvider.Since
func (m *MockTimeProvider) Since(t time.Time) time.Duration {
	args := m.Called(t)
	return args.Get(0).(time.Duration)
}

// Sleep mocks TimeProvider.Sleep
func (m *MockTimeProvider) Sleep(ctx context.Context, d time.Duration) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

// WithTimeout mocks TimeProvider.WithTimeout
func (m *MockTimeProvider) WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	args := m.Called(ctx, timeout)
	return args.Get(0).(context.Context), args.Get(1).(context.CancelFunc)
}

// FixedTimeProvider is a stub TimeProvider returning a constant instant
type FixedTimeProvider struct {
	At  time.Time
	Loc *time.Location
}

var _ coreport.TimeProvider = FixedTimeProvider{}

// Now returns the fixed instant in the configured location
func (f FixedTimeProvider) Now() time.Time { return f.At.In(f.Location()) }

// Location returns the configured location, UTC by default
func (f FixedTimeProvider) Location() *time.Location {
	if f.Loc == nil {
		return time.UTC
	}
	return f.Loc
}

// Since measures from the fixed instant
func (f FixedTimeProvider) Since(t time.Time) time.Duration { return f.At.Sub(t) }

// Sleep returns immediately unless ctx is already done
func (f FixedTimeProvider) Sleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

// WithTimeout delegates to context.WithTimeout
func (f FixedTimeProvider) WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}
