package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
)

// DefaultSchedule runs the sweep every five minutes
const DefaultSchedule = "@every 5m"

// StaleSweeper closes stale game sessions
type StaleSweeper interface {
	SweepStale(ctx context.Context) (int64, error)
}

// SweepObserver receives the number of sessions closed per run
type SweepObserver interface {
	ObserveSweep(closed int64)
}

// Config holds sweeper settings
type Config struct {
	Schedule string
	Location *time.Location
	// Timeout bounds a single sweep run
	Timeout time.Duration
}

// Sweeper runs the stale session sweep on a cron schedule
type Sweeper struct {
	cron     *cron.Cron
	sweeper  StaleSweeper
	observer SweepObserver
	timeout  time.Duration
	logger   coreport.Logger
}

// NewSweeper validates the schedule and registers the sweep job
func NewSweeper(config Config, sweeper StaleSweeper, observer SweepObserver, logger coreport.Logger) (*Sweeper, error) {
	if config.Schedule == "" {
		config.Schedule = DefaultSchedule
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.Timeout <= 0 {
		config.Timeout = time.Minute
	}

	logger = logger.With(map[string]any{"component": "session_sweeper"})
	cl := cronLogger{logger: logger}

	s := &Sweeper{
		cron: cron.New(
			cron.WithLocation(config.Location),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		sweeper:  sweeper,
		observer: observer,
		timeout:  config.Timeout,
		logger:   logger,
	}

	if _, err := s.cron.AddFunc(config.Schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", config.Schedule, err)
	}
	return s, nil
}

// Start begins running the schedule in the background
func (s *Sweeper) Start() {
	s.logger.Info("Session sweeper started", nil)
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep or ctx expiry
func (s *Sweeper) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Session sweeper stopped", nil)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce performs one sweep; failures are logged and never propagated
func (s *Sweeper) RunOnce(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	closed, err := s.sweeper.SweepStale(ctx)
	if err != nil {
		s.logger.Warn("Session sweep failed", errs.LogFields(err))
		return 0
	}
	if s.observer != nil {
		s.observer.ObserveSweep(closed)
	}
	return closed
}

// cronLogger adapts core.Logger to cron.Logger
type cronLogger struct {
	logger coreport.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, kvFields(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	fields := kvFields(keysAndValues)
	fields["error"] = err.Error()
	l.logger.Error(msg, fields)
}

func kvFields(keysAndValues []any) map[string]any {
	fields := make(map[string]any, len(keysAndValues)/2+1)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
