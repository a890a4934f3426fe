package retention

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chetarea/tarea-api/internal/platform/logger"
	"github.com/chetarea/tarea-api/internal/redact"
	"github.com/robfig/cron/v3"
)

// Deleter removes tasks whose retention deadline is at or before now and
// reports how many were removed.
type Deleter interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock backed by time.Now.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// ErrAlreadyStarted is returned by Start on a running sweeper.
var ErrAlreadyStarted = errors.New("retention sweeper already started")

// Result describes a single sweep.
type Result struct {
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration"`
	DeletedCount int64         `json:"deleted_count"`
	Err          error         `json:"-"`
}

// Succeeded reports whether the sweep completed without error.
func (r Result) Succeeded() bool { return r.Err == nil }

// Sweeper periodically deletes expired tasks.
type Sweeper struct {
	deleter  Deleter
	clock    Clock
	spec     string
	schedule cron.Schedule
	location *time.Location
	logger   *slog.Logger

	runMu sync.Mutex // serializes sweeps

	mu      sync.Mutex
	cron    *cron.Cron
	last    Result
	hasLast bool
}

// NewSweeper validates the cron spec and builds a stopped sweeper. A nil
// clock uses SystemClock, a nil location uses time.Local.
func NewSweeper(deleter Deleter, clock Clock, spec string, location *time.Location, log *slog.Logger) (*Sweeper, error) {
	if deleter == nil {
		panic("deleter cannot be nil")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if location == nil {
		location = time.Local
	}
	if log == nil {
		log = slog.Default()
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid retention schedule %q: %w", spec, err)
	}

	return &Sweeper{
		deleter:  deleter,
		clock:    clock,
		spec:     spec,
		schedule: schedule,
		location: location,
		logger:   log.With(slog.String("component", "retention_sweeper")),
	}, nil
}

// Start registers the sweep with a cron scheduler and starts it. Scheduled
// sweeps inherit ctx's values but not its cancellation.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return ErrAlreadyStarted
	}

	runCtx := context.WithoutCancel(ctx)
	cronLog := cronLogger{logger: s.logger}
	c := cron.New(
		cron.WithLocation(s.location),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() {
		s.RunOnce(runCtx)
	}))
	c.Start()
	s.cron = c

	logger.FromContextOrDefault(ctx, s.logger).Info("retention sweeper started",
		slog.String("schedule", s.spec),
		slog.String("timezone", s.location.String()),
		slog.Time("next_run", s.NextRun()))
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish or for
// ctx to expire. Stopping a sweeper that was never started is a no-op.
func (s *Sweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return nil
	}

	done := c.Stop()
	select {
	case <-done.Done():
		s.logger.Info("retention sweeper stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for running sweep: %w", ctx.Err())
	}
}

// RunOnce performs a sweep synchronously and returns its result. Concurrent
// calls are serialized.
func (s *Sweeper) RunOnce(ctx context.Context) Result {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.clock.Now()

	deleted, err := s.deleter.DeleteExpired(ctx, now)
	result := Result{
		StartedAt:    now,
		Duration:     s.clock.Now().Sub(now),
		DeletedCount: deleted,
		Err:          err,
	}

	if err != nil {
		result.DeletedCount = 0
		log.Error("retention sweep failed", slog.String("error", redact.Error(err)))
	} else {
		log.Info("retention sweep completed",
			slog.Int64("deleted_count", deleted),
			slog.Duration("duration", result.Duration))
	}

	s.mu.Lock()
	s.last = result
	s.hasLast = true
	s.mu.Unlock()

	return result
}

// LastResult returns the most recent sweep result, if any sweep has run.
func (s *Sweeper) LastResult() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

// NextRun reports when the schedule fires next, relative to the sweeper's clock.
func (s *Sweeper) NextRun() time.Time {
	return s.schedule.Next(s.clock.Now().In(s.location))
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
