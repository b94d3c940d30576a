package folio

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the default period between two refresh cycles.
const DefaultInterval = 300 * time.Second

// State is the state of a Scheduler.
type State int32

const (
	Idle State = iota
	Refreshing
)

func (s State) String() string {
	if s == Refreshing {
		return "refreshing"
	}
	return "idle"
}

// CycleObserver is notified after every completed refresh cycle.
type CycleObserver interface {
	ObserveCycle(elapsed time.Duration, v Valuation)
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithObserver registers an observer of completed cycles.
func WithObserver(o CycleObserver) SchedulerOption {
	return func(s *Scheduler) { s.observer = o }
}

// Scheduler drives the refresh cycles of a Tracker: once at start, then every
// interval, and after every refresh request (successful add or remove).
//
// Cycles run one at a time on the goroutine calling Run. A tick or a request
// arriving during a cycle is deferred until the cycle completes; several of
// them are merged into a single cycle.
type Scheduler struct {
	tracker  *Tracker
	interval time.Duration
	logger   *zap.Logger
	observer CycleObserver

	state  atomic.Int32
	cycles atomic.Int64
}

// NewScheduler returns a scheduler refreshing t every interval.
// A non positive interval means DefaultInterval.
func NewScheduler(t *Tracker, interval time.Duration, logger *zap.Logger, opts ...SchedulerOption) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		tracker:  t,
		interval: interval,
		logger:   logger.Named("scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns whether a cycle is in progress.
func (s *Scheduler) State() State { return State(s.state.Load()) }

// Cycles returns the number of completed cycles.
func (s *Scheduler) Cycles() int64 { return s.cycles.Load() }

// Run refreshes until ctx is done, and returns ctx's error.
//
// A cycle that has started runs to completion even if ctx is cancelled meanwhile.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("scheduler started", zap.Duration("interval", s.interval))
	s.cycle(ctx, "start")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped", zap.Int64("cycles", s.Cycles()))
			return ctx.Err()
		case <-ticker.C:
			s.cycle(ctx, "tick")
		case <-s.tracker.Requests():
			s.cycle(ctx, "request")
		}
	}
}

// cycle runs a single refresh. A panic is logged and swallowed.
func (s *Scheduler) cycle(ctx context.Context, reason string) {
	if !s.state.CompareAndSwap(int32(Idle), int32(Refreshing)) {
		// unreachable as long as cycles are only run from Run.
		s.logger.Error("refresh cycle already in progress", zap.String("reason", reason))
		return
	}
	defer s.state.Store(int32(Idle))
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("refresh cycle failed", zap.String("reason", reason), zap.Error(panicError(r)))
		}
	}()

	start := time.Now()
	s.logger.Debug("refresh cycle started", zap.String("reason", reason))
	v := s.tracker.Refresh(context.WithoutCancel(ctx))
	elapsed := time.Since(start)
	s.cycles.Add(1)
	s.logger.Info("refresh cycle done",
		zap.String("reason", reason),
		zap.Int("rows", len(v.Rows)),
		zap.Strings("unavailable", v.Unavailable),
		zap.Stringer("total", v.Total),
		zap.Duration("elapsed", elapsed),
	)
	if s.observer != nil {
		s.observer.ObserveCycle(elapsed, v)
	}
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return errors.New(fmt.Sprint(r))
}
