// Package scheduler drives the aggregation loop. It owns the cross-pass
// state: the latest snapshot, the previous id-set for novelty marking, and
// the connectivity flag the API reports.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/educalvolpz/wwdc-tracker/internal/aggregate"
	"github.com/educalvolpz/wwdc-tracker/internal/config"
	"github.com/educalvolpz/wwdc-tracker/internal/core"
	"github.com/educalvolpz/wwdc-tracker/internal/event"
	"github.com/educalvolpz/wwdc-tracker/internal/observability/metrics"
)

// State describes what the loop is doing right now.
type State string

const (
	StateIdle     State = "idle"
	StateFetching State = "fetching"
)

// Scheduler times aggregation passes. The poll interval tightens while the
// event clock reports live; an optional cron expression forces extra passes
// on top of the timer.
type Scheduler struct {
	agg      *aggregate.Aggregator
	clock    *event.Clock
	refresh  config.RefreshConfig
	timezone string

	cron *cron.Cron
	now  func() time.Time

	passSeq atomic.Int64

	mu          sync.Mutex
	fetching    bool
	connected   bool
	prev        core.IDSet
	snapshot    core.Snapshot
	hasSnapshot bool
	nextRun     time.Time
}

func New(agg *aggregate.Aggregator, clock *event.Clock, refresh config.RefreshConfig, timezone string) *Scheduler {
	return &Scheduler{
		agg:      agg,
		clock:    clock,
		refresh:  refresh,
		timezone: timezone,
		now:      time.Now,
	}
}

// Start launches the poll loop and, when configured, the cron trigger. The
// first pass runs immediately so the API has data as soon as possible. Start
// returns once the loop is running; cancel ctx to stop it.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.refresh.Cron != "" {
		location := time.UTC
		if s.timezone != "" {
			tz, err := time.LoadLocation(s.timezone)
			if err != nil {
				return fmt.Errorf("load cron timezone: %w", err)
			}
			location = tz
		}
		s.cron = cron.New(cron.WithLocation(location))
		if _, err := s.cron.AddFunc(s.refresh.Cron, func() {
			s.run(ctx, core.TriggerCron)
		}); err != nil {
			return fmt.Errorf("add cron schedule: %w", err)
		}
		s.cron.Start()
	}

	go s.loop(ctx)
	return nil
}

// Stop halts the cron trigger and waits for a queued cron job to finish. The
// timer loop itself stops with the context given to Start.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// TriggerNow runs a pass immediately. It reports false without doing anything
// when a pass is already in flight, so a burst of refresh requests costs one
// fetch. The timer loop is not reset; the next scheduled pass still happens.
func (s *Scheduler) TriggerNow(ctx context.Context) bool {
	return s.run(ctx, core.TriggerManual)
}

// Snapshot returns the latest successful snapshot. ok is false until the
// first pass completes.
func (s *Scheduler) Snapshot() (snap core.Snapshot, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot, s.hasSnapshot
}

// Connected reports whether the last pass reached at least one source. A
// total failure keeps the previous snapshot and flips this to false.
func (s *Scheduler) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetching {
		return StateFetching
	}
	return StateIdle
}

// SecondsUntilNext reports time to the next timer pass, clipped at zero.
func (s *Scheduler) SecondsUntilNext() int {
	s.mu.Lock()
	next := s.nextRun
	s.mu.Unlock()
	if next.IsZero() {
		return 0
	}
	remaining := int(time.Until(next).Round(time.Second).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *Scheduler) loop(ctx context.Context) {
	s.run(ctx, core.TriggerTimer)
	for {
		interval := s.interval()
		s.mu.Lock()
		s.nextRun = s.now().Add(interval)
		s.mu.Unlock()

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.run(ctx, core.TriggerTimer)
		}
	}
}

// interval picks the poll cadence for the current moment. Live coverage polls
// tighter than idle hours.
func (s *Scheduler) interval() time.Duration {
	if s.clock.IsLive(s.now()) {
		return s.refresh.LiveInterval.Std()
	}
	return s.refresh.Interval.Std()
}

// run executes one pass under the in-flight guard. It reports false when a
// pass was already running.
func (s *Scheduler) run(ctx context.Context, trigger core.Trigger) bool {
	s.mu.Lock()
	if s.fetching {
		s.mu.Unlock()
		return false
	}
	s.fetching = true
	prev := s.prev
	s.mu.Unlock()

	passID := fmt.Sprintf("pass-%d", s.passSeq.Add(1))
	logger := core.LoggerFromContext(ctx).With("pass_id", passID, "trigger", string(trigger))
	ctx = core.WithLogger(ctx, logger)
	ctx = core.WithPassID(ctx, passID)
	ctx = core.WithTrigger(ctx, trigger)

	metrics.PassesTotal.WithLabelValues(string(trigger)).Inc()
	snap := s.agg.Run(ctx, prev)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetching = false

	if total := s.agg.NumSources(); total > 0 && len(snap.Errors) >= total {
		// Every source failed. Keep serving the previous snapshot rather
		// than replacing it with an empty one.
		s.connected = false
		logger.Warn("all sources failed, keeping previous snapshot", "sources", total)
		return true
	}

	s.connected = true
	s.snapshot = snap
	s.hasSnapshot = true
	s.prev = snap.IDs()
	return true
}
