// Package scheduler drives the periodic snapshot cycle on a cron
// schedule, separate from the request-serving path.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"GoldWatch/internal/analysis"
	"GoldWatch/internal/collector"
	"GoldWatch/internal/metrics"
	"GoldWatch/internal/model"
	"GoldWatch/internal/notifier"
	"GoldWatch/internal/server"
)

// Scheduler manages the update cron task.
type Scheduler struct {
	cron      *cron.Cron
	collector *collector.Collector
	engine    *analysis.Engine
	formatter *notifier.Formatter
	server    *server.Server
	log       zerolog.Logger
	ctx       context.Context
}

// NewScheduler creates a scheduler wiring the pipeline stages together.
func NewScheduler(ctx context.Context, col *collector.Collector, eng *analysis.Engine, fmtr *notifier.Formatter, srv *server.Server, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		collector: col,
		engine:    eng,
		formatter: fmtr,
		server:    srv,
		log:       log.With().Str("component", "scheduler").Logger(),
		ctx:       ctx,
	}
}

// Register adds the update task under the given cron expression.
func (s *Scheduler) Register(updateCron string) error {
	if _, err := s.cron.AddFunc(updateCron, s.cycle); err != nil {
		return fmt.Errorf("register update task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow executes one cycle immediately, for startup and the manual
// update endpoint.
func (s *Scheduler) RunNow() {
	s.cycle()
}

// cycle runs one full update: orchestrate, analyze, assemble, publish.
// Nothing in here may take the process down; a failed stage is logged and
// the next cycle runs on schedule.
func (s *Scheduler) cycle() {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("cycle panicked")
		}
	}()

	start := time.Now()
	s.log.Info().Msg("running update cycle")

	bundle := s.collector.Snapshot(s.ctx)
	snapshot := s.engine.Build(bundle)
	s.server.Publish(snapshot)

	metrics.CycleDuration.Observe(time.Since(start).Seconds())
	metrics.SnapshotsBuilt.Inc()

	s.log.Info().
		Float64("price", snapshot.Instrument.Price).
		Str("driver", snapshot.PrimaryDriver).
		Str("session", snapshot.Session).
		Dur("took", time.Since(start)).
		Msg("cycle complete")
	s.logRendering(snapshot)
}

func (s *Scheduler) logRendering(snapshot *model.MarketSnapshot) {
	s.log.Info().Msg("\n" + s.formatter.Render(snapshot))
}
