package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"sortwatch/internal/backlog"
	"sortwatch/internal/config"
	"sortwatch/internal/metrics"
	"sortwatch/internal/publish"
	"sortwatch/internal/warehouse"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Runner executes scheduled pipeline runs. Runs are serialized: the design
// assumes a single writer, so an overlapping trigger is skipped, not queued.
type Runner struct {
	store   *warehouse.Store
	objects *publish.ObjectPublisher
	cfg     *config.AppConfig
	busy    atomic.Bool
}

func NewRunner(store *warehouse.Store, objects *publish.ObjectPublisher, cfg *config.AppConfig) *Runner {
	return &Runner{store: store, objects: objects, cfg: cfg}
}

// RunOnce executes one complete, all-or-nothing pipeline run: snapshot load,
// compute, atomic publish, checkpoint. Any stage failure aborts before the
// publish step; the next scheduled run is the retry.
func (r *Runner) RunOnce(ctx context.Context) error {
	if !r.busy.CompareAndSwap(false, true) {
		metrics.RunsTotal.WithLabelValues("skipped").Inc()
		log.Warn().Msg("Previous run still active, skipping")
		return nil
	}
	defer r.busy.Store(false)

	runID := uuid.NewString()
	runTime := time.Now().UTC()
	start := time.Now()
	logger := log.With().Str("run", runID[:8]).Logger()
	logger.Info().Time("runTime", runTime).Msg("Pipeline run starting")

	err := r.execute(ctx, runID, runTime)
	if err != nil {
		metrics.RunsTotal.WithLabelValues("failure").Inc()
		logger.Error().Err(err).Dur("took", time.Since(start)).Msg("Pipeline run failed")
		return err
	}

	metrics.RunsTotal.WithLabelValues("success").Inc()
	logger.Info().Dur("took", time.Since(start)).Msg("Pipeline run complete")
	return nil
}

func (r *Runner) execute(ctx context.Context, runID string, runTime time.Time) error {
	// 1. Materialize the input window.
	snap, err := r.store.LoadSnapshot(ctx, runTime, r.cfg.WindowDays)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if len(snap.Nodes) == 0 {
		// An empty reference table means the source schema moved or the feed
		// is broken; publishing against it would wipe the shared tables.
		return fmt.Errorf("node reference table is empty, aborting run")
	}

	// 2. Compute.
	result := Compute(snap, runTime, Options{
		WindowDays:      r.cfg.WindowDays,
		AggTrailingDays: r.cfg.AggTrailingDays,
		AggLeadingDays:  r.cfg.AggLeadingDays,
		CarrierPrefixes: r.cfg.CarrierPrefixes,
	})

	// 3. Publish, per-package table first so the aggregate never references
	// statuses consumers cannot look up.
	if err := publish.PublishPackageStatus(ctx, r.store.Pool(), runID, result.Packages); err != nil {
		return err
	}

	payload, err := backlog.EncodeCSV(result.Aggregates)
	if err != nil {
		return err
	}
	if err := r.objects.PublishAggregate(ctx, runID, runTime, payload); err != nil {
		return err
	}
	metrics.AggregateRows.Set(float64(len(result.Aggregates)))

	// 4. Checkpoint.
	marker := warehouse.RunMarker{
		RunID:       runID,
		WindowStart: runTime.AddDate(0, 0, -r.cfg.WindowDays),
		WindowEnd:   runTime,
		Packages:    len(result.Packages),
		Aggregates:  len(result.Aggregates),
		FinishedAt:  time.Now().UTC(),
	}
	if err := publish.WriteRunMarker(ctx, r.store.Pool(), marker); err != nil {
		return err
	}
	return nil
}

// RunIfStale executes a run only when the last checkpoint is older than
// maxAge. A missing checkpoint always runs.
func (r *Runner) RunIfStale(ctx context.Context, maxAge time.Duration) error {
	marker, ok, err := r.store.LastRunMarker(ctx)
	if err != nil {
		return err
	}
	if ok && time.Since(marker.FinishedAt) < maxAge {
		log.Info().
			Str("lastRun", marker.RunID[:8]).
			Time("finishedAt", marker.FinishedAt).
			Msg("Last run is fresh enough, skipping")
		return nil
	}
	return r.RunOnce(ctx)
}

// Schedule runs the pipeline on a fixed cadence until ctx is cancelled.
// The first run fires immediately.
func (r *Runner) Schedule(ctx context.Context, interval time.Duration) {
	if err := r.RunOnce(ctx); err != nil {
		log.Error().Err(err).Msg("Scheduled run failed, will retry next tick")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Scheduler stopping")
			return
		case <-ticker.C:
			if err := r.RunOnce(ctx); err != nil {
				log.Error().Err(err).Msg("Scheduled run failed, will retry next tick")
			}
		}
	}
}
