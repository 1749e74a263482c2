package publish

import (
	"context"
	"fmt"
	"time"

	"sortwatch/internal/track"
	"sortwatch/internal/warehouse"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// statusTable is the shared per-package status table read by consumers.
const statusTable = "package_status"

// statusColumns matches the staging table definition below.
var statusColumns = []string{
	"tracking_id", "container_id", "shipment_id", "package_id", "station",
	"ship_method", "state_status", "sub_status", "primary_status", "rule",
	"route_id", "commitment_time", "commitment_effective", "arrival_time", "on_time",
	"backlog", "upstream", "in_station", "long_haul",
	"inducted_today", "dispatched_today", "dispatched_7d", "delivered_today",
}

// PublishPackageStatus replaces the shared per-package status table
// atomically: the new version is built in full inside a run-scoped staging
// table, then swapped in with a single rename transaction. Readers only ever
// see the previous or the complete new table.
func PublishPackageStatus(ctx context.Context, pool *pgxpool.Pool, runID string, pkgs []track.ClassifiedPackage) error {
	staging := fmt.Sprintf("package_status_staging_%s", runID[:8])

	// 1. Build the staging table in isolation.
	if _, err := pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE %s (
			tracking_id          text PRIMARY KEY,
			container_id         text,
			shipment_id          text,
			package_id           text,
			station              text NOT NULL,
			ship_method          text,
			state_status         text NOT NULL,
			sub_status           text NOT NULL,
			primary_status       text NOT NULL,
			rule                 text,
			route_id             text,
			commitment_time      timestamptz,
			commitment_effective timestamptz,
			arrival_time         timestamptz,
			on_time              boolean NOT NULL,
			backlog              boolean NOT NULL,
			upstream             boolean NOT NULL,
			in_station           boolean NOT NULL,
			long_haul            boolean NOT NULL,
			inducted_today       boolean NOT NULL,
			dispatched_today     boolean NOT NULL,
			dispatched_7d        boolean NOT NULL,
			delivered_today      boolean NOT NULL
		)`, staging)); err != nil {
		return fmt.Errorf("publish: create staging table: %w", err)
	}

	// 2. Bulk load via COPY.
	_, err := pool.CopyFrom(ctx, pgx.Identifier{staging}, statusColumns,
		pgx.CopyFromSlice(len(pkgs), func(i int) ([]any, error) {
			p := pkgs[i]
			return []any{
				p.TrackingID, p.ContainerID, p.ShipmentID, p.PackageID, p.Station,
				p.ShipMethod, p.StateStatus, string(p.SubStatus), string(p.Primary), p.Rule,
				p.RouteID, nullTime(p.CommitmentTime), nullTime(p.CommitmentEffective), nullTime(p.ArrivalTime), p.OnTime,
				p.Backlog, p.Upstream, p.InStation, p.LongHaul,
				p.InductedToday, p.DispatchedToday, p.DispatchedIn7d, p.DeliveredToday,
			}, nil
		}))
	if err != nil {
		dropStaging(ctx, pool, staging)
		return fmt.Errorf("publish: copy into staging: %w", err)
	}

	// 3. Swap: a single transaction drops the old table and renames the
	// staging table into its place.
	tx, err := pool.Begin(ctx)
	if err != nil {
		dropStaging(ctx, pool, staging)
		return fmt.Errorf("publish: begin swap: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, statusTable)); err != nil {
		return fmt.Errorf("publish: drop previous table: %w", err)
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf(`ALTER TABLE %s RENAME TO %s`, staging, statusTable)); err != nil {
		return fmt.Errorf("publish: rename staging: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("publish: commit swap: %w", err)
	}

	log.Info().Str("run", runID).Int("packages", len(pkgs)).Msg("Package status table published")
	return nil
}

// WriteRunMarker records the run checkpoint after a successful publish.
func WriteRunMarker(ctx context.Context, pool *pgxpool.Pool, m warehouse.RunMarker) error {
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS sortwatch_run_marker (
			run_id          text PRIMARY KEY,
			window_start    timestamptz NOT NULL,
			window_end      timestamptz NOT NULL,
			package_count   integer NOT NULL,
			aggregate_count integer NOT NULL,
			finished_at     timestamptz NOT NULL
		)`); err != nil {
		return fmt.Errorf("publish: ensure marker table: %w", err)
	}
	if _, err := pool.Exec(ctx, `
		INSERT INTO sortwatch_run_marker (run_id, window_start, window_end, package_count, aggregate_count, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.RunID, m.WindowStart, m.WindowEnd, m.Packages, m.Aggregates, m.FinishedAt); err != nil {
		return fmt.Errorf("publish: write run marker: %w", err)
	}
	return nil
}

func dropStaging(ctx context.Context, pool *pgxpool.Pool, staging string) {
	if _, err := pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, staging)); err != nil {
		log.Warn().Err(err).Str("table", staging).Msg("Failed to drop staging table")
	}
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
