package pipeline

import (
	"time"

	"sortwatch/internal/backlog"
	"sortwatch/internal/classify"
	"sortwatch/internal/metrics"
	"sortwatch/internal/resolve"
	"sortwatch/internal/track"
	"sortwatch/internal/warehouse"

	"github.com/rs/zerolog/log"
)

// Options are the tunables the compute stages honor.
type Options struct {
	WindowDays      int
	AggTrailingDays int
	AggLeadingDays  int
	CarrierPrefixes []string
}

// Result is the full output of one run's compute phase.
type Result struct {
	Packages   []track.ClassifiedPackage
	Aggregates []track.AggregateRow
}

// Compute executes the fourteen pipeline stages over a materialized
// snapshot. Pure with respect to the database: identical snapshots produce
// identical results, which is what makes re-runs idempotent.
func Compute(snap *warehouse.Snapshot, runTime time.Time, opts Options) Result {
	// Resolvers (stages 1-6): reduce each source stream to latest state.
	nodes := timed("resolve_nodes", func() map[string]resolve.NodeInfo {
		return resolve.ResolveNodes(snap.Nodes, runTime)
	})
	manifests := timed("resolve_manifests", func() resolve.ManifestSet {
		return resolve.ResolveManifests(snap.Manifests, runTime, opts.WindowDays)
	})
	sidelined := timed("resolve_sidelined", func() resolve.SidelineSet {
		markers := append(snap.Sidelined, resolve.SidelinedFromFacility(snap.FacilityEvents)...)
		return resolve.ResolveSidelined(markers, runTime, opts.WindowDays)
	})
	facility := timed("resolve_facility", func() resolve.FacilitySet {
		return resolve.ResolveFacility(snap.FacilityEvents, runTime, opts.WindowDays)
	})
	transport := timed("resolve_transport", func() resolve.TransportSet {
		return resolve.ResolveTransport(snap.TransportEvents, runTime, opts.WindowDays)
	})
	types := resolve.ClassifyNodeTypes(snap.NodeFlow)

	// Joiner (stage 7): one row per package, re-slam rows excluded.
	resolved := timed("join_packages", func() []track.ResolvedPackage {
		return classify.JoinPackages(manifests, facility, transport, opts.CarrierPrefixes)
	})

	// Route and clock context (stages 8-9).
	clock := classify.BuildOperatingClock(snap.OperatingClocks)
	routes := classify.BuildRouteIndex(snap.VehicleRoutes, runTime, opts.WindowDays)

	// Same-day counters (stage 13) need the station assignment of every
	// surviving package.
	stations := make(map[string]string, len(resolved))
	for _, p := range resolved {
		stations[p.TrackingID] = p.Station
	}
	counters := timed("count_same_day", func() map[string]classify.Counters {
		return classify.CountSameDay(snap.FacilityEvents, stations, nodes, runTime)
	})

	// Classification (stages 10-12): upstream counts, two-pass cascade,
	// backlog flags.
	classified := timed("classify", func() []track.ClassifiedPackage {
		out := make([]track.ClassifiedPackage, 0, len(resolved))
		for _, p := range resolved {
			counts := classify.ComputeUpstream(p, transport, types, routes)
			in := classify.Input{Pkg: p, Sidelined: sidelined[p.TrackingID], Counts: counts}
			c := classify.Classify(in, routes, clock, runTime)
			flags := classify.AssignFlags(c)
			day := counters[p.TrackingID]

			out = append(out, track.ClassifiedPackage{
				ResolvedPackage:     p,
				SubStatus:           c.Sub,
				Primary:             c.Primary,
				Rule:                c.Rule,
				RouteID:             c.RouteID,
				CommitmentTime:      c.CommitmentTime,
				CommitmentEffective: c.CommitmentEffective,
				ArrivalTime:         c.ArrivalTime,
				OnTime:              c.OnTime,
				Backlog:             flags.Backlog,
				Upstream:            flags.Upstream,
				InStation:           flags.InStation,
				LongHaul:            flags.LongHaul,
				InductedToday:       day.InductedToday,
				DispatchedToday:     day.DispatchedToday,
				DispatchedIn7d:      day.DispatchedIn7d,
				DeliveredToday:      day.DeliveredToday,
			})
			metrics.PackagesClassified.WithLabelValues(string(c.Primary)).Inc()
		}
		return out
	})

	// Aggregation (stage 14).
	rows := timed("aggregate", func() []track.AggregateRow {
		return backlog.Aggregate(classified, runTime, opts.AggTrailingDays, opts.AggLeadingDays)
	})

	log.Info().
		Int("packages", len(classified)).
		Int("aggregateRows", len(rows)).
		Msg("Compute phase complete")
	return Result{Packages: classified, Aggregates: rows}
}

// timed runs a stage and records its duration.
func timed[T any](stage string, fn func() T) T {
	start := time.Now()
	out := fn()
	dur := time.Since(start)
	metrics.StageDuration.WithLabelValues(stage).Observe(dur.Seconds())
	log.Debug().Str("stage", stage).Dur("took", dur).Msg("Stage finished")
	return out
}
