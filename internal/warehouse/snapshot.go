package warehouse

import (
	"context"
	"time"

	"sortwatch/internal/resolve"
	"sortwatch/internal/track"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Snapshot is the fully materialized input window for one run. The compute
// stages operate on this struct alone, so the pipeline core never touches
// the database.
type Snapshot struct {
	Nodes           []track.Node
	Manifests       []track.ManifestRecord
	FacilityEvents  []track.FacilityEvent
	TransportEvents []track.TransportEvent
	NodeFlow        []resolve.NodeFlowRecord
	OperatingClocks []track.OperatingWindow
	VehicleRoutes   []track.VehicleRoute
	Sidelined       []resolve.SidelineRecord
}

// LoadSnapshot bulk-reads all seven source tables concurrently. Any failed
// read fails the whole load: a run must never start from a partial window.
func (s *Store) LoadSnapshot(ctx context.Context, runTime time.Time, windowDays int) (*Snapshot, error) {
	since := runTime.AddDate(0, 0, -windowDays)
	snap := &Snapshot{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { snap.Nodes, err = s.Nodes(ctx); return })
	g.Go(func() (err error) { snap.Manifests, err = s.Manifests(ctx, since); return })
	g.Go(func() (err error) { snap.FacilityEvents, err = s.FacilityEvents(ctx, since); return })
	g.Go(func() (err error) { snap.TransportEvents, err = s.TransportEvents(ctx, since); return })
	g.Go(func() (err error) { snap.NodeFlow, err = s.NodeFlow(ctx); return })
	g.Go(func() (err error) { snap.OperatingClocks, err = s.OperatingWindows(ctx, since); return })
	g.Go(func() (err error) { snap.VehicleRoutes, err = s.VehicleRoutes(ctx, since); return })
	g.Go(func() (err error) { snap.Sidelined, err = s.Sidelined(ctx, since); return })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().
		Int("nodes", len(snap.Nodes)).
		Int("manifests", len(snap.Manifests)).
		Int("facilityEvents", len(snap.FacilityEvents)).
		Int("transportEvents", len(snap.TransportEvents)).
		Int("routes", len(snap.VehicleRoutes)).
		Msg("Snapshot loaded")
	return snap, nil
}
