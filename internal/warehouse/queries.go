package warehouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sortwatch/internal/resolve"
	"sortwatch/internal/track"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Nodes loads the station/node reference table.
func (s *Store) Nodes(ctx context.Context) ([]track.Node, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT node_id, region, country, timezone, status, COALESCE(business_unit, '')
		FROM node_reference`)
	if err != nil {
		return nil, fmt.Errorf("warehouse: query nodes: %w", err)
	}
	defer rows.Close()

	var out []track.Node
	for rows.Next() {
		var n track.Node
		var status string
		if err := rows.Scan(&n.ID, &n.Region, &n.Country, &n.Timezone, &status, &n.BusinessUnit); err != nil {
			return nil, fmt.Errorf("warehouse: scan node: %w", err)
		}
		n.Active = status == "ACTIVE"
		out = append(out, n)
	}
	return out, rows.Err()
}

// Manifests loads manifest/leg creation records within the window.
func (s *Store) Manifests(ctx context.Context, since time.Time) ([]track.ManifestRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT shipment_id, package_id, COALESCE(leg_id, ''), tracking_id, station_code,
		       ship_method, pickup_at, est_arrival_at, manifested_at
		FROM manifest_legs
		WHERE manifested_at >= $1`, since)
	if err != nil {
		return nil, fmt.Errorf("warehouse: query manifests: %w", err)
	}
	defer rows.Close()

	var out []track.ManifestRecord
	for rows.Next() {
		var m track.ManifestRecord
		if err := rows.Scan(&m.ShipmentID, &m.PackageID, &m.LegID, &m.TrackingID, &m.Station,
			&m.ShipMethod, &m.PickupAt, &m.EstArrivalAt, &m.ManifestedAt); err != nil {
			return nil, fmt.Errorf("warehouse: scan manifest: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// FacilityEvents loads facility state-machine transitions within the window.
func (s *Store) FacilityEvents(ctx context.Context, since time.Time) ([]track.FacilityEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT forward_tracking_id, forward_container_id, state_status,
		       COALESCE(state_sub_status, ''), state_time,
		       COALESCE(source_location_id, ''), COALESCE(source_location_type, ''),
		       COALESCE(destination_id, ''), COALESCE(destination_type, ''),
		       COALESCE(reverse_tracking_id, '')
		FROM facility_state_events
		WHERE state_time >= $1`, since)
	if err != nil {
		return nil, fmt.Errorf("warehouse: query facility events: %w", err)
	}
	defer rows.Close()

	var out []track.FacilityEvent
	for rows.Next() {
		var e track.FacilityEvent
		if err := rows.Scan(&e.TrackingID, &e.ContainerID, &e.Status, &e.SubStatus, &e.StateTime,
			&e.SourceLocation, &e.SourceType, &e.DestinationID, &e.DestinationType,
			&e.ReverseTrackingID); err != nil {
			return nil, fmt.Errorf("warehouse: scan facility event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// TransportEvents loads middle-mile scan events within the window.
func (s *Store) TransportEvents(ctx context.Context, since time.Time) ([]track.TransportEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT container_id, COALESCE(parent_container_id, ''), tracking_id, shipment_id,
		       event_code, status_node_id, status_time, COALESCE(status_timezone, ''),
		       COALESCE(ship_method, ''), COALESCE(supplement_code, '')
		FROM transport_scan_events
		WHERE status_time >= $1`, since)
	if err != nil {
		return nil, fmt.Errorf("warehouse: query transport events: %w", err)
	}
	defer rows.Close()

	var out []track.TransportEvent
	for rows.Next() {
		var e track.TransportEvent
		if err := rows.Scan(&e.ContainerID, &e.ParentContainerID, &e.TrackingID, &e.ShipmentID,
			&e.EventCode, &e.NodeID, &e.EventTime, &e.Timezone, &e.ShipMethod,
			&e.SupplementCode); err != nil {
			return nil, fmt.Errorf("warehouse: scan transport event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// NodeFlow loads the package-flow node classification table.
func (s *Store) NodeFlow(ctx context.Context) ([]resolve.NodeFlowRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT node_id, node_type FROM node_flow_classification`)
	if err != nil {
		return nil, fmt.Errorf("warehouse: query node flow: %w", err)
	}
	defer rows.Close()

	var out []resolve.NodeFlowRecord
	for rows.Next() {
		var r resolve.NodeFlowRecord
		if err := rows.Scan(&r.NodeID, &r.NodeType); err != nil {
			return nil, fmt.Errorf("warehouse: scan node flow: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// OperatingWindows loads station operating-clock definitions for the window.
func (s *Store) OperatingWindows(ctx context.Context, since time.Time) ([]track.OperatingWindow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT station_code, op_date, COALESCE(cycle, ''),
		       inbound_cutoff, sort_cutoff, dispatch_cutoff, defined_at
		FROM station_operating_clock
		WHERE op_date >= $1`, since)
	if err != nil {
		return nil, fmt.Errorf("warehouse: query operating windows: %w", err)
	}
	defer rows.Close()

	var out []track.OperatingWindow
	for rows.Next() {
		var w track.OperatingWindow
		if err := rows.Scan(&w.Station, &w.OpDate, &w.Cycle,
			&w.InboundCutoff, &w.SortCutoff, &w.DispatchCutoff, &w.DefinedAt); err != nil {
			return nil, fmt.Errorf("warehouse: scan operating window: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// VehicleRoutes loads scheduled vehicle-route records for the window.
func (s *Store) VehicleRoutes(ctx context.Context, since time.Time) ([]track.VehicleRoute, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT route_id, origin, destination, commitment_time, COALESCE(timezone, ''),
		       COALESCE(miles, 0), COALESCE(account, ''), status
		FROM vehicle_routes
		WHERE commitment_time >= $1`, since)
	if err != nil {
		return nil, fmt.Errorf("warehouse: query vehicle routes: %w", err)
	}
	defer rows.Close()

	var out []track.VehicleRoute
	for rows.Next() {
		var r track.VehicleRoute
		var status string
		if err := rows.Scan(&r.RouteID, &r.Origin, &r.Destination, &r.CommitmentTime,
			&r.Timezone, &r.Miles, &r.Account, &status); err != nil {
			return nil, fmt.Errorf("warehouse: scan vehicle route: %w", err)
		}
		r.Active = status == "SCHEDULED" || status == "ACTIVE"
		out = append(out, r)
	}
	return out, rows.Err()
}

// Sidelined loads manual sideline markers within the window.
func (s *Store) Sidelined(ctx context.Context, since time.Time) ([]resolve.SidelineRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT tracking_id, marked_at, COALESCE(reason, '')
		FROM sideline_markers
		WHERE marked_at >= $1`, since)
	if err != nil {
		return nil, fmt.Errorf("warehouse: query sideline markers: %w", err)
	}
	defer rows.Close()

	var out []resolve.SidelineRecord
	for rows.Next() {
		var r resolve.SidelineRecord
		if err := rows.Scan(&r.TrackingID, &r.MarkedAt, &r.Reason); err != nil {
			return nil, fmt.Errorf("warehouse: scan sideline marker: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunMarker is the checkpoint row describing the last completed run.
type RunMarker struct {
	RunID       string
	WindowStart time.Time
	WindowEnd   time.Time
	Packages    int
	Aggregates  int
	FinishedAt  time.Time
}

// LastRunMarker reads the most recent run checkpoint. Returns ok=false when
// no run has ever completed.
func (s *Store) LastRunMarker(ctx context.Context) (RunMarker, bool, error) {
	var m RunMarker
	err := s.pool.QueryRow(ctx, `
		SELECT run_id, window_start, window_end, package_count, aggregate_count, finished_at
		FROM sortwatch_run_marker
		ORDER BY finished_at DESC
		LIMIT 1`).Scan(&m.RunID, &m.WindowStart, &m.WindowEnd, &m.Packages, &m.Aggregates, &m.FinishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return RunMarker{}, false, nil
	}
	// The marker table is created lazily on the first successful publish.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42P01" {
		return RunMarker{}, false, nil
	}
	if err != nil {
		return RunMarker{}, false, fmt.Errorf("warehouse: read run marker: %w", err)
	}
	return m, true, nil
}
