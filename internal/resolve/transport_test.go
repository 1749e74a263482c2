package resolve

import (
	"testing"
	"time"

	"sortwatch/internal/track"
)

func TestResolveTransport_LatestAndGeofenceIsolation(t *testing.T) {
	runTime := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	events := []track.TransportEvent{
		{ContainerID: "C1", TrackingID: "TBA1", EventCode: track.ScanArrived, NodeID: "SC001", EventTime: runTime.Add(-20 * time.Hour)},
		{ContainerID: "C1", TrackingID: "TBA1", EventCode: track.ScanDeparted, NodeID: "SC001", EventTime: runTime.Add(-10 * time.Hour)},
		{ContainerID: "C1", TrackingID: "TBA1", EventCode: track.ScanGeofenceEnter, NodeID: "DAU1", EventTime: runTime.Add(-2 * time.Hour)},
	}

	set := ResolveTransport(events, runTime, 7)

	latest := set.Latest["C1"]
	if latest.EventCode != track.ScanGeofenceEnter || latest.NodeID != "DAU1" {
		t.Errorf("Expected latest scan GEOFENCE_ENTER at DAU1, got %s at %s", latest.EventCode, latest.NodeID)
	}

	// Arrival and departure views resolve independently of the overall latest.
	arr := set.Arrivals["C1"]
	if arr.NodeID != "DAU1" {
		t.Errorf("Expected latest arrival at DAU1, got %s", arr.NodeID)
	}
	dep := set.Departures["C1"]
	if dep.NodeID != "SC001" {
		t.Errorf("Expected latest departure from SC001, got %s", dep.NodeID)
	}
}

func TestResolveTransport_WindowExclusion(t *testing.T) {
	runTime := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	events := []track.TransportEvent{
		{ContainerID: "C1", TrackingID: "TBA1", EventCode: track.ScanArrived, NodeID: "SC001", EventTime: runTime.AddDate(0, 0, -8)},
	}

	set := ResolveTransport(events, runTime, 7)
	if len(set.Latest) != 0 {
		t.Errorf("Expected stale scans excluded, got %d containers", len(set.Latest))
	}
}
