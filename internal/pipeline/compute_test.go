package pipeline

import (
	"reflect"
	"testing"
	"time"

	"sortwatch/internal/resolve"
	"sortwatch/internal/track"
	"sortwatch/internal/warehouse"
)

// syntheticSnapshot builds a small but representative run input: one station,
// one upstream sort center, and five packages covering the manifested,
// in-yard, dispatched, delivered, and sidelined paths.
func syntheticSnapshot(runTime time.Time) *warehouse.Snapshot {
	commitment := runTime.Add(-3 * time.Hour)

	return &warehouse.Snapshot{
		Nodes: []track.Node{
			{ID: "DAU1", Region: "NA", Country: "US", Timezone: "America/Chicago", Active: true},
			{ID: "SC001", Region: "NA", Country: "US", Timezone: "America/Chicago", Active: true},
		},
		NodeFlow: []resolve.NodeFlowRecord{
			{NodeID: "DAU1", NodeType: "DS"},
			{NodeID: "SC001", NodeType: "SC"},
			{NodeID: "FC001", NodeType: "FC"},
		},
		Manifests: []track.ManifestRecord{
			{ShipmentID: "S1", TrackingID: "TBA-UPSTREAM", Station: "DAU1", ShipMethod: "AMZL_US_CORE", ManifestedAt: runTime.Add(-30 * time.Hour)},
			{ShipmentID: "S2", TrackingID: "TBA-YARD", Station: "DAU1", ShipMethod: "AMZL_US_CORE", ManifestedAt: runTime.Add(-30 * time.Hour)},
			{ShipmentID: "S3", TrackingID: "TBA-OFD", Station: "DAU1", ShipMethod: "AMZL_US_CORE", ManifestedAt: runTime.Add(-30 * time.Hour)},
			{ShipmentID: "S4", TrackingID: "TBA-DONE", Station: "DAU1", ShipMethod: "AMXL_US_BULKY", ManifestedAt: runTime.Add(-40 * time.Hour)},
			{ShipmentID: "S5", TrackingID: "TBA-SIDE", Station: "DAU1", ShipMethod: "AMZL_US_CORE", ManifestedAt: runTime.Add(-30 * time.Hour)},
		},
		FacilityEvents: []track.FacilityEvent{
			{TrackingID: "TBA-YARD", ContainerID: "C2", Status: track.FacReceived, SourceLocation: "DAU1", StateTime: runTime.Add(-5 * time.Hour)},
			{TrackingID: "TBA-OFD", ContainerID: "C3", Status: track.FacInTransit, DestinationType: track.DestCustomerAddress, SourceLocation: "DAU1", StateTime: runTime.Add(-2 * time.Hour)},
			{TrackingID: "TBA-DONE", ContainerID: "C4", Status: track.FacDropped, SourceLocation: "DAU1", StateTime: runTime.Add(-time.Hour)},
			{TrackingID: "TBA-SIDE", ContainerID: "C5", Status: track.FacReceived, SourceLocation: "DAU1", StateTime: runTime.Add(-4 * time.Hour)},
		},
		TransportEvents: []track.TransportEvent{
			{ContainerID: "C1", TrackingID: "TBA-UPSTREAM", ShipmentID: "S1", EventCode: track.ScanArrived, NodeID: "SC001", EventTime: runTime.Add(-10 * time.Hour)},
			{ContainerID: "C2", TrackingID: "TBA-YARD", ShipmentID: "S2", EventCode: track.ScanArrived, NodeID: "DAU1", EventTime: runTime.Add(-time.Hour)},
		},
		VehicleRoutes: []track.VehicleRoute{
			{RouteID: "RT-1", Origin: "SC001", Destination: "DAU1", CommitmentTime: commitment, Active: true},
		},
		OperatingClocks: []track.OperatingWindow{{
			Station:        "DAU1",
			OpDate:         time.Date(commitment.Year(), commitment.Month(), commitment.Day(), 0, 0, 0, 0, time.UTC),
			DispatchCutoff: commitment.Add(time.Hour),
			DefinedAt:      runTime.Add(-20 * time.Hour),
		}},
		Sidelined: []resolve.SidelineRecord{
			{TrackingID: "TBA-SIDE", MarkedAt: runTime.Add(-3 * time.Hour), Reason: "damaged label"},
		},
	}
}

func defaultOptions() Options {
	return Options{
		WindowDays:      7,
		AggTrailingDays: 6,
		AggLeadingDays:  4,
		CarrierPrefixes: []string{"AMZL", "AMXL"},
	}
}

func TestCompute_EndToEnd(t *testing.T) {
	runTime := time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)
	res := Compute(syntheticSnapshot(runTime), runTime, defaultOptions())

	if len(res.Packages) != 5 {
		t.Fatalf("Expected 5 classified packages, got %d", len(res.Packages))
	}

	byID := make(map[string]track.ClassifiedPackage)
	for _, p := range res.Packages {
		byID[p.TrackingID] = p
	}

	cases := []struct {
		tracking string
		sub      track.SubStatus
		primary  track.PrimaryStatus
		backlog  bool
	}{
		{"TBA-UPSTREAM", track.SubAtSC, track.PrimaryMNR, true},
		{"TBA-OFD", track.SubDispatched, track.PrimaryOutForDelivery, false},
		{"TBA-DONE", track.SubDelivered, track.PrimaryDelivered, false},
		{"TBA-SIDE", track.SubSidelined, track.PrimarySidelined, false},
	}
	for _, tc := range cases {
		p, ok := byID[tc.tracking]
		if !ok {
			t.Fatalf("%s missing from output", tc.tracking)
		}
		if p.SubStatus != tc.sub || p.Primary != tc.primary {
			t.Errorf("%s: got (%s, %s), want (%s, %s)", tc.tracking, p.SubStatus, p.Primary, tc.sub, tc.primary)
		}
		if p.Backlog != tc.backlog {
			t.Errorf("%s: backlog=%v, want %v", tc.tracking, p.Backlog, tc.backlog)
		}
	}

	// TBA-YARD arrived after the dispatch cutoff of its route's commitment
	// date: a late last hop.
	if p := byID["TBA-YARD"]; p.SubStatus != track.SubInYard || p.Primary != track.PrimaryLLH {
		t.Errorf("TBA-YARD: got (%s, %s), want (IN_YARD, LLH)", p.SubStatus, p.Primary)
	}

	// The dispatched and delivered packages happened today.
	if !byID["TBA-OFD"].DispatchedToday || !byID["TBA-OFD"].DispatchedIn7d {
		t.Error("TBA-OFD should carry both dispatch counters")
	}
	if !byID["TBA-DONE"].DeliveredToday {
		t.Error("TBA-DONE should carry the delivered-today counter")
	}

	if len(res.Aggregates) == 0 {
		t.Fatal("Expected aggregate rows")
	}
}

func TestCompute_PrimaryAlwaysInClosedSet(t *testing.T) {
	runTime := time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)
	res := Compute(syntheticSnapshot(runTime), runTime, defaultOptions())

	valid := make(map[track.PrimaryStatus]bool, len(track.AllPrimaryStatuses))
	for _, s := range track.AllPrimaryStatuses {
		valid[s] = true
	}
	for _, p := range res.Packages {
		if !valid[p.Primary] {
			t.Errorf("%s: primary %q outside the closed enumeration", p.TrackingID, p.Primary)
		}
	}
}

func TestCompute_IdempotentOverIdenticalSnapshot(t *testing.T) {
	runTime := time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)

	first := Compute(syntheticSnapshot(runTime), runTime, defaultOptions())
	second := Compute(syntheticSnapshot(runTime), runTime, defaultOptions())

	if !reflect.DeepEqual(first.Packages, second.Packages) {
		t.Error("Re-running over an identical snapshot changed the classified packages")
	}
	if !reflect.DeepEqual(first.Aggregates, second.Aggregates) {
		t.Error("Re-running over an identical snapshot changed the aggregates")
	}
}
