package resolve

import (
	"testing"
	"time"

	"sortwatch/internal/track"
)

func TestResolveManifests_LatestWinsPerShipment(t *testing.T) {
	runTime := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	records := []track.ManifestRecord{
		{ShipmentID: "SHP-1", TrackingID: "TBA100", Station: "DAU1", ManifestedAt: runTime.Add(-48 * time.Hour)},
		{ShipmentID: "SHP-1", TrackingID: "TBA101", Station: "DAU2", ManifestedAt: runTime.Add(-2 * time.Hour)},
	}

	set := ResolveManifests(records, runTime, 7)

	if len(set.ByShipment) != 1 {
		t.Fatalf("Expected 1 shipment, got %d", len(set.ByShipment))
	}
	m, ok := set.Latest("SHP-1")
	if !ok {
		t.Fatal("Expected SHP-1 to resolve")
	}
	// Two manifest events for the same shipment: only the later one survives.
	if m.TrackingID != "TBA101" {
		t.Errorf("Expected later manifest TBA101, got %s", m.TrackingID)
	}
	if m.Station != "DAU2" {
		t.Errorf("Expected re-manifested station DAU2, got %s", m.Station)
	}
}

func TestResolveManifests_WindowExclusion(t *testing.T) {
	runTime := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	records := []track.ManifestRecord{
		{ShipmentID: "SHP-OLD", TrackingID: "TBA1", ManifestedAt: runTime.AddDate(0, 0, -9)},
		{ShipmentID: "SHP-FUTURE", TrackingID: "TBA2", ManifestedAt: runTime.Add(time.Hour)},
	}

	set := ResolveManifests(records, runTime, 7)

	// Outside the trailing window means absent downstream, not an error.
	if len(set.ByShipment) != 0 {
		t.Errorf("Expected no shipments inside window, got %d", len(set.ByShipment))
	}
}

func TestResolveManifests_TimestampTieBreak(t *testing.T) {
	runTime := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	ts := runTime.Add(-time.Hour)

	records := []track.ManifestRecord{
		{ShipmentID: "SHP-1", TrackingID: "TBA200", ManifestedAt: ts},
		{ShipmentID: "SHP-1", TrackingID: "TBA300", ManifestedAt: ts},
	}

	// Identical timestamps: the greater tracking id wins, in either input order.
	for name, recs := range map[string][]track.ManifestRecord{
		"forward":  records,
		"reversed": {records[1], records[0]},
	} {
		set := ResolveManifests(recs, runTime, 7)
		m, _ := set.Latest("SHP-1")
		if m.TrackingID != "TBA300" {
			t.Errorf("%s: expected TBA300 to win the tie, got %s", name, m.TrackingID)
		}
	}
}

func TestResolveManifests_LegGranularity(t *testing.T) {
	runTime := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	records := []track.ManifestRecord{
		{ShipmentID: "SHP-1", LegID: "L1", TrackingID: "TBA1", ManifestedAt: runTime.Add(-3 * time.Hour)},
		{ShipmentID: "SHP-1", LegID: "L2", TrackingID: "TBA2", ManifestedAt: runTime.Add(-2 * time.Hour)},
	}

	set := ResolveManifests(records, runTime, 7)

	if len(set.ByLeg) != 2 {
		t.Errorf("Expected 2 leg-level records, got %d", len(set.ByLeg))
	}
	if len(set.ByShipment) != 1 {
		t.Errorf("Expected 1 shipment-level record, got %d", len(set.ByShipment))
	}
}
