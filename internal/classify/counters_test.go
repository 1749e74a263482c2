package classify

import (
	"testing"
	"time"

	"sortwatch/internal/resolve"
	"sortwatch/internal/track"
)

func TestCountSameDay_LocalMidnightBoundary(t *testing.T) {
	// Run at 2025-06-10 14:00 UTC; the station sits in Los Angeles where the
	// local day started at 07:00 UTC.
	runTime := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatal(err)
	}

	nodes := map[string]resolve.NodeInfo{
		"DAU1": {
			Node:          track.Node{ID: "DAU1", Timezone: "America/Los_Angeles", Active: true},
			Location:      la,
			DayStartLocal: time.Date(2025, 6, 10, 0, 0, 0, 0, la),
		},
	}
	stations := map[string]string{"TBA-IN": "DAU1", "TBA-OUT": "DAU1"}

	events := []track.FacilityEvent{
		// 08:00 UTC = 01:00 local, inside today.
		{TrackingID: "TBA-IN", Status: track.FacStowBuffered, StateTime: runTime.Add(-6 * time.Hour)},
		// 06:00 UTC = 23:00 local yesterday, outside today.
		{TrackingID: "TBA-OUT", Status: track.FacStowBuffered, StateTime: runTime.Add(-8 * time.Hour)},
	}

	counters := CountSameDay(events, stations, nodes, runTime)

	if !counters["TBA-IN"].InductedToday {
		t.Error("Induction after local midnight should count as today")
	}
	if counters["TBA-OUT"].InductedToday {
		t.Error("Induction before local midnight must not count as today")
	}
}

func TestCountSameDay_DispatchRollingWeek(t *testing.T) {
	runTime := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	stations := map[string]string{"TBA1": "DAU1", "TBA2": "DAU1"}

	dispatch := func(id string, at time.Time) track.FacilityEvent {
		return track.FacilityEvent{
			TrackingID:      id,
			Status:          track.FacInTransit,
			DestinationType: track.DestCustomerAddress,
			StateTime:       at,
		}
	}

	events := []track.FacilityEvent{
		dispatch("TBA1", runTime.AddDate(0, 0, -3)), // inside the 7-day window, not today
		dispatch("TBA2", runTime.AddDate(0, 0, -9)), // outside the window entirely
	}

	counters := CountSameDay(events, stations, nil, runTime)

	c1 := counters["TBA1"]
	if c1.DispatchedToday {
		t.Error("Three-day-old dispatch must not count as today")
	}
	if !c1.DispatchedIn7d {
		t.Error("Three-day-old dispatch should count inside the rolling week")
	}
	if counters["TBA2"].DispatchedIn7d {
		t.Error("Nine-day-old dispatch must not count inside the rolling week")
	}
}

func TestCountSameDay_DeliveryAndNodeDestinationDispatch(t *testing.T) {
	runTime := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	stations := map[string]string{"TBA1": "DAU1"}

	events := []track.FacilityEvent{
		{TrackingID: "TBA1", Status: track.FacDropped, StateTime: runTime.Add(-time.Hour)},
		// Linehaul movement toward another node is not a customer dispatch.
		{TrackingID: "TBA1", Status: track.FacInTransit, DestinationType: track.DestNode, StateTime: runTime.Add(-2 * time.Hour)},
	}

	c := CountSameDay(events, stations, nil, runTime)["TBA1"]
	if !c.DeliveredToday {
		t.Error("Same-day drop should flag DeliveredToday")
	}
	if c.DispatchedToday || c.DispatchedIn7d {
		t.Error("Node-destination transit must not flag a dispatch")
	}
}

func TestCountSameDay_UnassignedTrackingIgnored(t *testing.T) {
	runTime := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)

	events := []track.FacilityEvent{
		{TrackingID: "TBA-STRAY", Status: track.FacStowBuffered, StateTime: runTime.Add(-time.Hour)},
	}

	if got := CountSameDay(events, map[string]string{}, nil, runTime); len(got) != 0 {
		t.Errorf("Events for unknown tracking ids must be skipped, got %d entries", len(got))
	}
}
