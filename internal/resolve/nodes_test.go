package resolve

import (
	"testing"
	"time"

	"sortwatch/internal/track"
)

func TestResolveNodes_ActiveOnlyAndDayStarts(t *testing.T) {
	// 01:30 UTC corresponds to the previous calendar day in Los Angeles.
	runTime := time.Date(2025, 6, 10, 1, 30, 0, 0, time.UTC)

	nodes := []track.Node{
		{ID: "DAU1", Timezone: "America/Los_Angeles", Active: true},
		{ID: "DAU2", Timezone: "America/New_York", Active: false},
	}

	resolved := ResolveNodes(nodes, runTime)

	if _, ok := resolved["DAU2"]; ok {
		t.Error("Inactive node should be excluded")
	}

	info, ok := resolved["DAU1"]
	if !ok {
		t.Fatal("Expected DAU1 to resolve")
	}
	if got := info.DayStartUTC; !got.Equal(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected UTC day start: %v", got)
	}
	// Station-local "today" started on June 9th Pacific time.
	if info.DayStartLocal.Day() != 9 {
		t.Errorf("Expected local day start on the 9th, got %v", info.DayStartLocal)
	}
}

func TestResolveNodes_BadTimezoneFallsBackToUTC(t *testing.T) {
	runTime := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	resolved := ResolveNodes([]track.Node{{ID: "DXX1", Timezone: "Not/AZone", Active: true}}, runTime)

	info, ok := resolved["DXX1"]
	if !ok {
		t.Fatal("Node with a bad timezone must still resolve")
	}
	if !info.DayStartLocal.Equal(info.DayStartUTC) {
		t.Errorf("Expected UTC fallback, got local start %v", info.DayStartLocal)
	}
}
