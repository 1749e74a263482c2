package resolve

import (
	"time"

	"sortwatch/internal/track"
)

// TransportSet is the deduplicated middle-mile scan view. Latest holds the
// newest scan of any kind per container; Arrivals and Departures isolate the
// newest geofence/arrival and departure events, which feed the upstream
// counts and the in-yard arrival-time lookup.
type TransportSet struct {
	Latest     map[string]track.TransportEvent
	Arrivals   map[string]track.TransportEvent
	Departures map[string]track.TransportEvent
	ByTracking map[string]track.TransportEvent
}

// ResolveTransport reduces transportation scan events to the latest per
// container within the trailing window, and separately isolates the latest
// arrival and departure events per container.
//
// No secondary tie-break is defined by the source system for scans sharing a
// timestamp; the greater event code wins so the reduction is deterministic.
func ResolveTransport(events []track.TransportEvent, runTime time.Time, windowDays int) TransportSet {
	windowStart := runTime.AddDate(0, 0, -windowDays)

	set := TransportSet{
		Latest:     make(map[string]track.TransportEvent),
		Arrivals:   make(map[string]track.TransportEvent),
		Departures: make(map[string]track.TransportEvent),
		ByTracking: make(map[string]track.TransportEvent),
	}

	for _, e := range events {
		if e.EventTime.Before(windowStart) || e.EventTime.After(runTime) {
			continue
		}

		keep(set.Latest, e.ContainerID, e)
		if e.TrackingID != "" {
			keep(set.ByTracking, e.TrackingID, e)
		}
		if e.IsArrival() {
			keep(set.Arrivals, e.ContainerID, e)
		}
		if e.IsDeparture() {
			keep(set.Departures, e.ContainerID, e)
		}
	}
	return set
}

func keep(m map[string]track.TransportEvent, key string, e track.TransportEvent) {
	cur, ok := m[key]
	if !ok || newerTransport(e, cur) {
		m[key] = e
	}
}

func newerTransport(candidate, current track.TransportEvent) bool {
	if !candidate.EventTime.Equal(current.EventTime) {
		return candidate.EventTime.After(current.EventTime)
	}
	return candidate.EventCode > current.EventCode
}
