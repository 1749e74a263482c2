package resolve

import (
	"time"

	"sortwatch/internal/track"
)

// facilityKey identifies a facility-state stream per physical package.
type facilityKey struct {
	containerID string
	trackingID  string
}

// FacilitySet is the deduplicated facility-state view: one latest event per
// (container, forward tracking id), plus an index by tracking id alone for
// the joiner.
type FacilitySet struct {
	byKey      map[facilityKey]track.FacilityEvent
	ByTracking map[string]track.FacilityEvent
}

// ResolveFacility reduces facility-system state events to the single latest
// per (container, forward-tracking-id) within the trailing window.
//
// Tie-break at identical state times: the event carrying a reverse tracking
// id wins (it encodes strictly more identity information); if both or
// neither carry one, the greater status string wins for determinism.
func ResolveFacility(events []track.FacilityEvent, runTime time.Time, windowDays int) FacilitySet {
	windowStart := runTime.AddDate(0, 0, -windowDays)

	set := FacilitySet{
		byKey:      make(map[facilityKey]track.FacilityEvent),
		ByTracking: make(map[string]track.FacilityEvent),
	}

	for _, e := range events {
		if e.StateTime.Before(windowStart) || e.StateTime.After(runTime) {
			continue
		}

		k := facilityKey{containerID: e.ContainerID, trackingID: e.TrackingID}
		if cur, ok := set.byKey[k]; !ok || newerFacility(e, cur) {
			set.byKey[k] = e
		}
		if cur, ok := set.ByTracking[e.TrackingID]; !ok || newerFacility(e, cur) {
			set.ByTracking[e.TrackingID] = e
		}
	}
	return set
}

func newerFacility(candidate, current track.FacilityEvent) bool {
	if !candidate.StateTime.Equal(current.StateTime) {
		return candidate.StateTime.After(current.StateTime)
	}
	if (candidate.ReverseTrackingID != "") != (current.ReverseTrackingID != "") {
		return candidate.ReverseTrackingID != ""
	}
	return candidate.Status > current.Status
}

// Latest returns the freshest facility event for a (container, tracking) pair.
func (s FacilitySet) Latest(containerID, trackingID string) (track.FacilityEvent, bool) {
	e, ok := s.byKey[facilityKey{containerID: containerID, trackingID: trackingID}]
	return e, ok
}

// Len reports the number of distinct (container, tracking) streams resolved.
func (s FacilitySet) Len() int {
	return len(s.byKey)
}
