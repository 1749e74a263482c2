package resolve

import (
	"time"

	"sortwatch/internal/track"
)

// SidelineRecord is a manual sideline marker on a tracking id.
type SidelineRecord struct {
	TrackingID string
	MarkedAt   time.Time
	Reason     string
}

// SidelineSet is membership of tracking ids ever sidelined in the window.
type SidelineSet map[string]bool

// ResolveSidelined extracts the set of tracking ids marked as manually
// sidelined within the trailing window. Membership is sticky for the window:
// a later un-sideline event does not remove the id, matching the cascade's
// short-circuit rule.
func ResolveSidelined(records []SidelineRecord, runTime time.Time, windowDays int) SidelineSet {
	windowStart := runTime.AddDate(0, 0, -windowDays)

	set := make(SidelineSet)
	for _, r := range records {
		if r.MarkedAt.Before(windowStart) || r.MarkedAt.After(runTime) {
			continue
		}
		set[r.TrackingID] = true
	}
	return set
}

// SidelinedFromFacility derives sideline markers from facility events whose
// sub-status flags a manual sideline.
func SidelinedFromFacility(events []track.FacilityEvent) []SidelineRecord {
	var out []SidelineRecord
	for _, e := range events {
		if e.SubStatus == "SIDELINED" {
			out = append(out, SidelineRecord{TrackingID: e.TrackingID, MarkedAt: e.StateTime})
		}
	}
	return out
}
