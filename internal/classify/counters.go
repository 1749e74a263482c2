package classify

import (
	"time"

	"sortwatch/internal/resolve"
	"sortwatch/internal/track"
)

// Counters are the same-day operational flags per package. They reset at the
// station's local midnight, a second temporal dimension independent of the
// rolling classification window.
type Counters struct {
	InductedToday   bool
	DispatchedToday bool
	DispatchedIn7d  bool
	DeliveredToday  bool
}

// CountSameDay re-scans the full facility-event stream (not the resolved
// latest view) from the station-local start of today and flags whether an
// induction, dispatch, or delivery happened for each tracking id. The
// dispatch-within-7-days flag uses the rolling window instead of the local
// day boundary.
func CountSameDay(events []track.FacilityEvent, stations map[string]string, nodes map[string]resolve.NodeInfo, runTime time.Time) map[string]Counters {
	weekStart := runTime.AddDate(0, 0, -7)

	out := make(map[string]Counters)
	for _, e := range events {
		station, ok := stations[e.TrackingID]
		if !ok {
			continue
		}

		dayStart := runTime.UTC().Truncate(24 * time.Hour)
		if info, ok := nodes[station]; ok {
			dayStart = info.DayStartLocal
		}

		c := out[e.TrackingID]
		sameDay := !e.StateTime.Before(dayStart) && !e.StateTime.After(runTime)

		switch {
		case e.Status == track.FacStowBuffered && sameDay:
			c.InductedToday = true
		case isDispatch(e):
			if sameDay {
				c.DispatchedToday = true
			}
			if !e.StateTime.Before(weekStart) && !e.StateTime.After(runTime) {
				c.DispatchedIn7d = true
			}
		case e.Status == track.FacDropped && sameDay:
			c.DeliveredToday = true
		}
		out[e.TrackingID] = c
	}
	return out
}

// isDispatch reports whether a facility event represents the package leaving
// the station toward the customer.
func isDispatch(e track.FacilityEvent) bool {
	return e.Status == track.FacInTransit &&
		(e.DestinationType == track.DestCustomerAddress || e.DestinationType == track.DestAccessPoint)
}
