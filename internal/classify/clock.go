package classify

import (
	"time"

	"sortwatch/internal/track"
)

// clockKey identifies a station's operating clock for one operational date.
type clockKey struct {
	station string
	opDate  string // yyyy-mm-dd, station-local
}

// OperatingClock holds the rank-1 (most recently defined) operating window
// per station and operational date.
type OperatingClock struct {
	windows map[clockKey]track.OperatingWindow
}

// BuildOperatingClock ranks operating-window definitions per (station,
// operational date) by definition recency and keeps only rank 1. Definitions
// sharing an identical DefinedAt are ranked by dispatch cutoff descending so
// the result is stable.
func BuildOperatingClock(defs []track.OperatingWindow) *OperatingClock {
	clock := &OperatingClock{windows: make(map[clockKey]track.OperatingWindow)}
	for _, d := range defs {
		k := clockKey{station: d.Station, opDate: d.OpDate.Format("2006-01-02")}
		cur, ok := clock.windows[k]
		if !ok || ranksAbove(d, cur) {
			clock.windows[k] = d
		}
	}
	return clock
}

func ranksAbove(candidate, current track.OperatingWindow) bool {
	if !candidate.DefinedAt.Equal(current.DefinedAt) {
		return candidate.DefinedAt.After(current.DefinedAt)
	}
	return candidate.DispatchCutoff.After(current.DispatchCutoff)
}

// Window returns the winning definition for a station on the operational
// date containing t (interpreted in t's location).
func (c *OperatingClock) Window(station string, t time.Time) (track.OperatingWindow, bool) {
	w, ok := c.windows[clockKey{station: station, opDate: t.Format("2006-01-02")}]
	return w, ok
}

// CommitmentEffective computes the cutoff-adjusted commitment-effective time
// for a route commitment at a station: the rank-1 dispatch cutoff of the
// commitment's operational date when defined, else the inbound cutoff, else
// the commitment time unchanged.
func (c *OperatingClock) CommitmentEffective(station string, commitment time.Time) time.Time {
	w, ok := c.Window(station, commitment)
	if !ok {
		return commitment
	}
	if !w.DispatchCutoff.IsZero() {
		return w.DispatchCutoff
	}
	if !w.InboundCutoff.IsZero() {
		return w.InboundCutoff
	}
	return commitment
}
