package resolve

import (
	"time"

	"sortwatch/internal/track"

	"github.com/rs/zerolog/log"
)

// NodeInfo is an active node enriched with its resolved location and the
// start-of-today boundaries used by the same-day counters.
type NodeInfo struct {
	track.Node
	Location      *time.Location
	DayStartUTC   time.Time
	DayStartLocal time.Time
}

// ResolveNodes filters the reference table to active nodes and computes
// "start of today" in both UTC and station-local time, relative to runTime.
// Nodes with an unparseable timezone fall back to UTC rather than failing
// the run.
func ResolveNodes(nodes []track.Node, runTime time.Time) map[string]NodeInfo {
	out := make(map[string]NodeInfo, len(nodes))

	utc := runTime.UTC()
	dayStartUTC := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)

	for _, n := range nodes {
		if !n.Active {
			continue
		}

		loc, err := time.LoadLocation(n.Timezone)
		if err != nil {
			log.Warn().Str("node", n.ID).Str("tz", n.Timezone).Msg("Unknown timezone, falling back to UTC")
			loc = time.UTC
		}

		local := runTime.In(loc)
		out[n.ID] = NodeInfo{
			Node:          n,
			Location:      loc,
			DayStartUTC:   dayStartUTC,
			DayStartLocal: time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc),
		}
	}
	return out
}
