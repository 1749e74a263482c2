package resolve

import (
	"time"

	"sortwatch/internal/track"
)

// legKey identifies a manifest record at leg granularity.
type legKey struct {
	shipmentID string
	legID      string
}

// ManifestSet holds the deduplicated manifest view at both granularities.
type ManifestSet struct {
	ByLeg      map[legKey]track.ManifestRecord
	ByShipment map[string]track.ManifestRecord
}

// ResolveManifests deduplicates raw manifest creation records to the most
// recent per (shipment, leg) and per shipment, within the trailing window
// ending at runTime. Records outside the window are dropped silently.
//
// Tie-break at identical timestamps: the lexicographically greatest tracking
// id wins, so re-runs over the same snapshot are deterministic.
func ResolveManifests(records []track.ManifestRecord, runTime time.Time, windowDays int) ManifestSet {
	windowStart := runTime.AddDate(0, 0, -windowDays)

	set := ManifestSet{
		ByLeg:      make(map[legKey]track.ManifestRecord),
		ByShipment: make(map[string]track.ManifestRecord),
	}

	for _, r := range records {
		if r.ManifestedAt.Before(windowStart) || r.ManifestedAt.After(runTime) {
			continue
		}

		lk := legKey{shipmentID: r.ShipmentID, legID: r.LegID}
		if cur, ok := set.ByLeg[lk]; !ok || newerManifest(r, cur) {
			set.ByLeg[lk] = r
		}
		if cur, ok := set.ByShipment[r.ShipmentID]; !ok || newerManifest(r, cur) {
			set.ByShipment[r.ShipmentID] = r
		}
	}
	return set
}

func newerManifest(candidate, current track.ManifestRecord) bool {
	if !candidate.ManifestedAt.Equal(current.ManifestedAt) {
		return candidate.ManifestedAt.After(current.ManifestedAt)
	}
	return candidate.TrackingID > current.TrackingID
}

// Latest returns the freshest manifest for a shipment id, if any.
func (s ManifestSet) Latest(shipmentID string) (track.ManifestRecord, bool) {
	m, ok := s.ByShipment[shipmentID]
	return m, ok
}
