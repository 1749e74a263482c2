package classify

import (
	"sort"
	"strings"

	"sortwatch/internal/resolve"
	"sortwatch/internal/track"

	"github.com/rs/zerolog/log"
)

// JoinPackages merges the three resolved source streams into one row per
// physical package holding its best-known current state. Re-slammed packages
// (stale cross-system identity) are excluded from the output entirely.
func JoinPackages(manifests resolve.ManifestSet, facility resolve.FacilitySet, transport resolve.TransportSet, carrierPrefixes []string) []track.ResolvedPackage {
	// 1. Collect the union of tracking ids across all three streams.
	seen := make(map[string]bool)
	var trackingIDs []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			trackingIDs = append(trackingIDs, id)
		}
	}
	for _, m := range manifests.ByShipment {
		add(m.TrackingID)
	}
	for id := range facility.ByTracking {
		add(id)
	}
	for id := range transport.ByTracking {
		add(id)
	}
	sort.Strings(trackingIDs)

	// 2. Index manifests by tracking id (shipment-level granularity).
	manifestByTracking := make(map[string]track.ManifestRecord, len(manifests.ByShipment))
	for _, m := range manifests.ByShipment {
		if cur, ok := manifestByTracking[m.TrackingID]; !ok || m.ManifestedAt.After(cur.ManifestedAt) {
			manifestByTracking[m.TrackingID] = m
		}
	}

	// 3. Resolve one row per package.
	out := make([]track.ResolvedPackage, 0, len(trackingIDs))
	reslammed := 0
	for _, id := range trackingIDs {
		pkg, ok := joinOne(id, manifestByTracking, facility, transport, carrierPrefixes)
		if !ok {
			reslammed++
			continue
		}
		out = append(out, pkg)
	}

	if reslammed > 0 {
		log.Debug().Int("count", reslammed).Msg("Excluded re-slammed packages")
	}
	return out
}

// joinOne resolves a single package. The second return is false when the row
// is re-slammed and must not flow downstream.
func joinOne(trackingID string, manifests map[string]track.ManifestRecord, facility resolve.FacilitySet, transport resolve.TransportSet, carrierPrefixes []string) (track.ResolvedPackage, bool) {
	pkg := track.ResolvedPackage{TrackingID: trackingID}

	if m, ok := manifests[trackingID]; ok {
		mc := m
		pkg.Manifest = &mc
		pkg.ShipmentID = m.ShipmentID
		pkg.PackageID = m.PackageID
		pkg.Station = m.Station
		pkg.ShipMethod = m.ShipMethod
	}

	fac, hasFacility := facility.ByTracking[trackingID]
	if hasFacility {
		fc := fac
		pkg.Facility = &fc
		if pkg.ContainerID == "" {
			pkg.ContainerID = fac.ContainerID
		}
		if pkg.Station == "" {
			pkg.Station = fac.SourceLocation
		}
	}

	scan, hasScan := transport.ByTracking[trackingID]
	if hasScan {
		sc := scan
		pkg.Transport = &sc
		pkg.ContainerID = scan.ContainerID
		if pkg.ShipmentID == "" {
			pkg.ShipmentID = scan.ShipmentID
		}
		if pkg.ShipMethod == "" {
			pkg.ShipMethod = scan.ShipMethod
		}
	}

	// Re-slam detection: the package was re-manifested and this event trail
	// is stale. Either the facility and transportation systems disagree on
	// the tracking identity of the same container, or the ship method no
	// longer matches an expected carrier prefix.
	if hasFacility && fac.ContainerID != "" {
		if latest, ok := transport.Latest[fac.ContainerID]; ok && latest.TrackingID != "" && latest.TrackingID != fac.TrackingID {
			pkg.ReSlam = true
		}
	}
	if pkg.ShipMethod != "" && !matchesCarrier(pkg.ShipMethod, carrierPrefixes) {
		pkg.ReSlam = true
	}
	if pkg.ReSlam {
		return track.ResolvedPackage{}, false
	}

	// State resolution priority per the joiner contract.
	switch {
	case !hasFacility && pkg.Manifest != nil:
		pkg.StateStatus = track.SubManifested.String()
	case hasFacility && fac.Status == track.FacReceived && fac.SourceLocation != pkg.Station && fac.ReverseTrackingID == "":
		// Received somewhere other than the assigned station with no reverse
		// tracking id: treat as still manifested toward the station.
		pkg.StateStatus = track.SubManifested.String()
	case hasFacility && fac.Status == track.FacReceived && fac.SourceLocation == pkg.Station:
		pkg.StateStatus = track.SubInYard.String()
	case hasFacility:
		pkg.StateStatus = fac.Status
	default:
		// Transport-only rows carry no facility state; the cascade falls
		// through to the upstream/in-transit rules.
		pkg.StateStatus = track.SubManifested.String()
	}

	return pkg, true
}

func matchesCarrier(shipMethod string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(shipMethod, p) {
			return true
		}
	}
	return false
}
