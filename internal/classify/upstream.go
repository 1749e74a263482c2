package classify

import (
	"time"

	"sortwatch/internal/resolve"
	"sortwatch/internal/track"
)

// odKey identifies a route by its endpoints.
type odKey struct {
	origin      string
	destination string
}

// RouteIndex provides route lookup for the classifier: exact by route id,
// by (origin, destination) pair, and a per-destination fallback used when a
// package's last known node cannot be tied to a scheduled route.
type RouteIndex struct {
	byID     map[string]track.VehicleRoute
	byOD     map[odKey]track.VehicleRoute
	fallback map[string]track.VehicleRoute // destination -> freshest inbound route
}

// BuildRouteIndex loads scheduled vehicle-route records for the window.
// When multiple routes share an (origin, destination) pair the one with the
// latest commitment time wins; the same policy picks the per-destination
// fallback route.
func BuildRouteIndex(routes []track.VehicleRoute, runTime time.Time, windowDays int) *RouteIndex {
	windowStart := runTime.AddDate(0, 0, -windowDays)

	idx := &RouteIndex{
		byID:     make(map[string]track.VehicleRoute),
		byOD:     make(map[odKey]track.VehicleRoute),
		fallback: make(map[string]track.VehicleRoute),
	}

	for _, r := range routes {
		if !r.Active || r.CommitmentTime.Before(windowStart) {
			continue
		}
		idx.byID[r.RouteID] = r

		k := odKey{origin: r.Origin, destination: r.Destination}
		if cur, ok := idx.byOD[k]; !ok || r.CommitmentTime.After(cur.CommitmentTime) {
			idx.byOD[k] = r
		}
		if cur, ok := idx.fallback[r.Destination]; !ok || r.CommitmentTime.After(cur.CommitmentTime) {
			idx.fallback[r.Destination] = r
		}
	}
	return idx
}

// Route resolves the scheduled route for a package: first the exact
// (last known node, assigned station) pair, then the freshest route inbound
// to the station. The second return distinguishes exact from fallback; the
// third is false when no route at all is known.
func (idx *RouteIndex) Route(lastNode, station string) (track.VehicleRoute, bool, bool) {
	if lastNode != "" {
		if r, ok := idx.byOD[odKey{origin: lastNode, destination: station}]; ok {
			return r, true, true
		}
	}
	if r, ok := idx.fallback[station]; ok {
		return r, false, true
	}
	return track.VehicleRoute{}, false, false
}

// UpstreamCounts captures where a package's container currently sits
// relative to its assigned station, derived from the latest transportation
// scans, the facility stream, and the node-type reference.
type UpstreamCounts struct {
	InYard    int // package present at the assigned station
	Upstream  int // container at a node upstream of the station
	InTransit int // container departed a node, on a trailer

	UpstreamNode string
	UpstreamType track.NodeType

	TransitDest     string
	TransitDestType track.NodeType
	DestIsOwn       bool

	// DepartureNode is the node the container last departed, when a departure
	// scan exists. Backs the exact route lookup even when the latest scan is
	// a LOADED event at a dock or yard node no route originates from.
	DepartureNode string

	ArrivalTime time.Time // arrival at the assigned station, when known
}

// inStationEvidence reports whether a facility event places the package
// inside its assigned station. Facility events fire on station equipment, so
// an in-station status at the assigned location is presence evidence even
// when no transport scan exists in the window.
func inStationEvidence(f *track.FacilityEvent, station string) bool {
	if f == nil || f.SourceLocation != station {
		return false
	}
	switch f.Status {
	case track.FacReceived, track.FacStowBuffered, track.FacStageBuffered,
		track.FacPicked, track.FacPickedFromBuffer:
		return true
	}
	return false
}

// ComputeUpstream derives the per-package position counts consumed by the
// cascade's manifested rules. The latest scan decides: an arrival at the
// assigned station counts in-yard, an arrival elsewhere counts upstream, and
// a departure counts in-transit toward the route destination. The facility
// stream supplies presence and destination evidence for packages the
// transportation systems never scanned.
func ComputeUpstream(pkg track.ResolvedPackage, transport resolve.TransportSet, types resolve.NodeTypes, routes *RouteIndex) UpstreamCounts {
	var c UpstreamCounts

	// Arrival time at the assigned station backs the cutoff comparison even
	// when a later scan moved the container on.
	if arr, ok := transport.Arrivals[pkg.ContainerID]; ok && arr.NodeID == pkg.Station {
		c.ArrivalTime = arr.EventTime
	}
	if inStationEvidence(pkg.Facility, pkg.Station) {
		c.InYard = 1
		if c.ArrivalTime.IsZero() && pkg.Facility.Status == track.FacReceived {
			c.ArrivalTime = pkg.Facility.StateTime
		}
	}

	scan := pkg.Transport
	if scan != nil {
		switch {
		case scan.IsArrival() && scan.NodeID == pkg.Station:
			c.InYard = 1
		case scan.IsArrival():
			c.Upstream = 1
			c.UpstreamNode = scan.NodeID
			c.UpstreamType = types.TypeOf(scan.NodeID)
		case scan.IsDeparture() || scan.EventCode == track.ScanLoaded:
			c.InTransit = 1
			origin := scan.NodeID
			if dep, ok := transport.Departures[pkg.ContainerID]; ok {
				origin = dep.NodeID
			}
			c.DepartureNode = origin
			if route, _, ok := routes.Route(origin, pkg.Station); ok {
				c.TransitDest = route.Destination
			}
			if c.TransitDest == "" {
				c.TransitDest = pkg.Station
			}
			c.TransitDestType = types.TypeOf(c.TransitDest)
			c.DestIsOwn = c.TransitDest == pkg.Station
		}
	}

	// A facility dispatch toward a typed node stands in for a missing
	// departure scan.
	if c.TransitDestType == "" {
		if f := pkg.Facility; f != nil && f.Status == track.FacInTransit && f.DestinationID != "" {
			c.TransitDest = f.DestinationID
			c.TransitDestType = types.TypeOf(f.DestinationID)
			c.DestIsOwn = f.DestinationID == pkg.Station
		}
	}
	return c
}
