package classify

import (
	"regexp"
	"time"

	"sortwatch/internal/track"
)

// accessPointPattern recognizes last-mile access-point ids among
// delivery-station-type destinations (lockers, counters).
var accessPointPattern = regexp.MustCompile(`^AP[A-Z0-9]+$`)

// Input bundles everything pass 1 evaluates for a single package.
type Input struct {
	Pkg       track.ResolvedPackage
	Sidelined bool
	Counts    UpstreamCounts
}

func (in Input) facility() track.FacilityEvent {
	if in.Pkg.Facility != nil {
		return *in.Pkg.Facility
	}
	return track.FacilityEvent{}
}

func (in Input) manifested() bool {
	return in.Pkg.StateStatus == track.SubManifested.String()
}

// rule is one (predicate, label) pair of the cascade. Rules are evaluated
// top to bottom; the first match wins and later rules are not evaluated.
type rule struct {
	name string
	when func(Input) bool
	sub  func(Input) track.SubStatus
}

func fixed(s track.SubStatus) func(Input) track.SubStatus {
	return func(Input) track.SubStatus { return s }
}

// cascade is the ordered pass-1 rule list. Order is load-bearing: several
// predicates overlap deliberately (e.g. disposed appears in both the
// terminal-loss rule and the RTS rule) and only the earlier one can fire.
var cascade = []rule{
	{
		name: "sidelined",
		when: func(in Input) bool { return in.Sidelined },
		sub:  fixed(track.SubSidelined),
	},
	{
		name: "terminal-loss",
		when: func(in Input) bool {
			f := in.facility()
			switch f.Status {
			case track.FacLost, track.FacMissing, track.FacDisposed:
				return true
			case track.FacDamaged:
				return f.ReverseTrackingID != ""
			case track.FacStowed:
				return f.SubStatus == track.FacSubFCReturn
			}
			return false
		},
		sub: fixed(track.SubUndeliverable),
	},
	{
		name: "departed-for-fc",
		when: func(in Input) bool {
			f := in.facility()
			if f.SubStatus == track.FacSubCarrierSwtch {
				return true
			}
			if f.Status != track.FacInTransit {
				return false
			}
			switch in.Counts.TransitDestType {
			case track.NodeFC, track.NodeSC, track.NodeAA:
				return f.DestinationType == track.DestNode || f.DestinationType == ""
			}
			return false
		},
		sub: fixed(track.SubDepartedForFC),
	},
	{
		name: "fc-return",
		when: func(in Input) bool {
			f := in.facility()
			return (f.Status == track.FacReprocess || f.Status == track.FacStageBuffered) && f.ReverseTrackingID != ""
		},
		sub: fixed(track.SubFCReturn),
	},
	{
		name: "cancellation",
		when: func(in Input) bool {
			f := in.facility()
			return f.Status == track.FacReprocess && f.SubStatus == track.FacSubCustCancel
		},
		sub: fixed(track.SubCancellation),
	},
	{
		name: "ds-to-ds",
		when: func(in Input) bool {
			f := in.facility()
			return f.Status == track.FacInTransit && f.SourceType == track.DestStation && in.Counts.TransitDestType == track.NodeDS
		},
		sub: func(in Input) track.SubStatus {
			if accessPointPattern.MatchString(in.facility().DestinationID) {
				return track.SubDispatched
			}
			return track.SubInTransitToAnotherDS
		},
	},
	{
		name: "rts",
		when: func(in Input) bool {
			f := in.facility()
			switch f.Status {
			case track.FacReprocess, track.FacDisposed, track.FacDeliveryFailed, track.FacDeliveryRejected, track.FacDropFailed:
				return true
			case track.FacInTransit:
				return f.ReverseTrackingID != ""
			}
			return false
		},
		sub: fixed(track.SubRTS),
	},
	{
		name: "dispatched",
		when: func(in Input) bool {
			f := in.facility()
			return f.Status == track.FacInTransit && (f.DestinationType == track.DestCustomerAddress || f.DestinationType == track.DestAccessPoint)
		},
		sub: fixed(track.SubDispatched),
	},
	{
		name: "picked",
		when: func(in Input) bool {
			s := in.facility().Status
			return s == track.FacPicked || s == track.FacPickedFromBuffer
		},
		sub: fixed(track.SubPicked),
	},
	{
		name: "delivered",
		when: func(in Input) bool { return in.facility().Status == track.FacDropped },
		sub:  fixed(track.SubDelivered),
	},
	{
		name: "stowed",
		when: func(in Input) bool { return in.facility().Status == track.FacStageBuffered },
		sub:  fixed(track.SubStowed),
	},
	{
		name: "inducted",
		when: func(in Input) bool { return in.facility().Status == track.FacStowBuffered },
		sub:  fixed(track.SubInducted),
	},
	{
		name: "in-yard",
		when: func(in Input) bool {
			if in.manifested() && in.Counts.InYard > 0 {
				return true
			}
			return in.Pkg.StateStatus == track.SubInYard.String() || in.facility().Status == track.FacReceived
		},
		sub: fixed(track.SubInYard),
	},
	{
		name: "at-upstream",
		when: func(in Input) bool { return in.manifested() && in.Counts.Upstream > 0 },
		sub: func(in Input) track.SubStatus {
			switch in.Counts.UpstreamType {
			case track.NodeFC:
				return track.SubAtFC
			case track.NodeSC:
				return track.SubAtSC
			case track.NodeAA:
				return track.SubAtAH
			}
			return track.SubAtOtherUpstream
		},
	},
	{
		name: "in-transit-trailer",
		when: func(in Input) bool { return in.manifested() && in.Counts.InTransit > 0 },
		sub: func(in Input) track.SubStatus {
			if in.Counts.DestIsOwn || in.Counts.TransitDestType == track.NodeDS {
				return track.SubInTransitToDS
			}
			switch in.Counts.TransitDestType {
			case track.NodeFC:
				return track.SubInTransitToFC
			case track.NodeSC:
				return track.SubInTransitToSC
			case track.NodeAA:
				return track.SubInTransitToAH
			}
			return track.SubInTransitToOther
		},
	},
}

// ClassifySub runs pass 1: the first matching rule assigns the sub-status.
// When nothing matches, the raw resolved status passes through unchanged.
func ClassifySub(in Input) (track.SubStatus, string) {
	for _, r := range cascade {
		if r.when(in) {
			return r.sub(in), r.name
		}
	}
	return track.SubStatus(in.Pkg.StateStatus), "raw-passthrough"
}

// groupDefault maps each pass-1 sub-status to its primary group when the
// route-aware pass-2 refinement does not apply.
var groupDefault = map[track.SubStatus]track.PrimaryStatus{
	track.SubSidelined:            track.PrimarySidelined,
	track.SubUndeliverable:        track.PrimaryHeld,
	track.SubDepartedForFC:        track.PrimaryDepartedForFC,
	track.SubFCReturn:             track.PrimaryRTS,
	track.SubCancellation:         track.PrimaryRTS,
	track.SubRTS:                  track.PrimaryRTS,
	track.SubDispatched:           track.PrimaryOutForDelivery,
	track.SubInTransitToAnotherDS: track.PrimaryOutForDelivery,
	track.SubDelivered:            track.PrimaryDelivered,
	track.SubPicked:               track.PrimaryInStation,
	track.SubStowed:               track.PrimaryInStation,
	track.SubInducted:             track.PrimaryInStation,
	track.SubInYard:               track.PrimaryInStation,
	track.SubManifested:           track.PrimaryMNR,
	track.SubAtFC:                 track.PrimaryMNR,
	track.SubAtSC:                 track.PrimaryMNR,
	track.SubAtAH:                 track.PrimaryMNR,
	track.SubAtOtherUpstream:      track.PrimaryMNR,
	track.SubInTransitToDS:        track.PrimaryMNR,
	track.SubInTransitToFC:        track.PrimaryMNR,
	track.SubInTransitToSC:        track.PrimaryMNR,
	track.SubInTransitToAH:        track.PrimaryMNR,
	track.SubInTransitToOther:     track.PrimaryMNR,
}

// inStationFamily is the sub-status set eligible for the LLH / INSTATION /
// DS_DWELLS cutoff refinement.
var inStationFamily = map[track.SubStatus]bool{
	track.SubInYard:   true,
	track.SubInducted: true,
	track.SubStowed:   true,
	track.SubPicked:   true,
}

// upstreamFamily is the sub-status set pinned to MNR by pass 2.
var upstreamFamily = map[track.SubStatus]bool{
	track.SubAtFC:             true,
	track.SubAtSC:             true,
	track.SubAtAH:             true,
	track.SubAtOtherUpstream:  true,
	track.SubInTransitToDS:    true,
	track.SubInTransitToFC:    true,
	track.SubInTransitToSC:    true,
	track.SubInTransitToAH:    true,
	track.SubInTransitToOther: true,
	track.SubManifested:       true,
}

// Classification is the full two-pass result for one package.
type Classification struct {
	Sub     track.SubStatus
	Primary track.PrimaryStatus
	Rule    string

	RouteID             string
	CommitmentTime      time.Time
	CommitmentEffective time.Time
	ArrivalTime         time.Time
	OnTime              bool
}

// Classify runs both passes for one package.
//
// Pass 2 re-maps the sub-status via the cutoff comparison only when the
// package is manifested and a route (exact or fallback) is known:
//   - arrival after the cutoff with the commitment inside the trailing
//     1-day window -> LLH
//   - arrival before the cutoff with the commitment inside the trailing
//     6-day window -> INSTATION
//   - in-station with a commitment staler than 6 days -> DS_DWELLS
//   - physically at a node other than the assigned station -> MNR
//
// Packages lacking any route association default through the pass-1 group.
func Classify(in Input, routes *RouteIndex, clock *OperatingClock, runTime time.Time) Classification {
	sub, ruleName := ClassifySub(in)
	out := Classification{Sub: sub, Rule: ruleName, ArrivalTime: in.Counts.ArrivalTime}

	refinable := in.Pkg.Manifest != nil && (inStationFamily[sub] || upstreamFamily[sub])

	// Prefer the isolated departure node: a LOADED scan can sit at a dock or
	// yard node no scheduled route originates from.
	var lastNode string
	switch {
	case in.Counts.DepartureNode != "":
		lastNode = in.Counts.DepartureNode
	case in.Pkg.Transport != nil:
		lastNode = in.Pkg.Transport.NodeID
	}

	route, _, hasRoute := routes.Route(lastNode, in.Pkg.Station)
	if hasRoute {
		out.RouteID = route.RouteID
		out.CommitmentTime = route.CommitmentTime
		out.CommitmentEffective = clock.CommitmentEffective(in.Pkg.Station, route.CommitmentTime)
	}

	switch {
	case refinable && hasRoute:
		out.Primary = refineWithCutoff(in, sub, out.CommitmentTime, out.CommitmentEffective)
	default:
		out.Primary = groupDefault[sub]
	}

	if out.Primary == "" {
		// Raw passthrough with no pre-classification lands in the catch-all.
		out.Primary = track.PrimaryUngrouped
	}

	out.OnTime = onTime(in, out, runTime)
	return out
}

func refineWithCutoff(in Input, sub track.SubStatus, commitment, effective time.Time) track.PrimaryStatus {
	// At a different node than assigned: misrouted or still upstream.
	if upstreamFamily[sub] || in.Counts.InYard == 0 {
		return track.PrimaryMNR
	}

	age := effective.Sub(commitment)
	arrival := in.Counts.ArrivalTime

	switch {
	case age <= 24*time.Hour && !arrival.IsZero() && arrival.After(effective):
		return track.PrimaryLLH
	case age <= 6*24*time.Hour && (arrival.IsZero() || !arrival.After(effective)):
		return track.PrimaryInStation
	case age <= 24*time.Hour:
		// Arrival unknown or before cutoff inside the tight window.
		return track.PrimaryInStation
	default:
		return track.PrimaryDSDwells
	}
}

// onTime reports whether the package still meets its commitment-effective
// time: terminal packages compare their final facility event, everything
// else compares the run time.
func onTime(in Input, c Classification, runTime time.Time) bool {
	if c.CommitmentEffective.IsZero() {
		return true
	}
	ref := runTime
	if (c.Sub == track.SubDelivered || c.Sub == track.SubDispatched) && in.Pkg.Facility != nil {
		ref = in.Pkg.Facility.StateTime
	}
	return !ref.After(c.CommitmentEffective)
}
