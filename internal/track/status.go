package track

// SubStatus is the fine-grained package state assigned by the first
// classification pass. Values outside this set only appear as raw
// facility-status passthrough when no cascade rule matched.
type SubStatus string

const (
	SubSidelined            SubStatus = "SIDELINED"
	SubUndeliverable        SubStatus = "UNDELIVERABLE"
	SubDepartedForFC        SubStatus = "DEPARTED_FOR_FC"
	SubFCReturn             SubStatus = "FC_RETURN"
	SubCancellation         SubStatus = "CANCELLATION"
	SubInTransitToAnotherDS SubStatus = "IN_TRANSIT_TO_ANOTHER_DS"
	SubDispatched           SubStatus = "DISPATCHED"
	SubRTS                  SubStatus = "RTS"
	SubPicked               SubStatus = "PICKED"
	SubDelivered            SubStatus = "DELIVERED"
	SubStowed               SubStatus = "STOWED"
	SubInducted             SubStatus = "INDUCTED"
	SubInYard               SubStatus = "IN_YARD"
	SubAtFC                 SubStatus = "AT_FC"
	SubAtSC                 SubStatus = "AT_SC"
	SubAtAH                 SubStatus = "AT_AH"
	SubAtOtherUpstream      SubStatus = "AT_OTHER_UPSTREAM_NODES"
	SubInTransitToDS        SubStatus = "IN_TRANSIT_TO_DS"
	SubInTransitToFC        SubStatus = "IN_TRANSIT_TO_FC"
	SubInTransitToSC        SubStatus = "IN_TRANSIT_TO_SC"
	SubInTransitToAH        SubStatus = "IN_TRANSIT_TO_AH"
	SubInTransitToOther     SubStatus = "IN_TRANSIT_TO_OTHER_NODES"
	SubManifested           SubStatus = "MANIFESTED"
)

func (s SubStatus) String() string { return string(s) }

// AllSubStatuses lists every cascade-assignable sub-status.
var AllSubStatuses = []SubStatus{
	SubSidelined, SubUndeliverable, SubDepartedForFC, SubFCReturn,
	SubCancellation, SubInTransitToAnotherDS, SubDispatched, SubRTS,
	SubPicked, SubDelivered, SubStowed, SubInducted, SubInYard,
	SubAtFC, SubAtSC, SubAtAH, SubAtOtherUpstream,
	SubInTransitToDS, SubInTransitToFC, SubInTransitToSC, SubInTransitToAH,
	SubInTransitToOther, SubManifested,
}

// PrimaryStatus is the grouped business status assigned by the second
// classification pass. This is a closed enumeration: every classified
// package carries exactly one of these values.
type PrimaryStatus string

const (
	PrimaryMNR            PrimaryStatus = "MNR"
	PrimaryInStation      PrimaryStatus = "INSTATION"
	PrimaryLLH            PrimaryStatus = "LLH"
	PrimaryDepartedForFC  PrimaryStatus = "DEPARTED_FOR_FC"
	PrimaryRTS            PrimaryStatus = "RTS"
	PrimaryDSDwells       PrimaryStatus = "DS_DWELLS"
	PrimarySidelined      PrimaryStatus = "SIDELINED"
	PrimaryHeld           PrimaryStatus = "HELD"
	PrimaryUngrouped      PrimaryStatus = "UNGROUPED"
	PrimaryOutForDelivery PrimaryStatus = "OUT_FOR_DELIVERY"
	PrimaryDelivered      PrimaryStatus = "DELIVERED"
)

func (s PrimaryStatus) String() string { return string(s) }

// AllPrimaryStatuses lists every member of the closed primary enumeration,
// in the order aggregate columns are emitted.
var AllPrimaryStatuses = []PrimaryStatus{
	PrimaryMNR,
	PrimaryInStation,
	PrimaryLLH,
	PrimaryDepartedForFC,
	PrimaryRTS,
	PrimaryDSDwells,
	PrimarySidelined,
	PrimaryHeld,
	PrimaryUngrouped,
	PrimaryOutForDelivery,
	PrimaryDelivered,
}

// BacklogStatuses is the set of primary statuses that represent packages
// not yet delivered or out for delivery.
var BacklogStatuses = map[PrimaryStatus]bool{
	PrimaryMNR:           true,
	PrimaryInStation:     true,
	PrimaryLLH:           true,
	PrimaryDepartedForFC: true,
	PrimaryRTS:           true,
	PrimaryDSDwells:      true,
}
