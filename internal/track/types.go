package track

import "time"

// NodeType labels a node's role in the package flow network.
type NodeType string

const (
	// NodeFC is a fulfillment center.
	NodeFC NodeType = "FC"
	// NodeSC is a sort center.
	NodeSC NodeType = "SC"
	// NodeAA is an aggregation (sort) hub.
	NodeAA NodeType = "AA"
	// NodeDS is a delivery station.
	NodeDS NodeType = "DS"
	// NodeUnknown marks ids absent from the package-flow reference table.
	NodeUnknown NodeType = "UNKNOWN"
)

// Node is an immutable station/node reference record, reloaded each run.
type Node struct {
	ID           string `json:"id"`
	Region       string `json:"region"`
	Country      string `json:"country"`
	Timezone     string `json:"timezone"`
	BusinessUnit string `json:"businessUnit,omitempty"`
	Active       bool   `json:"active"`
}

// ManifestRecord is a "shipping label applied" record for a package leg.
type ManifestRecord struct {
	ShipmentID   string    `json:"shipmentId"`
	PackageID    string    `json:"packageId"`
	LegID        string    `json:"legId,omitempty"`
	TrackingID   string    `json:"trackingId"`
	Station      string    `json:"station"`
	ShipMethod   string    `json:"shipMethod"`
	PickupAt     time.Time `json:"pickupAt"`
	EstArrivalAt time.Time `json:"estArrivalAt"`
	ManifestedAt time.Time `json:"manifestedAt"`
}

// Facility state statuses emitted by station-level package handling systems.
const (
	FacReceived         = "RECEIVED"
	FacStowBuffered     = "STOW_BUFFERED"
	FacStageBuffered    = "STAGE_BUFFERED"
	FacStowed           = "STOWED"
	FacPicked           = "PICKED"
	FacPickedFromBuffer = "PICKED_FROM_BUFFER"
	FacDropped          = "DROPPED"
	FacInTransit        = "IN_TRANSIT"
	FacReprocess        = "REPROCESS"
	FacDisposed         = "DISPOSED"
	FacDeliveryFailed   = "DELIVERY_FAILED"
	FacDeliveryRejected = "DELIVERY_REJECTED"
	FacDropFailed       = "DROP_FAILED"
	FacLost             = "LOST"
	FacMissing          = "MISSING"
	FacDamaged          = "DAMAGED"
)

// Facility event sub-statuses referenced by the cascade.
const (
	FacSubFCReturn     = "FC_RETURN"
	FacSubCustCancel   = "CUSTOMER_CANCELLATION"
	FacSubCarrierSwtch = "CARRIER_SWITCH"
)

// Destination location types on facility events.
const (
	DestCustomerAddress = "CUSTOMER_ADDRESS"
	DestAccessPoint     = "ACCESS_POINT"
	DestStation         = "STATION"
	DestNode            = "NODE"
)

// FacilityEvent is a state-machine transition from a station-level system.
type FacilityEvent struct {
	TrackingID        string    `json:"trackingId"` // forward tracking id
	ContainerID       string    `json:"containerId"`
	Status            string    `json:"status"`
	SubStatus         string    `json:"subStatus,omitempty"`
	StateTime         time.Time `json:"stateTime"`
	SourceLocation    string    `json:"sourceLocation,omitempty"`
	SourceType        string    `json:"sourceType,omitempty"`
	DestinationID     string    `json:"destinationId,omitempty"`
	DestinationType   string    `json:"destinationType,omitempty"`
	ReverseTrackingID string    `json:"reverseTrackingId,omitempty"`
}

// Transportation scan event codes.
const (
	ScanArrived       = "ARRIVED"
	ScanDeparted      = "DEPARTED"
	ScanGeofenceEnter = "GEOFENCE_ENTER"
	ScanGeofenceExit  = "GEOFENCE_EXIT"
	ScanLoaded        = "LOADED"
)

// TransportEvent is a middle-mile scan tied to a transport container.
type TransportEvent struct {
	ContainerID       string    `json:"containerId"`
	ParentContainerID string    `json:"parentContainerId,omitempty"`
	TrackingID        string    `json:"trackingId"`
	ShipmentID        string    `json:"shipmentId"`
	EventCode         string    `json:"eventCode"`
	NodeID            string    `json:"nodeId"`
	EventTime         time.Time `json:"eventTime"`
	Timezone          string    `json:"timezone,omitempty"`
	ShipMethod        string    `json:"shipMethod,omitempty"`
	SupplementCode    string    `json:"supplementCode,omitempty"`
}

// IsArrival reports whether the scan places the container at a node.
func (e TransportEvent) IsArrival() bool {
	return e.EventCode == ScanArrived || e.EventCode == ScanGeofenceEnter
}

// IsDeparture reports whether the scan indicates the container left a node.
func (e TransportEvent) IsDeparture() bool {
	return e.EventCode == ScanDeparted || e.EventCode == ScanGeofenceExit
}

// VehicleRoute is a scheduled vehicle-route record. Referenced, not owned.
type VehicleRoute struct {
	RouteID        string    `json:"routeId"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	CommitmentTime time.Time `json:"commitmentTime"`
	Timezone       string    `json:"timezone,omitempty"`
	Miles          float64   `json:"miles,omitempty"`
	Account        string    `json:"account,omitempty"`
	Active         bool      `json:"active"`
}

// OperatingWindow is one definition of a station's operating clock for an
// operational date. Multiple definitions may exist; the most recently
// defined one wins.
type OperatingWindow struct {
	Station        string    `json:"station"`
	OpDate         time.Time `json:"opDate"` // midnight, station-local
	Cycle          string    `json:"cycle,omitempty"`
	InboundCutoff  time.Time `json:"inboundCutoff"`
	SortCutoff     time.Time `json:"sortCutoff"`
	DispatchCutoff time.Time `json:"dispatchCutoff"`
	DefinedAt      time.Time `json:"definedAt"`
}

// ResolvedPackage is the single best-known state per physical package,
// produced by the joiner from the three resolved source streams.
type ResolvedPackage struct {
	TrackingID  string `json:"trackingId"`
	ContainerID string `json:"containerId,omitempty"`
	ShipmentID  string `json:"shipmentId,omitempty"`
	PackageID   string `json:"packageId,omitempty"`
	Station     string `json:"station"`
	ShipMethod  string `json:"shipMethod,omitempty"`

	Manifest  *ManifestRecord `json:"manifest,omitempty"`
	Facility  *FacilityEvent  `json:"facility,omitempty"`
	Transport *TransportEvent `json:"transport,omitempty"`

	// StateStatus is the joiner-resolved status (MANIFESTED, IN_YARD, or the
	// raw facility status passed through).
	StateStatus string `json:"stateStatus"`
	ReSlam      bool   `json:"reSlam,omitempty"`
}

// ClassifiedPackage is the terminal per-package entity of a run.
type ClassifiedPackage struct {
	ResolvedPackage

	SubStatus SubStatus     `json:"subStatus"`
	Primary   PrimaryStatus `json:"primaryStatus"`
	Rule      string        `json:"rule,omitempty"` // cascade rule that fired

	RouteID             string    `json:"routeId,omitempty"`
	CommitmentTime      time.Time `json:"commitmentTime,omitempty"`
	CommitmentEffective time.Time `json:"commitmentEffective,omitempty"`
	ArrivalTime         time.Time `json:"arrivalTime,omitempty"`
	OnTime              bool      `json:"onTime"`

	Backlog   bool `json:"backlog"`
	Upstream  bool `json:"upstream"`
	InStation bool `json:"inStation"`
	LongHaul  bool `json:"longHaul"`

	InductedToday   bool `json:"inductedToday"`
	DispatchedToday bool `json:"dispatchedToday"`
	DispatchedIn7d  bool `json:"dispatchedIn7d"`
	DeliveredToday  bool `json:"deliveredToday"`
}

// AggregateRow is one (station, date, package type, on-time status) bucket
// of the published backlog aggregate.
type AggregateRow struct {
	Station        string    `json:"station"`
	OpDate         time.Time `json:"opDate"`
	OnTimeStatus   string    `json:"onTimeStatus"`
	CommitmentTime time.Time `json:"commitmentTime"`
	PackageType    string    `json:"packageType"`

	StatusCounts map[PrimaryStatus]int `json:"statusCounts"`

	InductedToday   int `json:"inductedToday"`
	DispatchedToday int `json:"dispatchedToday"`
	DispatchedIn7d  int `json:"dispatchedIn7d"`
	DeliveredToday  int `json:"deliveredToday"`
	Total           int `json:"total"`
}
