package types

import "github.com/clbanning/mxj/v2"

// Entity type discriminants used by the upstream JSON:API documents.
const (
	TypeVehicle    = "vehicle"
	TypeRoute      = "route"
	TypeTrip       = "trip"
	TypeStop       = "stop"
	TypePrediction = "prediction"
)

// Document is a JSON:API envelope: a primary list plus a heterogeneous
// side list of related resources.
type Document struct {
	Data     []Resource `json:"data"`
	Included []Resource `json:"included,omitempty"`
}

// Resource is a single JSON:API resource object. Attributes and
// relationships are kept as mxj maps so fields can be read by path
// without a struct per upstream entity version.
type Resource struct {
	ID            string  `json:"id"`
	Type          string  `json:"type"`
	Attributes    mxj.Map `json:"attributes,omitempty"`
	Relationships mxj.Map `json:"relationships,omitempty"`
}

// Route is the typed view of an included route resource.
type Route struct {
	ID        string
	LongName  string
	ShortName string
	Color     string
	TextColor string
}

// Trip is the typed view of an included trip resource.
type Trip struct {
	ID       string
	Headsign string
}

// Stop is the typed view of an included stop resource.
type Stop struct {
	ID            string
	Name          string
	ParentStation string
}

// Vehicle is the typed view of a primary vehicle resource.
type Vehicle struct {
	ID            string
	CurrentStatus string
	Direction     Direction
	Label         string
	Speed         *float64
	Carriages     int
	Occupancy     *string
	UpdatedAt     string
	RouteID       string
	StopID        string
	TripID        string
}

// Prediction is the typed view of a primary prediction resource.
type Prediction struct {
	ID            string
	ArrivalTime   string
	DepartureTime string
	Direction     Direction
	Status        *string
	RouteID       string
	TripID        string
	StopID        string
}
