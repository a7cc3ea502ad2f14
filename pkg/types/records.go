package types

import "time"

// Direction is the upstream direction_id flag.
type Direction int

const (
	Outbound Direction = 0
	Inbound  Direction = 1
)

// String returns the rider-facing name used on tooltips and panel cards.
func (d Direction) String() string {
	if d == Outbound {
		return "Outbound"
	}
	return "Inbound"
}

// Point is a position on the 826x770 logical canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// VehicleRecord is a vehicle placed on the map for one poll cycle.
type VehicleRecord struct {
	ID            string    `json:"id"`
	StationID     string    `json:"station_id"`
	X             float64   `json:"x"`
	Y             float64   `json:"y"`
	Line          string    `json:"route"`
	Color         string    `json:"color"`
	Label         string    `json:"label"`
	Direction     Direction `json:"direction"`
	Carriages     int       `json:"carriages"`
	Occupancy     *string   `json:"occupancy_status"`
	CurrentStatus string    `json:"current_status"`
	Speed         *float64  `json:"speed"`
	UpdatedAt     string    `json:"updated_at"`
}

// PredictionRecord is one upcoming arrival shown in a station panel.
type PredictionRecord struct {
	Line        string     `json:"route"`
	Color       string     `json:"color"`
	Headsign    string     `json:"headsign"`
	Direction   Direction  `json:"direction"`
	ArrivalTime *time.Time `json:"arrival_time"`
	MinutesAway *int       `json:"minutes_away"`
	Status      *string    `json:"status"`
}

// MappedStation is an editor working-set entry. It only lives in memory.
type MappedStation struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Line string  `json:"line,omitempty"`
}

// StopSummary is a parent station as listed by the upstream stops endpoint.
type StopSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
