package surface

import (
	"time"

	"metromap/pkg/types"
)

// Frame is everything needed to draw one viewer's map. It is a snapshot:
// later polls and interactions produce new frames.
type Frame struct {
	Vehicles  []types.VehicleRecord `json:"vehicles"`
	UpdatedAt time.Time             `json:"updated_at"`
	Error     string                `json:"error,omitempty"`
	Hovered   string                `json:"hovered,omitempty"`
	Panel     *Panel                `json:"panel,omitempty"`
}

// HoveredVehicle returns the hovered vehicle if it is still on the map.
func (f Frame) HoveredVehicle() (types.VehicleRecord, bool) {
	if f.Hovered == "" {
		return types.VehicleRecord{}, false
	}
	for _, v := range f.Vehicles {
		if v.ID == f.Hovered {
			return v, true
		}
	}
	return types.VehicleRecord{}, false
}
