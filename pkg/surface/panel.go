// Package surface holds per-viewer map state: hover, the open station
// panel and its prediction loop.
package surface

import (
	"fmt"
	"time"

	"metromap/pkg/types"
)

const (
	// PanelErrorMessage is shown when a prediction poll fails.
	PanelErrorMessage = "Failed to load arrival predictions"
	// PanelEmptyMessage is shown when no upcoming arrivals remain.
	PanelEmptyMessage = "No upcoming trains"
)

// Panel is a station panel as of one prediction poll. Values are replaced,
// never modified in place.
type Panel struct {
	StationID   string                   `json:"station_id"`
	StationName string                   `json:"station_name"`
	Loading     bool                     `json:"loading"`
	Error       string                   `json:"error,omitempty"`
	Predictions []types.PredictionRecord `json:"predictions"`
	Groups      []Group                  `json:"groups"`
	UpdatedAt   time.Time                `json:"updated_at"`
	Epoch       uint64                   `json:"epoch"`
}

// Empty reports whether a finished poll produced no arrivals.
func (p Panel) Empty() bool {
	return !p.Loading && p.Error == "" && len(p.Predictions) == 0
}

// Group is one card in the panel: predictions sharing a line and direction.
type Group struct {
	Key         string                   `json:"key"`
	Line        string                   `json:"route"`
	Color       string                   `json:"color"`
	Direction   types.Direction          `json:"direction"`
	Predictions []types.PredictionRecord `json:"predictions"`
}

// GroupPredictions buckets predictions by (line, direction). Groups appear
// in the order their first member appears and members keep input order.
func GroupPredictions(preds []types.PredictionRecord) []Group {
	var groups []Group
	pos := make(map[string]int)
	for _, p := range preds {
		key := fmt.Sprintf("%s-%s", p.Line, p.Direction)
		i, ok := pos[key]
		if !ok {
			i = len(groups)
			pos[key] = i
			groups = append(groups, Group{
				Key:       key,
				Line:      p.Line,
				Color:     p.Color,
				Direction: p.Direction,
			})
		}
		groups[i].Predictions = append(groups[i].Predictions, p)
	}
	return groups
}
