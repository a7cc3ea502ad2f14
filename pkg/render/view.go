package render

import (
	"fmt"
	"html/template"
	"time"

	"metromap/pkg/lines"
	"metromap/pkg/stations"
	"metromap/pkg/surface"
	"metromap/pkg/types"
)

// MarkerView is one vehicle marker on the overlay.
type MarkerView struct {
	ID      string
	X, Y    float64
	Color   string
	R, Halo int
	Hovered bool
}

// TooltipView is the hovered vehicle's detail box.
type TooltipView struct {
	Placement
	Title          string
	Color          string
	Direction      string
	Carriages      int
	Status         string
	Occupancy      string
	OccupancyClass string
	ShowOccupancy  bool
	Speed          string
	HasSpeed       bool
	Updated        string
}

// HitTargetView is an invisible per-station click target covering the
// same box the hit test uses.
type HitTargetView struct {
	ID        string
	Name      string
	Left, Top float64
	Size      float64
}

// RowView is one arrival line on a panel card.
type RowView struct {
	Headsign string
	Status   string
	Minutes  string
	Caption  string
	Tier     Tier
	Clock    string
}

// CardView is one (line, direction) group in the panel.
type CardView struct {
	Line      string
	Color     string
	Badge     template.URL
	Direction string
	Rows      []RowView
}

// PanelView is the open station panel.
type PanelView struct {
	StationID string
	Name      string
	Loading   bool
	Error     string
	Empty     bool
	EmptyText string
	Cards     []CardView
	Footer    string
}

// LegendItem is one legend swatch.
type LegendItem struct {
	Label  string
	Color  string
	Swatch template.URL
}

// StatusView is the bar under the map.
type StatusView struct {
	Count   int
	Updated string
	Error   string
}

// FrameView is everything the map fragment template needs.
type FrameView struct {
	MapImage   string
	Width      float64
	Height     float64
	Markers    []MarkerView
	Tooltip    *TooltipView
	HitTargets []HitTargetView
	Panel      *PanelView
	Status     StatusView
	Legend     []LegendItem
}

// Options control how frames are turned into views.
type Options struct {
	MapImage           string
	Location           *time.Location
	PredictionInterval time.Duration
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// BuildFrame turns a surface frame into its view model.
func BuildFrame(f surface.Frame, opts Options) FrameView {
	loc := opts.location()
	v := FrameView{
		MapImage: opts.MapImage,
		Width:    stations.CanvasWidth,
		Height:   stations.CanvasHeight,
		Status: StatusView{
			Count: len(f.Vehicles),
			Error: f.Error,
		},
		Legend: Legend(),
	}
	if !f.UpdatedAt.IsZero() {
		v.Status.Updated = f.UpdatedAt.In(loc).Format("3:04:05 PM")
	}

	for _, veh := range f.Vehicles {
		hovered := veh.ID == f.Hovered
		r, halo := Radii(hovered)
		v.Markers = append(v.Markers, MarkerView{
			ID:      veh.ID,
			X:       veh.X,
			Y:       veh.Y,
			Color:   veh.Color,
			R:       r,
			Halo:    halo,
			Hovered: hovered,
		})
	}
	if veh, ok := f.HoveredVehicle(); ok {
		t := BuildTooltip(veh, loc)
		v.Tooltip = &t
	}

	for _, st := range stations.All() {
		v.HitTargets = append(v.HitTargets, HitTargetView{
			ID:   st.ID,
			Name: st.Name,
			Left: st.X - stations.HitTolerance,
			Top:  st.Y - stations.HitTolerance,
			Size: 2 * stations.HitTolerance,
		})
	}

	if f.Panel != nil {
		p := BuildPanel(*f.Panel, loc, opts.PredictionInterval)
		v.Panel = &p
	}
	return v
}

// BuildTooltip renders the detail box for one vehicle.
func BuildTooltip(veh types.VehicleRecord, loc *time.Location) TooltipView {
	t := TooltipView{
		Placement: Place(veh.X, veh.Y),
		Title:     fmt.Sprintf("%s Line - Train %s", veh.Line, veh.Label),
		Color:     veh.Color,
		Direction: veh.Direction.String(),
		Carriages: veh.Carriages,
		Status:    TitleCase(veh.CurrentStatus),
		Updated:   ClockTime(veh.UpdatedAt, loc),
	}
	if ShowOccupancy(veh.Occupancy) {
		t.ShowOccupancy = true
		t.Occupancy = TitleCase(*veh.Occupancy)
		t.OccupancyClass = OccupancyClass(*veh.Occupancy)
	}
	t.Speed, t.HasSpeed = Speed(veh.Speed)
	return t
}

// BuildPanel renders the station panel cards.
func BuildPanel(p surface.Panel, loc *time.Location, interval time.Duration) PanelView {
	if interval <= 0 {
		interval = surface.DefaultPredictionInterval
	}
	v := PanelView{
		StationID: p.StationID,
		Name:      p.StationName,
		Loading:   p.Loading,
		Error:     p.Error,
		Empty:     p.Empty(),
		EmptyText: surface.PanelEmptyMessage,
		Footer:    fmt.Sprintf("Updates every %d seconds", int(interval.Seconds())),
	}
	for _, g := range p.Groups {
		card := CardView{
			Line:      g.Line,
			Color:     g.Color,
			Badge:     TrainBadge(g.Color, g.Line, g.Direction.String()),
			Direction: g.Direction.String(),
		}
		for _, pr := range g.Predictions {
			card.Rows = append(card.Rows, buildRow(pr, loc))
		}
		v.Cards = append(v.Cards, card)
	}
	return v
}

func buildRow(p types.PredictionRecord, loc *time.Location) RowView {
	row := RowView{Headsign: p.Headsign}
	if p.Status != nil {
		row.Status = *p.Status
	}
	if p.MinutesAway != nil {
		row.Minutes, row.Caption = MinutesLabel(*p.MinutesAway)
		row.Tier = TierOf(*p.MinutesAway)
	}
	if p.ArrivalTime != nil {
		row.Clock = ShortClock(*p.ArrivalTime, loc)
	}
	return row
}

// Legend returns the trunk line swatches.
func Legend() []LegendItem {
	var items []LegendItem
	for _, l := range lines.Legend() {
		items = append(items, LegendItem{
			Label:  l.Label + " Line",
			Color:  l.Color,
			Swatch: LineBadge(l.Color),
		})
	}
	return items
}
