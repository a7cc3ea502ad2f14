package editor

import (
	"math"
	"strings"

	"metromap/pkg/lines"
	"metromap/pkg/types"
)

// Zoom limits and step for the editor canvas.
const (
	MinZoom  = 0.5
	MaxZoom  = 3.0
	ZoomStep = 0.25
)

// View is the pan and zoom of the editor canvas. It never changes stored
// coordinates.
type View struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"pan_x"`
	PanY float64 `json:"pan_y"`
}

// DefaultView is the unpanned, unzoomed view.
func DefaultView() View {
	return View{Zoom: 1}
}

// Transform is the CSS transform applied to the canvas wrapper.
func (v View) Transform() string {
	return "translate(" + trimFloat(v.PanX) + "px, " + trimFloat(v.PanY) + "px) scale(" + trimFloat(v.Zoom) + ")"
}

// Percent is the zoom as a whole percentage.
func (v View) Percent() int {
	return int(math.Round(v.Zoom * 100))
}

// Pan moves the view by (dx, dy) pixels.
func (w *Workspace) Pan(dx, dy float64) (View, error) {
	if !finite(dx, dy) {
		return View{}, ErrNotFinite
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.view.PanX += dx
	w.view.PanY += dy
	return w.view, nil
}

// ZoomBy changes the zoom by steps of ZoomStep, clamped to [MinZoom, MaxZoom].
func (w *Workspace) ZoomBy(steps int) View {
	w.mu.Lock()
	defer w.mu.Unlock()
	z := w.view.Zoom + float64(steps)*ZoomStep
	w.view.Zoom = math.Max(MinZoom, math.Min(MaxZoom, z))
	return w.view
}

// ResetView restores the default pan and zoom.
func (w *Workspace) ResetView() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.view = DefaultView()
	return w.view
}

// ToggleGrid flips the 10-unit grid overlay.
func (w *Workspace) ToggleGrid() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.showGrid = !w.showGrid
	return w.showGrid
}

// SetFilter sets the stop list search text and mapped-only flag.
func (w *Workspace) SetFilter(search string, mappedOnly bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.search = search
	w.mappedOnly = mappedOnly
}

// StopRow is one entry of the editor's stop list.
type StopRow struct {
	types.StopSummary
	Mapped bool    `json:"mapped"`
	Armed  bool    `json:"armed"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
}

// State is a snapshot of the workspace for drawing.
type State struct {
	Line       lines.EditorLine      `json:"line"`
	Lines      []lines.EditorLine    `json:"lines"`
	Stops      []StopRow             `json:"stops"`
	Entries    []types.MappedStation `json:"entries"`
	Armed      string                `json:"armed,omitempty"`
	Dragging   string                `json:"dragging,omitempty"`
	Notice     string                `json:"notice,omitempty"`
	View       View                  `json:"view"`
	ShowGrid   bool                  `json:"show_grid"`
	Search     string                `json:"search"`
	MappedOnly bool                  `json:"mapped_only"`
	Mapped     int                   `json:"mapped"`
	Total      int                   `json:"total"`
	Progress   int                   `json:"progress"`
	Export     string                `json:"export"`
}

// State returns the current workspace snapshot.
func (w *Workspace) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	st := State{
		Line:       w.line,
		Lines:      lines.EditorLines,
		Armed:      w.armed,
		Dragging:   w.drag,
		Notice:     w.notice,
		View:       w.view,
		ShowGrid:   w.showGrid,
		Search:     w.search,
		MappedOnly: w.mappedOnly,
		Total:      len(w.stops),
	}
	st.Entries = make([]types.MappedStation, len(w.entries))
	copy(st.Entries, w.entries)
	st.Mapped, st.Progress = w.progressLocked()

	for _, s := range w.stops {
		i := w.indexLocked(s.ID)
		if !matches(s, w.search) || (w.mappedOnly && i < 0) {
			continue
		}
		row := StopRow{StopSummary: s, Mapped: i >= 0, Armed: s.ID == w.armed}
		if i >= 0 {
			row.X, row.Y = w.entries[i].X, w.entries[i].Y
		}
		st.Stops = append(st.Stops, row)
	}
	st.Export = ExportEntries(st.Entries)
	return st
}

// Progress returns how many entries belong to the current line and that
// count as a percentage of its stops.
func (w *Workspace) Progress() (mapped, percent int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.progressLocked()
}

func (w *Workspace) progressLocked() (int, int) {
	mapped := 0
	for _, e := range w.entries {
		if e.Line == w.line.ID {
			mapped++
		}
	}
	if len(w.stops) == 0 {
		return mapped, 0
	}
	return mapped, int(math.Round(float64(mapped) / float64(len(w.stops)) * 100))
}

func matches(s types.StopSummary, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(s.Name), q) || strings.Contains(strings.ToLower(s.ID), q)
}

func trimFloat(v float64) string {
	return formatCoord(v)
}
