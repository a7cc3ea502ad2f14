package render

import (
	"fmt"
	"html/template"

	"metromap/pkg/editor"
	"metromap/pkg/lines"
	"metromap/pkg/stations"
)

// EditorLineView is a line button in the editor sidebar.
type EditorLineView struct {
	ID     string
	Name   string
	Color  string
	Swatch template.URL
}

// SelectedView describes the armed stop.
type SelectedView struct {
	ID     string
	Name   string
	Mapped bool
	X, Y   float64
}

// EntryMarker is a mapped station drawn on the editor canvas.
type EntryMarker struct {
	ID    string
	Name  string
	X, Y  float64
	Color string
	Armed bool
}

// GridLine is one line of the 10-unit grid.
type GridLine struct {
	X1, Y1, X2, Y2 float64
	Width          float64
}

// Crosshair marks the armed stop's position.
type Crosshair struct {
	X, Y                     float64
	Left, Right, Top, Bottom float64
}

// EditorView is the data behind the editor page.
type EditorView struct {
	MapImage   string
	Width      float64
	Height     float64
	Line       EditorLineView
	Lines      []EditorLineView
	Stops      []editor.StopRow
	Entries    int
	Markers    []EntryMarker
	Selected   *SelectedView
	Crosshair  *Crosshair
	Armed      string
	Notice     string
	View       editor.View
	ShowGrid   bool
	Grid       []GridLine
	Search     string
	MappedOnly bool
	Mapped     int
	Total      int
	Progress   int
	Export     string
}

// TransformStyle is the inline CSS for the pan and zoom transform.
func (v EditorView) TransformStyle() template.CSS {
	return template.CSS("transform: " + v.View.Transform() + ";")
}

// ProgressStyle is the inline CSS for the progress bar fill.
func (v EditorView) ProgressStyle() template.CSS {
	return template.CSS(fmt.Sprintf("width: %d%%; background-color: %s;", v.Progress, safeColor(v.Line.Color)))
}

func editorLineView(l lines.EditorLine) EditorLineView {
	return EditorLineView{ID: l.ID, Name: l.Name, Color: l.Color, Swatch: LineBadge(l.Color)}
}

// BuildEditor turns a workspace snapshot into its view model.
func BuildEditor(st editor.State, mapImage string) EditorView {
	v := EditorView{
		MapImage:   mapImage,
		Width:      stations.CanvasWidth,
		Height:     stations.CanvasHeight,
		Line:       editorLineView(st.Line),
		Stops:      st.Stops,
		Entries:    len(st.Entries),
		Armed:      st.Armed,
		Notice:     st.Notice,
		View:       st.View,
		ShowGrid:   st.ShowGrid,
		Search:     st.Search,
		MappedOnly: st.MappedOnly,
		Mapped:     st.Mapped,
		Total:      st.Total,
		Progress:   st.Progress,
		Export:     st.Export,
	}
	for _, l := range st.Lines {
		v.Lines = append(v.Lines, editorLineView(l))
	}

	for _, e := range st.Entries {
		color := lines.DefaultColor
		if l, ok := lines.FindEditorLine(e.Line); ok {
			color = l.Color
		}
		v.Markers = append(v.Markers, EntryMarker{
			ID: e.ID, Name: e.Name, X: e.X, Y: e.Y, Color: color, Armed: e.ID == st.Armed,
		})
		if e.ID == st.Armed {
			v.Crosshair = &Crosshair{
				X: e.X, Y: e.Y,
				Left: e.X - 15, Right: e.X + 15,
				Top: e.Y - 15, Bottom: e.Y + 15,
			}
		}
	}

	if st.Armed != "" {
		sel := &SelectedView{ID: st.Armed, Name: stations.Name(st.Armed)}
		for _, s := range st.Stops {
			if s.ID == st.Armed {
				sel.Name = s.Name
			}
		}
		if v.Crosshair != nil {
			sel.Mapped = true
			sel.X, sel.Y = v.Crosshair.X, v.Crosshair.Y
		}
		v.Selected = sel
	}

	if st.ShowGrid {
		v.Grid = Grid()
	}
	return v
}

// Grid returns the editor grid: a line every 10 units, heavier every 50.
func Grid() []GridLine {
	var out []GridLine
	for i := 0; i*10 <= int(stations.CanvasWidth); i++ {
		x := float64(i * 10)
		out = append(out, GridLine{X1: x, Y1: 0, X2: x, Y2: stations.CanvasHeight, Width: gridWidth(i)})
	}
	for i := 0; i*10 <= int(stations.CanvasHeight); i++ {
		y := float64(i * 10)
		out = append(out, GridLine{X1: 0, Y1: y, X2: stations.CanvasWidth, Y2: y, Width: gridWidth(i)})
	}
	return out
}

func gridWidth(i int) float64 {
	if i%5 == 0 {
		return 0.5
	}
	return 0.25
}
