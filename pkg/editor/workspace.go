// Package editor is the coordinate authoring tool: it maps upstream stops
// onto the canvas and exports registry source.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"metromap/pkg/lines"
	motel "metromap/pkg/otel"
	"metromap/pkg/parser"
	"metromap/pkg/stations"
	"metromap/pkg/types"
)

// FetchErrorMessage is the blocking notice shown when stops cannot be loaded.
const FetchErrorMessage = "Failed to fetch stops from MBTA API"

var (
	ErrUnknownLine = errors.New("unknown line")
	ErrNotArmed    = errors.New("no stop selected")
	ErrUnknownStop = errors.New("stop is not on the selected line")
	ErrNotMapped   = errors.New("stop has no coordinates")
	ErrBadCanvas   = errors.New("canvas size must be positive")
	ErrNotFinite   = errors.New("coordinates must be finite")
)

// StopFetcher lists the stops of a route.
type StopFetcher interface {
	FetchStops(ctx context.Context, routeID string) (*types.Document, error)
}

// Workspace is one authoring session. The working set lives only in memory
// and is shared by every line the author visits.
type Workspace struct {
	mu       sync.Mutex
	fetcher  StopFetcher
	registry map[string]types.Point
	tracer   trace.Tracer

	line    lines.EditorLine
	stops   []types.StopSummary
	entries []types.MappedStation
	armed   string
	drag    string
	notice  string

	view       View
	showGrid   bool
	search     string
	mappedOnly bool
}

// NewWorkspace creates an empty workspace seeded from the given registry.
// A nil registry uses the compiled-in station table.
func NewWorkspace(fetcher StopFetcher, registry map[string]types.Point) *Workspace {
	if registry == nil {
		registry = stations.Coordinates
	}
	return &Workspace{
		fetcher:  fetcher,
		registry: registry,
		tracer:   otel.Tracer("editor"),
		line:     lines.EditorLines[0],
		view:     DefaultView(),
	}
}

// SelectLine switches to a line and loads its stops. Registry coordinates
// for those stops join the working set unless the set already has them.
// A failed fetch clears the stop list and raises the notice; it is not
// retried.
func (w *Workspace) SelectLine(ctx context.Context, lineID string) error {
	line, ok := lines.FindEditorLine(lineID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLine, lineID)
	}

	ctx, span := w.tracer.Start(ctx, "editor.select_line",
		trace.WithAttributes(attribute.String("line", lineID)),
	)
	defer span.End()

	doc, err := w.fetcher.FetchStops(ctx, lineID)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.line = line
	w.armed = ""
	w.drag = ""
	if err != nil {
		motel.RecordError(span, err, motel.ErrorTypeNetwork, true)
		slog.Warn("Failed to fetch stops", "line", lineID, "error", err)
		w.stops = nil
		w.notice = FetchErrorMessage
		return fmt.Errorf("fetch stops for %s: %w", lineID, err)
	}

	w.notice = ""
	w.stops = parser.ParseStops(doc)
	for _, s := range w.stops {
		p, ok := w.registry[s.ID]
		if !ok || w.indexLocked(s.ID) >= 0 {
			continue
		}
		w.entries = append(w.entries, types.MappedStation{
			ID: s.ID, Name: s.Name, X: p.X, Y: p.Y, Line: line.ID,
		})
	}
	span.SetAttributes(attribute.Int("stops", len(w.stops)))
	motel.SetSpanOk(span)
	return nil
}

// DismissNotice clears the fetch failure notice.
func (w *Workspace) DismissNotice() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notice = ""
}

// Arm selects the stop the next canvas click will place.
func (w *Workspace) Arm(stopID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.stopLocked(stopID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStop, stopID)
	}
	w.armed = stopID
	return nil
}

// Disarm clears the armed stop.
func (w *Workspace) Disarm() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.armed = ""
}

// Armed returns the armed stop id.
func (w *Workspace) Armed() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.armed
}

// Click places the armed stop at pixel (px, py) of a canvas rendered at
// width x height. The view transform does not matter: the rendered size
// already includes it.
func (w *Workspace) Click(px, py, width, height float64) (types.MappedStation, error) {
	p, err := ToCanvas(px, py, width, height)
	if err != nil {
		return types.MappedStation{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.armed == "" {
		return types.MappedStation{}, ErrNotArmed
	}
	return w.placeLocked(w.armed, p), nil
}

// BeginDrag starts moving an existing entry.
func (w *Workspace) BeginDrag(stopID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.indexLocked(stopID) < 0 {
		return fmt.Errorf("%w: %s", ErrNotMapped, stopID)
	}
	w.drag = stopID
	return nil
}

// DragTo moves the dragged entry in place. It is a no-op when nothing is
// being dragged.
func (w *Workspace) DragTo(px, py, width, height float64) (types.MappedStation, bool, error) {
	p, err := ToCanvas(px, py, width, height)
	if err != nil {
		return types.MappedStation{}, false, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.indexLocked(w.drag)
	if w.drag == "" || i < 0 {
		return types.MappedStation{}, false, nil
	}
	w.entries[i].X, w.entries[i].Y = p.X, p.Y
	return w.entries[i], true, nil
}

// EndDrag stops dragging.
func (w *Workspace) EndDrag() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.drag = ""
}

// Nudge shifts the armed stop's entry by (dx, dy).
func (w *Workspace) Nudge(dx, dy float64) (types.MappedStation, error) {
	if !finite(dx, dy) {
		return types.MappedStation{}, ErrNotFinite
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.armed == "" {
		return types.MappedStation{}, ErrNotArmed
	}
	i := w.indexLocked(w.armed)
	if i < 0 {
		return types.MappedStation{}, fmt.Errorf("%w: %s", ErrNotMapped, w.armed)
	}
	e := w.entries[i]
	return w.placeLocked(w.armed, types.Point{X: Round1(e.X + dx), Y: Round1(e.Y + dy)}), nil
}

// Set writes exact coordinates for the armed stop.
func (w *Workspace) Set(x, y float64) (types.MappedStation, error) {
	if !finite(x, y) {
		return types.MappedStation{}, ErrNotFinite
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.armed == "" {
		return types.MappedStation{}, ErrNotArmed
	}
	return w.placeLocked(w.armed, types.Point{X: Round1(x), Y: Round1(y)}), nil
}

// Delete removes a stop from the working set.
func (w *Workspace) Delete(stopID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.indexLocked(stopID)
	if i < 0 {
		return false
	}
	w.entries = append(w.entries[:i], w.entries[i+1:]...)
	if w.drag == stopID {
		w.drag = ""
	}
	return true
}

// Entries returns a copy of the working set in mapping order.
func (w *Workspace) Entries() []types.MappedStation {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]types.MappedStation, len(w.entries))
	copy(out, w.entries)
	return out
}

// entry returns one working-set entry.
func (w *Workspace) entry(stopID string) (types.MappedStation, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i := w.indexLocked(stopID); i >= 0 {
		return w.entries[i], true
	}
	return types.MappedStation{}, false
}

// placeLocked writes p for a stop of the current line. The entry moves to
// the end of the working set so exports list edits in the order made.
func (w *Workspace) placeLocked(stopID string, p types.Point) types.MappedStation {
	name := stations.Name(stopID)
	if s, ok := w.stopLocked(stopID); ok {
		name = s.Name
	}
	if i := w.indexLocked(stopID); i >= 0 {
		w.entries = append(w.entries[:i], w.entries[i+1:]...)
	}
	e := types.MappedStation{ID: stopID, Name: name, X: p.X, Y: p.Y, Line: w.line.ID}
	w.entries = append(w.entries, e)
	return e
}

func (w *Workspace) indexLocked(stopID string) int {
	for i, e := range w.entries {
		if e.ID == stopID {
			return i
		}
	}
	return -1
}

func (w *Workspace) stopLocked(stopID string) (types.StopSummary, bool) {
	for _, s := range w.stops {
		if s.ID == stopID {
			return s, true
		}
	}
	return types.StopSummary{}, false
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Round1 rounds to one decimal place, halves away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ToCanvas converts a pixel in a rendered canvas of width x height into
// logical canvas units rounded to 0.1.
func ToCanvas(px, py, width, height float64) (types.Point, error) {
	if !finite(px, py, width, height) {
		return types.Point{}, ErrNotFinite
	}
	if width <= 0 || height <= 0 {
		return types.Point{}, ErrBadCanvas
	}
	return types.Point{
		X: Round1(px / width * stations.CanvasWidth),
		Y: Round1(py / height * stations.CanvasHeight),
	}, nil
}

// Export renders the working set as registry source: entries grouped by
// line with lines sorted, each group in mapping order.
func (w *Workspace) Export() string {
	w.mu.Lock()
	entries := make([]types.MappedStation, len(w.entries))
	copy(entries, w.entries)
	w.mu.Unlock()

	return ExportEntries(entries)
}

// ExportEntries formats entries the way Export does.
func ExportEntries(entries []types.MappedStation) string {
	byLine := make(map[string][]types.MappedStation)
	for _, e := range entries {
		line := e.Line
		if line == "" {
			line = "Other"
		}
		byLine[line] = append(byLine[line], e)
	}
	names := make([]string, 0, len(byLine))
	for l := range byLine {
		names = append(names, l)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, l := range names {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "\t// %s Line\n", l)
		for _, e := range byLine[l] {
			fmt.Fprintf(&b, "\t%q: {X: %s, Y: %s}, // %s\n", e.ID, formatCoord(e.X), formatCoord(e.Y), e.Name)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
