package editor

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"metromap/pkg/types"
)

type fakeFetcher struct {
	doc   *types.Document
	err   error
	calls []string
}

func (f *fakeFetcher) FetchStops(ctx context.Context, route string) (*types.Document, error) {
	f.calls = append(f.calls, route)
	return f.doc, f.err
}

func stop(id, name string) types.Resource {
	return types.Resource{
		ID:         id,
		Type:       types.TypeStop,
		Attributes: map[string]interface{}{"name": name},
	}
}

func blueStops() *types.Document {
	return &types.Document{Data: []types.Resource{
		stop("place-b", "Bowdoin"),
		stop("70038", "Bowdoin - Platform"),
		stop("place-a", "Aquarium"),
		stop("place-c", "Maverick"),
	}}
}

var testRegistry = map[string]types.Point{
	"place-a": {X: 10, Y: 20},
	"place-b": {X: 30, Y: 40},
	"place-z": {X: 1, Y: 1},
}

func newTestWorkspace(t *testing.T) (*Workspace, *fakeFetcher) {
	t.Helper()
	f := &fakeFetcher{doc: blueStops()}
	w := NewWorkspace(f, testRegistry)
	if err := w.SelectLine(context.Background(), "Blue"); err != nil {
		t.Fatalf("SelectLine() error = %v", err)
	}
	return w, f
}

func TestSelectLine_SeedsFromRegistry(t *testing.T) {
	w, f := newTestWorkspace(t)

	if len(f.calls) != 1 || f.calls[0] != "Blue" {
		t.Errorf("fetch calls = %v, want [Blue]", f.calls)
	}

	st := w.State()
	var ids []string
	for _, s := range st.Stops {
		ids = append(ids, s.ID)
	}
	if got := strings.Join(ids, ","); got != "place-b,place-a,place-c" {
		t.Errorf("stops = %s, want place-b,place-a,place-c", got)
	}

	entries := w.Entries()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].ID != "place-b" || entries[0].Line != "Blue" || entries[0].Name != "Bowdoin" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].X != 10 || entries[1].Y != 20 {
		t.Errorf("entries[1] = %+v, want registry position (10, 20)", entries[1])
	}
}

func TestSelectLine_ExistingEntriesWin(t *testing.T) {
	w, _ := newTestWorkspace(t)

	if err := w.Arm("place-a"); err != nil {
		t.Fatalf("Arm() error = %v", err)
	}
	if _, err := w.Set(5, 6); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := w.SelectLine(context.Background(), "Blue"); err != nil {
		t.Fatalf("SelectLine() error = %v", err)
	}

	e, ok := w.entry("place-a")
	if !ok || e.X != 5 || e.Y != 6 {
		t.Errorf("Entry(place-a) = %+v, %v, want (5, 6)", e, ok)
	}
	if n := len(w.Entries()); n != 2 {
		t.Errorf("entries = %d, want 2", n)
	}
}

func TestSelectLine_UnknownLine(t *testing.T) {
	w := NewWorkspace(&fakeFetcher{doc: blueStops()}, testRegistry)
	err := w.SelectLine(context.Background(), "Silver")
	if !errors.Is(err, ErrUnknownLine) {
		t.Errorf("SelectLine(Silver) error = %v, want ErrUnknownLine", err)
	}
}

func TestSelectLine_FetchFailure(t *testing.T) {
	w, f := newTestWorkspace(t)
	f.err = errors.New("connection refused")

	err := w.SelectLine(context.Background(), "Red")
	if err == nil {
		t.Fatal("SelectLine() expected error")
	}

	st := w.State()
	if st.Notice != FetchErrorMessage {
		t.Errorf("Notice = %q, want %q", st.Notice, FetchErrorMessage)
	}
	if len(st.Stops) != 0 {
		t.Errorf("stops = %d, want 0", len(st.Stops))
	}
	if len(st.Entries) != 2 {
		t.Errorf("entries = %d, want working set kept", len(st.Entries))
	}
	if len(f.calls) != 2 {
		t.Errorf("fetch calls = %d, want no retry", len(f.calls))
	}

	w.DismissNotice()
	if n := w.State().Notice; n != "" {
		t.Errorf("Notice after dismiss = %q", n)
	}
}

func TestToCanvas(t *testing.T) {
	tests := []struct {
		name   string
		px, py float64
		w, h   float64
		wantX  float64
		wantY  float64
	}{
		{"center of unit canvas", 0.5, 0.5, 1, 1, 413, 385},
		{"double size render", 100, 50, 1652, 1540, 50, 25},
		{"rounds to tenth", 1, 1, 3, 3, 275.3, 256.7},
		{"origin", 0, 0, 826, 770, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ToCanvas(tt.px, tt.py, tt.w, tt.h)
			if err != nil {
				t.Fatalf("ToCanvas() error = %v", err)
			}
			if p.X != tt.wantX || p.Y != tt.wantY {
				t.Errorf("ToCanvas() = (%v, %v), want (%v, %v)", p.X, p.Y, tt.wantX, tt.wantY)
			}
		})
	}

	if _, err := ToCanvas(1, 1, 0, 10); !errors.Is(err, ErrBadCanvas) {
		t.Errorf("ToCanvas() zero width error = %v, want ErrBadCanvas", err)
	}
}

func TestClick(t *testing.T) {
	w, _ := newTestWorkspace(t)

	if _, err := w.Click(0.5, 0.5, 1, 1); !errors.Is(err, ErrNotArmed) {
		t.Errorf("Click() unarmed error = %v, want ErrNotArmed", err)
	}

	if err := w.Arm("place-c"); err != nil {
		t.Fatalf("Arm() error = %v", err)
	}
	e, err := w.Click(0.5, 0.5, 1, 1)
	if err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if e.X != 413 || e.Y != 385 || e.Name != "Maverick" || e.Line != "Blue" {
		t.Errorf("Click() = %+v", e)
	}

	// Same click with a zoomed view lands on the same coordinates.
	w.ZoomBy(4)
	if _, err := w.Pan(120, -40); err != nil {
		t.Fatalf("Pan() error = %v", err)
	}
	e, _ = w.Click(1000, 1000, 2000, 2000)
	if e.X != 413 || e.Y != 385 {
		t.Errorf("Click() under zoom = (%v, %v), want (413, 385)", e.X, e.Y)
	}
}

func TestArm_UnknownStop(t *testing.T) {
	w, _ := newTestWorkspace(t)
	if err := w.Arm("place-z"); !errors.Is(err, ErrUnknownStop) {
		t.Errorf("Arm(place-z) error = %v, want ErrUnknownStop", err)
	}
	if a := w.Armed(); a != "" {
		t.Errorf("Armed() = %q, want empty", a)
	}
}

func TestDrag(t *testing.T) {
	w, _ := newTestWorkspace(t)

	if _, ok, _ := w.DragTo(1, 1, 2, 2); ok {
		t.Error("DragTo() without BeginDrag should be a no-op")
	}
	if err := w.BeginDrag("place-c"); !errors.Is(err, ErrNotMapped) {
		t.Errorf("BeginDrag(unmapped) error = %v, want ErrNotMapped", err)
	}

	if err := w.BeginDrag("place-b"); err != nil {
		t.Fatalf("BeginDrag() error = %v", err)
	}
	e, ok, err := w.DragTo(1, 1, 2, 2)
	if err != nil || !ok {
		t.Fatalf("DragTo() = %v, %v", ok, err)
	}
	if e.X != 413 || e.Y != 385 {
		t.Errorf("DragTo() = (%v, %v), want (413, 385)", e.X, e.Y)
	}
	if first := w.Entries()[0]; first.ID != "place-b" {
		t.Errorf("dragged entry moved to %q, want order kept", first.ID)
	}

	w.EndDrag()
	if _, ok, _ := w.DragTo(0, 0, 2, 2); ok {
		t.Error("DragTo() after EndDrag should be a no-op")
	}
}

func TestNudgeAndSet(t *testing.T) {
	w, _ := newTestWorkspace(t)

	if err := w.Arm("place-b"); err != nil {
		t.Fatal(err)
	}
	e, err := w.Nudge(0.1, -1)
	if err != nil {
		t.Fatalf("Nudge() error = %v", err)
	}
	if e.X != 30.1 || e.Y != 39 {
		t.Errorf("Nudge() = (%v, %v), want (30.1, 39)", e.X, e.Y)
	}
	entries := w.Entries()
	if entries[len(entries)-1].ID != "place-b" {
		t.Error("nudged entry should move to the end of the working set")
	}

	e, err = w.Set(100.26, 200.04)
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if e.X != 100.3 || e.Y != 200 {
		t.Errorf("Set() = (%v, %v), want (100.3, 200)", e.X, e.Y)
	}

	if err := w.Arm("place-c"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Nudge(1, 1); !errors.Is(err, ErrNotMapped) {
		t.Errorf("Nudge(unmapped) error = %v, want ErrNotMapped", err)
	}
}

func TestNonFiniteInput(t *testing.T) {
	w, _ := newTestWorkspace(t)
	if err := w.Arm("place-b"); err != nil {
		t.Fatal(err)
	}
	before := w.Export()
	nan, inf := math.NaN(), math.Inf(1)

	if _, err := w.Click(inf, 1, 1, 1); !errors.Is(err, ErrNotFinite) {
		t.Errorf("Click(Inf) error = %v, want ErrNotFinite", err)
	}
	if _, err := w.Nudge(nan, 0); !errors.Is(err, ErrNotFinite) {
		t.Errorf("Nudge(NaN) error = %v, want ErrNotFinite", err)
	}
	if _, err := w.Set(1, -inf); !errors.Is(err, ErrNotFinite) {
		t.Errorf("Set(-Inf) error = %v, want ErrNotFinite", err)
	}
	if err := w.BeginDrag("place-b"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := w.DragTo(1, 1, nan, 1); !errors.Is(err, ErrNotFinite) {
		t.Errorf("DragTo(NaN) error = %v, want ErrNotFinite", err)
	}
	w.EndDrag()
	if _, err := w.Pan(nan, 0); !errors.Is(err, ErrNotFinite) {
		t.Errorf("Pan(NaN) error = %v, want ErrNotFinite", err)
	}

	if got := w.Export(); got != before {
		t.Errorf("Export() changed after rejected input:\n%s", got)
	}
	if v := w.State().View; v != DefaultView() {
		t.Errorf("View = %+v, want default", v)
	}
}

func TestDelete(t *testing.T) {
	w, _ := newTestWorkspace(t)
	if !w.Delete("place-a") {
		t.Error("Delete(place-a) = false, want true")
	}
	if w.Delete("place-a") {
		t.Error("second Delete(place-a) = true, want false")
	}
	if _, ok := w.entry("place-a"); ok {
		t.Error("place-a still mapped after delete")
	}
}

func TestView(t *testing.T) {
	w, _ := newTestWorkspace(t)
	before := w.Entries()

	if v := w.ZoomBy(1); v.Zoom != 1.25 {
		t.Errorf("ZoomBy(1) = %v, want 1.25", v.Zoom)
	}
	if v := w.ZoomBy(20); v.Zoom != MaxZoom {
		t.Errorf("ZoomBy(20) = %v, want %v", v.Zoom, MaxZoom)
	}
	if v := w.ZoomBy(-20); v.Zoom != MinZoom {
		t.Errorf("ZoomBy(-20) = %v, want %v", v.Zoom, MinZoom)
	}
	v, err := w.Pan(15, -5)
	if err != nil {
		t.Fatalf("Pan() error = %v", err)
	}
	if v.PanX != 15 || v.PanY != -5 {
		t.Errorf("Pan() = %+v", v)
	}
	if got := v.Transform(); got != "translate(15px, -5px) scale(0.5)" {
		t.Errorf("Transform() = %q", got)
	}

	v = w.ResetView()
	if v != DefaultView() || v.Percent() != 100 {
		t.Errorf("ResetView() = %+v", v)
	}

	after := w.Entries()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("view change altered entry %d: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestProgressAndFilter(t *testing.T) {
	w, _ := newTestWorkspace(t)

	mapped, pct := w.Progress()
	if mapped != 2 || pct != 67 {
		t.Errorf("Progress() = %d, %d%%, want 2, 67%%", mapped, pct)
	}

	w.SetFilter("AQUA", false)
	st := w.State()
	if len(st.Stops) != 1 || st.Stops[0].ID != "place-a" || !st.Stops[0].Mapped {
		t.Errorf("search stops = %+v", st.Stops)
	}

	w.SetFilter("", true)
	st = w.State()
	if len(st.Stops) != 2 {
		t.Errorf("mapped-only stops = %d, want 2", len(st.Stops))
	}

	w.SetFilter("place-c", false)
	if st := w.State(); len(st.Stops) != 1 || st.Stops[0].Mapped {
		t.Errorf("id search stops = %+v", st.Stops)
	}

	if !w.ToggleGrid() || w.ToggleGrid() {
		t.Error("ToggleGrid() should alternate")
	}
}

func TestExportEntries(t *testing.T) {
	entries := []types.MappedStation{
		{ID: "place-b", Name: "Bowdoin", X: 30, Y: 40, Line: "Blue"},
		{ID: "place-x", Name: "Alewife", X: 1.5, Y: 2, Line: "Red"},
		{ID: "place-a", Name: "Aquarium", X: 10, Y: 20.25, Line: "Blue"},
		{ID: "place-o", Name: "Other stop", X: 3, Y: 4},
	}
	want := "\t// Blue Line\n" +
		"\t\"place-b\": {X: 30, Y: 40}, // Bowdoin\n" +
		"\t\"place-a\": {X: 10, Y: 20.25}, // Aquarium\n" +
		"\n" +
		"\t// Other Line\n" +
		"\t\"place-o\": {X: 3, Y: 4}, // Other stop\n" +
		"\n" +
		"\t// Red Line\n" +
		"\t\"place-x\": {X: 1.5, Y: 2}, // Alewife"

	if got := ExportEntries(entries); got != want {
		t.Errorf("ExportEntries() =\n%s\nwant\n%s", got, want)
	}
	if got := ExportEntries(nil); got != "" {
		t.Errorf("ExportEntries(nil) = %q, want empty", got)
	}
}

func TestExport_UsesWorkingSet(t *testing.T) {
	w, _ := newTestWorkspace(t)
	out := w.Export()
	if !strings.HasPrefix(out, "\t// Blue Line\n\t\"place-b\": {X: 30, Y: 40}, // Bowdoin") {
		t.Errorf("Export() = %q", out)
	}
	if st := w.State(); st.Export != out {
		t.Error("State().Export differs from Export()")
	}
}
