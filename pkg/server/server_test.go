package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"metromap/pkg/editor"
	"metromap/pkg/metrics"
	"metromap/pkg/poller"
	"metromap/pkg/render"
	"metromap/pkg/surface"
	"metromap/pkg/types"
)

type fakeVehicles struct {
	mu   sync.Mutex
	snap poller.Snapshot
}

func (f *fakeVehicles) Snapshot() poller.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

type fakeUpstream struct {
	hasKey   bool
	err      error
	stopsErr error
	stops    []string
	mu       sync.Mutex
}

func (f *fakeUpstream) HasAPIKey() bool { return f.hasKey }

func (f *fakeUpstream) FetchVehicles(ctx context.Context) (*types.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &types.Document{Data: []types.Resource{{ID: "R-1", Type: types.TypeVehicle}}}, nil
}

func (f *fakeUpstream) FetchPredictions(ctx context.Context, stop string) (*types.Document, error) {
	f.mu.Lock()
	f.stops = append(f.stops, stop)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &types.Document{}, nil
}

func (f *fakeUpstream) FetchStops(ctx context.Context, route string) (*types.Document, error) {
	if f.stopsErr != nil {
		return nil, f.stopsErr
	}
	return &types.Document{Data: []types.Resource{
		{ID: "place-bomnl", Type: types.TypeStop, Attributes: map[string]interface{}{"name": "Bowdoin"}},
		{ID: "place-gover", Type: types.TypeStop, Attributes: map[string]interface{}{"name": "Government Center"}},
	}}, nil
}

type testEnv struct {
	server   *Server
	handler  http.Handler
	upstream *fakeUpstream
	vehicles *fakeVehicles
	store    *surface.Store
}

func newTestEnv(t *testing.T, config Config) *testEnv {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	up := &fakeUpstream{hasKey: true}
	veh := &fakeVehicles{snap: poller.Snapshot{
		Vehicles: []types.VehicleRecord{
			{ID: "R-1", StationID: "place-pktrm", X: 503, Y: 262.3, Line: "Red", Color: "#DA291C", Label: "1877", CurrentStatus: "STOPPED_AT"},
		},
		UpdatedAt: time.Now(),
	}}
	store := surface.NewStore(ctx, up, surface.StoreConfig{TTL: time.Minute})
	renderer, err := render.New(render.Options{Location: time.UTC}, 0)
	if err != nil {
		t.Fatalf("render.New() error = %v", err)
	}

	s, err := New(config, Deps{
		Store:    store,
		Vehicles: veh,
		Upstream: up,
		Renderer: renderer,
		Editor:   editor.NewWorkspace(up, nil),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return &testEnv{server: s, handler: s.Handler(), upstream: up, vehicles: veh, store: store}
}

func (e *testEnv) do(t *testing.T, method, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatal("response did not set a session cookie")
	return nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestNew_Validation(t *testing.T) {
	renderer, err := render.New(render.Options{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	store := surface.NewStore(context.Background(), &fakeUpstream{}, surface.StoreConfig{})
	full := Deps{Store: store, Vehicles: &fakeVehicles{}, Upstream: &fakeUpstream{}, Renderer: renderer}

	tests := []struct {
		name   string
		config Config
		deps   func(d Deps) Deps
	}{
		{"missing store", Config{}, func(d Deps) Deps { d.Store = nil; return d }},
		{"missing vehicles", Config{}, func(d Deps) Deps { d.Vehicles = nil; return d }},
		{"missing upstream", Config{}, func(d Deps) Deps { d.Upstream = nil; return d }},
		{"missing renderer", Config{}, func(d Deps) Deps { d.Renderer = nil; return d }},
		{"editable without editor", Config{MapEditable: true}, func(d Deps) Deps { return d }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.config, tt.deps(full)); err == nil {
				t.Error("New() expected error")
			}
		})
	}

	s, err := New(Config{}, full)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.config.Addr != ":8080" {
		t.Errorf("default Addr = %q, want :8080", s.config.Addr)
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, Config{})
	rec := env.do(t, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("GET /healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, Config{})

	rec := env.do(t, http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", rec.Code)
	}
	var resp HealthResponse
	decode(t, rec, &resp)
	if resp.Status != "ok" || resp.Vehicles != 1 || !resp.APIKeyConfigured {
		t.Errorf("health = %+v", resp)
	}

	env.vehicles.mu.Lock()
	env.vehicles.snap.Error = poller.VehicleErrorMessage
	env.vehicles.mu.Unlock()

	rec = env.do(t, http.MethodGet, "/health")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /health while failing = %d, want 503", rec.Code)
	}
}

func TestVehicles_SessionCookie(t *testing.T) {
	env := newTestEnv(t, Config{})

	rec := env.do(t, http.MethodGet, "/api/vehicles")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/vehicles = %d", rec.Code)
	}
	cookie := sessionCookie(t, rec)

	var frame surface.Frame
	decode(t, rec, &frame)
	if len(frame.Vehicles) != 1 || frame.Vehicles[0].ID != "R-1" {
		t.Errorf("frame vehicles = %+v", frame.Vehicles)
	}

	rec = env.do(t, http.MethodPost, "/api/hover?vehicle=R-1", cookie)
	if rec.Code != http.StatusNoContent {
		t.Errorf("POST /api/hover = %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("known session should not get a new cookie")
	}

	rec = env.do(t, http.MethodGet, "/api/vehicles", cookie)
	decode(t, rec, &frame)
	if frame.Hovered != "R-1" {
		t.Errorf("Hovered = %q, want R-1", frame.Hovered)
	}

	env.do(t, http.MethodDelete, "/api/hover", cookie)
	rec = env.do(t, http.MethodGet, "/api/vehicles", cookie)
	decode(t, rec, &frame)
	if frame.Hovered != "" {
		t.Errorf("Hovered after DELETE = %q", frame.Hovered)
	}
}

func TestPanel(t *testing.T) {
	env := newTestEnv(t, Config{})
	cookie := sessionCookie(t, env.do(t, http.MethodGet, "/api/vehicles"))

	rec := env.do(t, http.MethodGet, "/api/panel", cookie)
	if rec.Code != http.StatusNoContent {
		t.Errorf("GET /api/panel with none open = %d, want 204", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/panel?station=place-pktrm", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/panel = %d %s", rec.Code, rec.Body.String())
	}
	var p surface.Panel
	decode(t, rec, &p)
	if p.StationName != "Park Street" {
		t.Errorf("StationName = %q", p.StationName)
	}

	rec = env.do(t, http.MethodGet, "/api/panel", cookie)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /api/panel = %d", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/api/panel", cookie)
	if rec.Code != http.StatusNoContent {
		t.Errorf("DELETE /api/panel = %d", rec.Code)
	}
	if rec = env.do(t, http.MethodGet, "/api/panel", cookie); rec.Code != http.StatusNoContent {
		t.Errorf("GET /api/panel after close = %d, want 204", rec.Code)
	}

	if rec = env.do(t, http.MethodPost, "/api/panel?station=place-nowhere", cookie); rec.Code != http.StatusBadRequest {
		t.Errorf("POST unknown station = %d, want 400", rec.Code)
	}
	if rec = env.do(t, http.MethodPost, "/api/panel", cookie); rec.Code != http.StatusBadRequest {
		t.Errorf("POST without station = %d, want 400", rec.Code)
	}
}

func TestPanelClick(t *testing.T) {
	env := newTestEnv(t, Config{})
	cookie := sessionCookie(t, env.do(t, http.MethodGet, "/api/vehicles"))

	rec := env.do(t, http.MethodPost, "/api/panel/click?x=505&y=260.3", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("click near Park Street = %d %s", rec.Code, rec.Body.String())
	}
	var p surface.Panel
	decode(t, rec, &p)
	if p.StationID != "place-pktrm" {
		t.Errorf("StationID = %q, want place-pktrm", p.StationID)
	}
	env.do(t, http.MethodDelete, "/api/panel", cookie)

	if rec = env.do(t, http.MethodPost, "/api/panel/click?x=-100&y=-100", cookie); rec.Code != http.StatusNotFound {
		t.Errorf("click on empty canvas = %d, want 404", rec.Code)
	}
	if rec = env.do(t, http.MethodPost, "/api/panel/click?x=abc", cookie); rec.Code != http.StatusBadRequest {
		t.Errorf("click without coordinates = %d, want 400", rec.Code)
	}
}

func TestStationsHit(t *testing.T) {
	env := newTestEnv(t, Config{})

	rec := env.do(t, http.MethodGet, "/api/stations/hit?x=503&y=262.3")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/stations/hit = %d", rec.Code)
	}
	var hit HitResponse
	decode(t, rec, &hit)
	if hit.StationID != "place-pktrm" || hit.Name != "Park Street" {
		t.Errorf("hit = %+v", hit)
	}

	if rec = env.do(t, http.MethodGet, "/api/stations/hit?x=-100&y=-100"); rec.Code != http.StatusNotFound {
		t.Errorf("miss = %d, want 404", rec.Code)
	}
	if rec = env.do(t, http.MethodGet, "/api/stations"); rec.Code != http.StatusOK {
		t.Errorf("GET /api/stations = %d", rec.Code)
	}
}

func TestUpstreamProxy(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		hasKey    bool
		err       error
		wantCode  int
		wantError string
	}{
		{"vehicles without key", "/api/upstream/vehicles", false, nil, 500, "API key not configured"},
		{"vehicles ok", "/api/upstream/vehicles", true, nil, 200, ""},
		{"vehicles upstream failure", "/api/upstream/vehicles", true, errors.New("boom"), 500, "Failed to fetch vehicle data"},
		{"predictions without stop", "/api/upstream/predictions", false, nil, 400, "Stop ID is required"},
		{"predictions without key", "/api/upstream/predictions?stop=place-pktrm", false, nil, 500, "API key not configured"},
		{"predictions ok", "/api/upstream/predictions?stop=place-pktrm", true, nil, 200, ""},
		{"predictions upstream failure", "/api/upstream/predictions?stop=place-pktrm", true, errors.New("boom"), 500, "Failed to fetch predictions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, Config{})
			env.upstream.hasKey = tt.hasKey
			env.upstream.err = tt.err

			rec := env.do(t, http.MethodGet, tt.target)
			if rec.Code != tt.wantCode {
				t.Fatalf("GET %s = %d, want %d", tt.target, rec.Code, tt.wantCode)
			}
			if tt.wantError == "" {
				return
			}
			var resp ErrorResponse
			decode(t, rec, &resp)
			if resp.Error != tt.wantError {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantError)
			}
		})
	}
}

func TestPages(t *testing.T) {
	env := newTestEnv(t, Config{})

	rec := env.do(t, http.MethodGet, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "trains active") {
		t.Error("page missing status bar")
	}

	cookie := sessionCookie(t, rec)
	rec = env.do(t, http.MethodGet, "/frame", cookie)
	if rec.Code != http.StatusOK || strings.Contains(rec.Body.String(), "<html") {
		t.Errorf("GET /frame = %d", rec.Code)
	}
}

func TestEditor_Disabled(t *testing.T) {
	env := newTestEnv(t, Config{})

	rec := env.do(t, http.MethodGet, "/map-editor")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Map Editor Disabled") {
		t.Errorf("GET /map-editor = %d", rec.Code)
	}
	if rec = env.do(t, http.MethodPost, "/api/editor/line?id=Blue"); rec.Code != http.StatusForbidden {
		t.Errorf("POST /api/editor/line while disabled = %d, want 403", rec.Code)
	}
	if rec = env.do(t, http.MethodGet, "/map-editor/fragment"); rec.Code != http.StatusForbidden {
		t.Errorf("GET /map-editor/fragment while disabled = %d, want 403", rec.Code)
	}
}

func TestEditor_Flow(t *testing.T) {
	env := newTestEnv(t, Config{MapEditable: true})

	rec := env.do(t, http.MethodPost, "/api/editor/line?id=Blue")
	if rec.Code != http.StatusOK {
		t.Fatalf("select line = %d %s", rec.Code, rec.Body.String())
	}
	var st editor.State
	decode(t, rec, &st)
	if st.Total != 2 || st.Mapped != 2 || st.Progress != 100 {
		t.Errorf("state after select = total %d mapped %d progress %d", st.Total, st.Mapped, st.Progress)
	}

	if rec = env.do(t, http.MethodPost, "/api/editor/arm?stop=place-gover"); rec.Code != http.StatusOK {
		t.Fatalf("arm = %d", rec.Code)
	}
	rec = env.do(t, http.MethodPost, "/api/editor/click?x=0.5&y=0.5&w=1&h=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("click = %d %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &st)
	last := st.Entries[len(st.Entries)-1]
	if last.ID != "place-gover" || last.X != 413 || last.Y != 385 {
		t.Errorf("placed entry = %+v", last)
	}

	rec = env.do(t, http.MethodGet, "/api/editor/export")
	if !strings.Contains(rec.Body.String(), `"place-gover": {X: 413, Y: 385}, // Government Center`) {
		t.Errorf("export = %q", rec.Body.String())
	}

	if rec = env.do(t, http.MethodPost, "/api/editor/zoom?steps=2"); rec.Code != http.StatusOK {
		t.Errorf("zoom = %d", rec.Code)
	}
	decode(t, rec, &st)
	if st.View.Zoom != 1.5 {
		t.Errorf("zoom = %v, want 1.5", st.View.Zoom)
	}

	if rec = env.do(t, http.MethodDelete, "/api/editor/entries/place-gover"); rec.Code != http.StatusOK {
		t.Errorf("delete = %d", rec.Code)
	}
	if rec = env.do(t, http.MethodDelete, "/api/editor/entries/place-gover"); rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rec.Code)
	}

	if rec = env.do(t, http.MethodPost, "/api/editor/line?id=Silver"); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown line = %d, want 400", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/map-editor")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Mattapan Trolley") {
		t.Errorf("GET /map-editor = %d", rec.Code)
	}
}

func TestEditor_RejectsNonFinite(t *testing.T) {
	env := newTestEnv(t, Config{MapEditable: true})
	env.do(t, http.MethodPost, "/api/editor/line?id=Blue")
	env.do(t, http.MethodPost, "/api/editor/arm?stop=place-gover")

	for _, target := range []string{
		"/api/editor/pan?dx=NaN&dy=0",
		"/api/editor/click?x=Inf&y=1&w=1&h=1",
		"/api/editor/nudge?dx=-Inf&dy=0",
		"/api/editor/set?x=1&y=NaN",
	} {
		if rec := env.do(t, http.MethodPost, target); rec.Code != http.StatusBadRequest {
			t.Errorf("POST %s = %d, want 400", target, rec.Code)
		}
	}

	rec := env.do(t, http.MethodGet, "/api/editor/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/editor/ = %d", rec.Code)
	}
	var st editor.State
	decode(t, rec, &st)
	if st.View != editor.DefaultView() {
		t.Errorf("View = %+v, want default", st.View)
	}
	if body := env.do(t, http.MethodGet, "/api/editor/export").Body.String(); strings.Contains(body, "Inf") || strings.Contains(body, "NaN") {
		t.Errorf("export = %q", body)
	}
}

func TestEditor_FetchFailureShowsNotice(t *testing.T) {
	env := newTestEnv(t, Config{MapEditable: true})
	env.upstream.stopsErr = errors.New("unreachable")

	rec := env.do(t, http.MethodPost, "/api/editor/line?id=Red")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("select line = %d, want 502", rec.Code)
	}
	var st editor.State
	decode(t, rec, &st)
	if st.Notice != editor.FetchErrorMessage {
		t.Errorf("Notice = %q", st.Notice)
	}

	rec = env.do(t, http.MethodGet, "/map-editor/fragment")
	if !strings.Contains(rec.Body.String(), editor.FetchErrorMessage) {
		t.Error("editor fragment missing blocking notice")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, Config{Collector: metrics.NewCollector(10*time.Second, 30*time.Second)})
	rec := env.do(t, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "metromap_") {
		t.Errorf("GET /metrics = %d", rec.Code)
	}
}
