package server

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"metromap/pkg/mbta"
	"metromap/pkg/metrics"
	"metromap/pkg/stations"
	"metromap/pkg/surface"
)

// session returns the caller's viewer session, starting one and setting
// the cookie when needed.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *surface.Session {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	sess, created := s.deps.Store.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

func (s *Server) frame(w http.ResponseWriter, r *http.Request) surface.Frame {
	return s.session(w, r).Frame(s.deps.Vehicles.Snapshot())
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	f := s.frame(w, r)
	var buf bytes.Buffer
	writeHTML(w, func() error {
		if err := s.deps.Renderer.Page(&buf, f); err != nil {
			return err
		}
		_, err := buf.WriteTo(w)
		return err
	})
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	f := s.frame(w, r)
	var buf bytes.Buffer
	writeHTML(w, func() error {
		if err := s.deps.Renderer.Frame(&buf, f); err != nil {
			return err
		}
		_, err := buf.WriteTo(w)
		return err
	})
}

// handleVehicles handles GET /api/vehicles with the caller's current frame.
func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, s.frame(w, r))
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	s.session(w, r).Hover(r.URL.Query().Get("vehicle"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnhover(w http.ResponseWriter, r *http.Request) {
	s.session(w, r).Hover("")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetPanel(w http.ResponseWriter, r *http.Request) {
	p, ok := s.session(w, r).Panel()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleOpenPanel handles POST /api/panel?station=<id>.
func (s *Server) handleOpenPanel(w http.ResponseWriter, r *http.Request) {
	station := r.URL.Query().Get("station")
	if station == "" {
		writeError(w, http.StatusBadRequest, "Station ID is required")
		return
	}
	p, err := s.session(w, r).OpenPanel(station)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleClick handles POST /api/panel/click?x=&y= in canvas units.
func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	xy, ok := floatParams(r, "x", "y")
	if !ok {
		writeError(w, http.StatusBadRequest, "x and y are required")
		return
	}
	p, ok := s.session(w, r).Click(xy[0], xy[1])
	if !ok {
		writeError(w, http.StatusNotFound, "No station at that position")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleClosePanel(w http.ResponseWriter, r *http.Request) {
	s.session(w, r).ClosePanel()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, http.StatusOK, stations.All())
}

// HitResponse is the station found by a hit test.
type HitResponse struct {
	StationID string `json:"station_id"`
	Name      string `json:"name"`
}

func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	xy, ok := floatParams(r, "x", "y")
	if !ok {
		writeError(w, http.StatusBadRequest, "x and y are required")
		return
	}
	id, ok := stations.HitTest(xy[0], xy[1], stations.HitTolerance)
	if !ok {
		writeError(w, http.StatusNotFound, "No station at that position")
		return
	}
	writeJSON(w, http.StatusOK, HitResponse{StationID: id, Name: stations.Name(id)})
}

// handleUpstreamVehicles passes the raw vehicles document through.
func (s *Server) handleUpstreamVehicles(w http.ResponseWriter, r *http.Request) {
	if !s.deps.Upstream.HasAPIKey() {
		writeError(w, http.StatusInternalServerError, "API key not configured")
		return
	}
	doc, err := s.deps.Upstream.FetchVehicles(r.Context())
	if err != nil {
		if errors.Is(err, mbta.ErrMissingAPIKey) {
			writeError(w, http.StatusInternalServerError, "API key not configured")
			return
		}
		slog.Warn("Upstream vehicles request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch vehicle data")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleUpstreamPredictions passes the raw predictions document for one
// stop through.
func (s *Server) handleUpstreamPredictions(w http.ResponseWriter, r *http.Request) {
	stop := r.URL.Query().Get("stop")
	if stop == "" {
		writeError(w, http.StatusBadRequest, "Stop ID is required")
		return
	}
	if !s.deps.Upstream.HasAPIKey() {
		writeError(w, http.StatusInternalServerError, "API key not configured")
		return
	}
	doc, err := s.deps.Upstream.FetchPredictions(r.Context(), stop)
	if err != nil {
		if errors.Is(err, mbta.ErrMissingAPIKey) {
			writeError(w, http.StatusInternalServerError, "API key not configured")
			return
		}
		slog.Warn("Upstream predictions request failed", "stop", stop, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch predictions")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status           string     `json:"status"`
	Timestamp        time.Time  `json:"timestamp"`
	Vehicles         int        `json:"vehicles"`
	LastVehiclePoll  *time.Time `json:"last_vehicle_poll,omitempty"`
	Sessions         int        `json:"sessions"`
	APIKeyConfigured bool       `json:"api_key_configured"`
	Error            string     `json:"error,omitempty"`
}

// handleHealth reports 503 while the latest vehicle poll is failing.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.deps.Vehicles.Snapshot()
	resp := HealthResponse{
		Status:           "ok",
		Timestamp:        time.Now().UTC(),
		Vehicles:         len(snap.Vehicles),
		Sessions:         s.deps.Store.Len(),
		APIKeyConfigured: s.deps.Upstream.HasAPIKey(),
		Error:            snap.Error,
	}
	if last := metrics.LastVehiclePoll(); !last.IsZero() {
		resp.LastVehiclePoll = &last
	}

	status := http.StatusOK
	if snap.Error != "" {
		resp.Status = "error"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
