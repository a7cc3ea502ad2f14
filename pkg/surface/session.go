package surface

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"metromap/pkg/metrics"
	motel "metromap/pkg/otel"
	"metromap/pkg/parser"
	"metromap/pkg/poller"
	"metromap/pkg/stations"
	"metromap/pkg/types"
)

// DefaultPredictionInterval is how often an open panel refreshes.
const DefaultPredictionInterval = 30 * time.Second

// PredictionSource fetches the raw predictions document for a station.
type PredictionSource interface {
	FetchPredictions(ctx context.Context, stopID string) (*types.Document, error)
}

type SessionConfig struct {
	Interval  time.Duration
	Parser    *parser.Parser
	Collector *metrics.Collector
	// Now is the clock used for minutes-away. Defaults to time.Now.
	Now func() time.Time
}

// Session is the map state of one viewer. All methods are safe for
// concurrent use.
type Session struct {
	ID string

	base   context.Context
	source PredictionSource
	config SessionConfig
	tracer trace.Tracer
	gen    poller.Generation

	mu      sync.Mutex
	hovered string
	panel   *Panel
	loop    *poller.Ticker
	closed  bool

	// pending tracks stopped loops whose last fetch may still be running.
	pending sync.WaitGroup
}

// NewSession creates a session whose prediction loops run under base.
func NewSession(base context.Context, id string, source PredictionSource, config SessionConfig) *Session {
	if config.Interval <= 0 {
		config.Interval = DefaultPredictionInterval
	}
	if config.Parser == nil {
		config.Parser = parser.NewParser()
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Session{
		ID:     id,
		base:   base,
		source: source,
		config: config,
		tracer: otel.Tracer("surface"),
	}
}

// Hover marks a vehicle as hovered. An empty id clears the hover.
func (s *Session) Hover(vehicleID string) {
	s.mu.Lock()
	s.hovered = vehicleID
	s.mu.Unlock()
}

// Click opens the panel of the station under (x, y) in canvas units. It
// reports false when no station is within the hit box.
func (s *Session) Click(x, y float64) (Panel, bool) {
	id, ok := stations.HitTest(x, y, stations.HitTolerance)
	if !ok {
		return Panel{}, false
	}
	p, err := s.OpenPanel(id)
	return p, err == nil
}

// OpenPanel shows the panel for a station and starts its prediction loop.
// A panel that is already open for another station is closed first;
// reopening the same station keeps the running loop.
func (s *Session) OpenPanel(stationID string) (Panel, error) {
	if _, ok := stations.Lookup(stationID); !ok {
		return Panel{}, fmt.Errorf("unknown station %q", stationID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Panel{}, errors.New("session closed")
	}

	if s.panel != nil && s.panel.StationID == stationID {
		return *s.panel, nil
	}
	s.stopLocked()

	epoch := s.gen.Next()
	s.panel = &Panel{
		StationID:   stationID,
		StationName: stations.Name(stationID),
		Loading:     true,
		Epoch:       epoch,
	}
	s.loop = poller.NewTicker(s.config.Interval, func(ctx context.Context) {
		s.refresh(ctx, stationID, epoch)
	})
	s.loop.Start(s.base)

	metrics.PanelsOpen.Add(s.base, 1)
	s.config.Collector.PanelOpened()
	slog.Debug("Station panel opened", "session", s.ID, "station", stationID)

	return *s.panel, nil
}

// ClosePanel hides the panel and stops its loop. A fetch still in flight
// completes but its result is discarded.
func (s *Session) ClosePanel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// stopLocked clears the panel and its schedule. s.mu must be held.
func (s *Session) stopLocked() {
	if s.panel == nil {
		return
	}
	s.gen.Next()
	s.panel = nil
	if s.loop != nil {
		loop := s.loop
		loop.Stop()
		s.pending.Add(1)
		go func() {
			defer s.pending.Done()
			loop.Wait()
		}()
		s.loop = nil
	}
	metrics.PanelsOpen.Add(s.base, -1)
	s.config.Collector.PanelClosed()
}

// Panel returns the open panel, if any.
func (s *Session) Panel() (Panel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panel == nil {
		return Panel{}, false
	}
	return *s.panel, true
}

// Close stops the panel loop. The session accepts no new panels afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.stopLocked()
	s.mu.Unlock()
}

// Drain waits until fetches started by already closed panels have
// returned.
func (s *Session) Drain() {
	s.pending.Wait()
}

// refreshOpen runs one prediction poll for the open panel right away.
func (s *Session) refreshOpen(ctx context.Context) {
	s.mu.Lock()
	if s.panel == nil {
		s.mu.Unlock()
		return
	}
	stationID, epoch := s.panel.StationID, s.panel.Epoch
	s.mu.Unlock()
	s.refresh(ctx, stationID, epoch)
}

func (s *Session) refresh(ctx context.Context, stationID string, epoch uint64) {
	ctx, span := s.tracer.Start(ctx, "surface.refresh_panel",
		trace.WithAttributes(attribute.String("station_id", stationID)),
	)
	defer span.End()

	start := time.Now()
	preds, err := s.fetch(ctx, stationID)

	status := "ok"
	if err != nil {
		status = "error"
	}
	attrs := metric.WithAttributes(attribute.String("loop", "predictions"), attribute.String("status", status))
	metrics.PollCyclesTotal.Add(ctx, 1, attrs)
	metrics.PollCycleDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	s.config.Collector.ObservePoll("predictions", time.Since(start), err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.gen.Valid(epoch) || s.panel == nil || s.panel.Epoch != epoch {
		metrics.PollStaleResults.Add(ctx, 1)
		span.SetAttributes(attribute.Bool("stale", true))
		return
	}

	next := *s.panel
	next.Loading = false
	if err != nil {
		slog.Warn("Prediction poll failed", "station", stationID, "error", err)
		motel.RecordError(span, err, motel.ErrorTypeNetwork, true)
		next.Error = PanelErrorMessage
	} else {
		next.Error = ""
		next.Predictions = preds
		next.Groups = GroupPredictions(preds)
		next.UpdatedAt = s.config.Now()
		metrics.PredictionsKept.Add(ctx, int64(len(preds)))
		motel.SetSpanOk(span)
	}
	s.panel = &next
}

func (s *Session) fetch(ctx context.Context, stationID string) ([]types.PredictionRecord, error) {
	doc, err := s.source.FetchPredictions(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch predictions for %s: %w", stationID, err)
	}
	if doc == nil {
		return nil, errors.New("empty predictions document")
	}
	return s.config.Parser.ParsePredictions(ctx, doc, s.config.Now()), nil
}

// Frame combines the latest vehicle snapshot with this session's view
// state.
func (s *Session) Frame(snap poller.Snapshot) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := Frame{
		Vehicles:  snap.Vehicles,
		UpdatedAt: snap.UpdatedAt,
		Error:     snap.Error,
		Hovered:   s.hovered,
	}
	if s.panel != nil {
		p := *s.panel
		f.Panel = &p
	}
	return f
}
