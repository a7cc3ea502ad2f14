package poller

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
	"metromap/pkg/types"
)

// VehicleErrorMessage is shown on the status bar while polls are failing.
const VehicleErrorMessage = "Failed to load train positions"

// VehicleSource fetches the raw vehicles document.
type VehicleSource interface {
	FetchVehicles(ctx context.Context) (*types.Document, error)
}

// Sink receives every successfully placed vehicle list.
type Sink interface {
	PushVehicles(ctx context.Context, vehicles []types.VehicleRecord) error
}

// Snapshot is the published result of the vehicle loop. It is never
// mutated after publication.
type Snapshot struct {
	Vehicles []types.VehicleRecord `json:"vehicles"`
	// UpdatedAt is the time of the last successful poll.
	UpdatedAt time.Time `json:"updated_at"`
	// Error is set while the latest poll failed. Vehicles then still hold
	// the last good list.
	Error   string `json:"error,omitempty"`
	Dropped int    `json:"dropped"`
	Seq     uint64 `json:"seq"`
}

type Config struct {
	Interval  time.Duration
	Sink      Sink
	Collector *metrics.Collector
}

// VehiclePoller polls the vehicle feed and publishes placed vehicles.
type VehiclePoller struct {
	config Config
	source VehicleSource
	parser *parser.Parser
	tracer trace.Tracer
	ticker *Ticker

	mu      sync.RWMutex
	current Snapshot
}

func New(source VehicleSource, config Config) (*VehiclePoller, error) {
	if source == nil {
		return nil, fmt.Errorf("vehicle source is required")
	}
	if config.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive")
	}

	p := &VehiclePoller{
		config: config,
		source: source,
		parser: parser.NewParser(),
		tracer: otel.Tracer("poller"),
	}
	p.ticker = NewTicker(config.Interval, func(ctx context.Context) {
		_ = p.PollOnce(ctx)
	})
	return p, nil
}

// WithParser replaces the parser, mainly so tests can supply a registry.
func (p *VehiclePoller) WithParser(ps *parser.Parser) *VehiclePoller {
	p.parser = ps
	return p
}

// Start polls immediately and then once per interval.
func (p *VehiclePoller) Start(ctx context.Context) {
	slog.Info("Vehicle poller started", "interval", p.config.Interval)
	p.ticker.Start(ctx)
}

// Stop ends the schedule and waits for in-flight polls.
func (p *VehiclePoller) Stop() {
	p.ticker.Stop()
	p.ticker.Wait()
	slog.Info("Vehicle poller stopped")
}

// Snapshot returns the latest published state.
func (p *VehiclePoller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// PollOnce runs a single fetch, parse and publish cycle. On failure the
// previous vehicle list is kept and the error flag is raised.
func (p *VehiclePoller) PollOnce(ctx context.Context) error {
	ctx, span := p.tracer.Start(ctx, "poller.poll_vehicles")
	defer span.End()

	start := time.Now()
	metrics.PollInFlight.Add(ctx, 1, metric.WithAttributes(attribute.String("loop", "vehicles")))
	defer metrics.PollInFlight.Add(ctx, -1, metric.WithAttributes(attribute.String("loop", "vehicles")))

	batch, err := p.fetch(ctx)

	duration := time.Since(start)
	status := "ok"
	if err != nil {
		status = "error"
	}
	attrs := metric.WithAttributes(attribute.String("loop", "vehicles"), attribute.String("status", status))
	metrics.PollCyclesTotal.Add(ctx, 1, attrs)
	metrics.PollCycleDuration.Record(ctx, duration.Seconds(), attrs)
	p.config.Collector.ObservePoll("vehicles", duration, err)

	if err != nil {
		slog.Warn("Vehicle poll failed", "error", err)
		p.publish(func(s *Snapshot) { s.Error = VehicleErrorMessage })
		return err
	}

	metrics.VehiclesPlaced.Add(ctx, int64(len(batch.Vehicles)))
	metrics.VehiclesDropped.Add(ctx, int64(batch.Dropped))
	metrics.RecordVehiclePollSuccess()
	p.config.Collector.ObserveVehicles(len(batch.Vehicles), batch.Dropped)
	if batch.Dropped > 0 {
		slog.Debug("Vehicles without a mapped station", "dropped", batch.Dropped)
	}

	p.publish(func(s *Snapshot) {
		s.Vehicles = batch.Vehicles
		s.Dropped = batch.Dropped
		s.UpdatedAt = time.Now()
		s.Error = ""
	})

	span.SetAttributes(
		attribute.Int("vehicles_placed", len(batch.Vehicles)),
		attribute.String("poll_duration", duration.String()),
	)
	motel.SetSpanOk(span)

	if p.config.Sink != nil {
		if err := p.config.Sink.PushVehicles(ctx, batch.Vehicles); err != nil {
			slog.Warn("Failed to push vehicles to sink", "error", err)
		}
	}
	return nil
}

func (p *VehiclePoller) fetch(ctx context.Context) (*parser.VehicleBatch, error) {
	doc, err := p.source.FetchVehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vehicles: %w", err)
	}
	if doc == nil {
		return nil, errors.New("empty vehicles document")
	}
	return p.parser.ParseVehicles(ctx, doc), nil
}

// publish applies fn to a copy of the current snapshot and swaps it in.
// Results are applied in the order they arrive.
func (p *VehiclePoller) publish(fn func(s *Snapshot)) {
	p.mu.Lock()
	next := p.current
	fn(&next)
	next.Seq++
	p.current = next
	p.mu.Unlock()
}
