package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes live-map state in the Prometheus text format. A nil
// *Collector is valid and records nothing.
type Collector struct {
	reg *prometheus.Registry

	VehiclesOnMap   prometheus.Gauge
	VehiclesDropped prometheus.Counter
	PollsTotal      *prometheus.CounterVec // loop, status labels
	PollDuration    *prometheus.HistogramVec
	PanelsOpen      prometheus.Gauge
	Sessions        prometheus.Gauge
	VehicleInterval prometheus.Gauge // seconds
	PanelInterval   prometheus.Gauge // seconds
}

func NewCollector(vehicleInterval, predictionInterval time.Duration) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		VehiclesOnMap: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "metromap_vehicles_on_map",
			Help: "Vehicles placed on the map by the latest poll.",
		}),
		VehiclesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metromap_vehicles_dropped_total",
			Help: "Vehicles skipped because their station has no coordinate.",
		}),
		PollsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "metromap_polls_total",
			Help: "Poll cycles by loop and status.",
		}, []string{"loop", "status"}),
		PollDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "metromap_poll_duration_seconds",
			Help:    "Duration of a poll cycle including the upstream request.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"loop"}),
		PanelsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "metromap_panels_open",
			Help: "Station panels with a running prediction loop.",
		}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "metromap_sessions",
			Help: "Viewer sessions held in memory.",
		}),
		VehicleInterval: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "metromap_vehicle_interval_seconds",
			Help: "Vehicle poll interval in seconds.",
		}),
		PanelInterval: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "metromap_prediction_interval_seconds",
			Help: "Station panel poll interval in seconds.",
		}),
	}

	reg.MustRegister(
		c.VehiclesOnMap, c.VehiclesDropped,
		c.PollsTotal, c.PollDuration,
		c.PanelsOpen, c.Sessions,
		c.VehicleInterval, c.PanelInterval,
	)

	c.VehicleInterval.Set(vehicleInterval.Seconds())
	c.PanelInterval.Set(predictionInterval.Seconds())

	return c
}

// ObservePoll records one finished poll cycle.
func (c *Collector) ObservePoll(loop string, d time.Duration, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.PollsTotal.WithLabelValues(loop, status).Inc()
	c.PollDuration.WithLabelValues(loop).Observe(d.Seconds())
}

// ObserveVehicles records the outcome of a successful vehicle poll.
func (c *Collector) ObserveVehicles(placed, dropped int) {
	if c == nil {
		return
	}
	c.VehiclesOnMap.Set(float64(placed))
	c.VehiclesDropped.Add(float64(dropped))
}

// PanelOpened and PanelClosed track running prediction loops.
func (c *Collector) PanelOpened() {
	if c != nil {
		c.PanelsOpen.Inc()
	}
}

func (c *Collector) PanelClosed() {
	if c != nil {
		c.PanelsOpen.Dec()
	}
}

// SetSessions records the number of live viewer sessions.
func (c *Collector) SetSessions(n int) {
	if c != nil {
		c.Sessions.Set(float64(n))
	}
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", "error", err)
		}
	}()
	slog.Info("metrics listening", "addr", addr)
	return srv
}
