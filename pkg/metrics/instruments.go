package metrics

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// HTTP Client Metrics (OTEL Semantic Conventions)
var (
	// HTTPClientRequestDuration measures the duration of upstream API requests
	HTTPClientRequestDuration metric.Float64Histogram

	// HTTPClientResponseBodySize measures the size of upstream response bodies
	HTTPClientResponseBodySize metric.Int64Histogram
)

// Poller Metrics
var (
	// PollCyclesTotal counts poll cycles by loop and status
	PollCyclesTotal metric.Int64Counter

	// PollCycleDuration measures the duration of poll cycles
	PollCycleDuration metric.Float64Histogram

	// PollInFlight tracks poll runs that have not finished yet
	PollInFlight metric.Int64UpDownCounter

	// PollStaleResults counts results discarded because their panel closed
	PollStaleResults metric.Int64Counter
)

// Parser Metrics
var (
	// VehiclesPlaced counts vehicles resolved to a station coordinate
	VehiclesPlaced metric.Int64Counter

	// VehiclesDropped counts vehicles with no resolvable station
	VehiclesDropped metric.Int64Counter

	// PredictionsKept counts predictions surviving the minutes-away filter
	PredictionsKept metric.Int64Counter
)

// Surface Metrics
var (
	// PanelsOpen tracks station panels with a running prediction loop
	PanelsOpen metric.Int64UpDownCounter

	// SessionsActive tracks live viewer sessions
	SessionsActive metric.Int64UpDownCounter
)

// Loki Metrics
var (
	// LokiBatchSize measures the number of vehicle records per batch
	LokiBatchSize metric.Int64Histogram

	// LokiSendDuration measures the duration of Loki push operations
	LokiSendDuration metric.Float64Histogram

	// LokiSendTotal counts total Loki sends by status
	LokiSendTotal metric.Int64Counter
)

// Upstream API Metrics
var (
	// UpstreamRequestsTotal counts upstream API requests by endpoint and status
	UpstreamRequestsTotal metric.Int64Counter
)

// Instruments start out as no-ops so callers never see nil values when
// metrics export is disabled.
func init() {
	Meter = noop.NewMeterProvider().Meter("metromap")
	_ = initializeInstruments()
}

// initializeInstruments creates all metric instruments
func initializeInstruments() error {
	var err error

	HTTPClientRequestDuration, err = Meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("Duration of HTTP client requests"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 0.75, 1.0, 2.5, 5.0, 7.5, 10.0),
	)
	if err != nil {
		return err
	}

	HTTPClientResponseBodySize, err = Meter.Int64Histogram(
		"http.client.response.body.size",
		metric.WithDescription("Size of HTTP response bodies"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(1024, 10240, 102400, 1048576, 10485760), // 1KB to 10MB
	)
	if err != nil {
		return err
	}

	PollCyclesTotal, err = Meter.Int64Counter(
		"poller.cycles.total",
		metric.WithDescription("Total number of poll cycles"),
		metric.WithUnit("{cycle}"),
	)
	if err != nil {
		return err
	}

	PollCycleDuration, err = Meter.Float64Histogram(
		"poller.cycle.duration",
		metric.WithDescription("Duration of poll cycles"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return err
	}

	PollInFlight, err = Meter.Int64UpDownCounter(
		"poller.in_flight",
		metric.WithDescription("Poll runs currently waiting on the upstream"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return err
	}

	PollStaleResults, err = Meter.Int64Counter(
		"poller.stale_results",
		metric.WithDescription("Results discarded for a closed or replaced panel"),
		metric.WithUnit("{result}"),
	)
	if err != nil {
		return err
	}

	VehiclesPlaced, err = Meter.Int64Counter(
		"parser.vehicles.placed",
		metric.WithDescription("Vehicles placed at a station coordinate"),
		metric.WithUnit("{vehicle}"),
	)
	if err != nil {
		return err
	}

	VehiclesDropped, err = Meter.Int64Counter(
		"parser.vehicles.dropped",
		metric.WithDescription("Vehicles with no mapped station"),
		metric.WithUnit("{vehicle}"),
	)
	if err != nil {
		return err
	}

	PredictionsKept, err = Meter.Int64Counter(
		"parser.predictions.kept",
		metric.WithDescription("Predictions shown in station panels"),
		metric.WithUnit("{prediction}"),
	)
	if err != nil {
		return err
	}

	PanelsOpen, err = Meter.Int64UpDownCounter(
		"surface.panels.open",
		metric.WithDescription("Station panels currently open"),
		metric.WithUnit("{panel}"),
	)
	if err != nil {
		return err
	}

	SessionsActive, err = Meter.Int64UpDownCounter(
		"surface.sessions.active",
		metric.WithDescription("Viewer sessions held in the session cache"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return err
	}

	LokiBatchSize, err = Meter.Int64Histogram(
		"loki.batch.size",
		metric.WithDescription("Number of vehicle records per batch"),
		metric.WithUnit("{record}"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000),
	)
	if err != nil {
		return err
	}

	LokiSendDuration, err = Meter.Float64Histogram(
		"loki.send.duration",
		metric.WithDescription("Duration of Loki push operations"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return err
	}

	LokiSendTotal, err = Meter.Int64Counter(
		"loki.send.total",
		metric.WithDescription("Total Loki sends by status"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	UpstreamRequestsTotal, err = Meter.Int64Counter(
		"mbta.api.requests.total",
		metric.WithDescription("Total upstream API requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	return nil
}
