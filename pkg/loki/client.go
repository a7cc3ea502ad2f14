// Package loki pushes placed vehicles to Grafana Loki as JSON log lines.
package loki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"metromap/pkg/metrics"
	motel "metromap/pkg/otel"
	"metromap/pkg/types"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string
	tracer     trace.Tracer
	now        func() time.Time
}

type PushRequest struct {
	Streams []Stream `json:"streams"`
}

type Stream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

// vehicleLine is the log line written for one vehicle.
type vehicleLine struct {
	VehicleID     string   `json:"vehicle_id"`
	Label         string   `json:"label"`
	Route         string   `json:"route"`
	Direction     string   `json:"direction"`
	StationID     string   `json:"station_id"`
	X             float64  `json:"x"`
	Y             float64  `json:"y"`
	Carriages     int      `json:"carriages"`
	CurrentStatus string   `json:"current_status"`
	Occupancy     *string  `json:"occupancy_status,omitempty"`
	Speed         *float64 `json:"speed,omitempty"`
	UpdatedAt     string   `json:"updated_at"`
}

func NewClient(baseURL, username, password string) *Client {
	// Create HTTP client with OpenTelemetry instrumentation
	client := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   30 * time.Second,
	}

	return &Client{
		httpClient: client,
		baseURL:    baseURL,
		username:   username,
		password:   password,
		tracer:     otel.Tracer("loki-client"),
		now:        time.Now,
	}
}

// PushVehicles writes one log line per vehicle, one stream per route. An
// empty list sends nothing.
func (c *Client) PushVehicles(ctx context.Context, vehicles []types.VehicleRecord) error {
	ctx, span := c.tracer.Start(ctx, "loki.push_vehicles",
		trace.WithAttributes(attribute.Int("vehicles_count", len(vehicles))),
	)
	defer span.End()

	if len(vehicles) == 0 {
		motel.SetSpanOk(span)
		return nil
	}

	start := time.Now()
	err := c.push(ctx, span, vehicles)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.LokiBatchSize.Record(ctx, int64(len(vehicles)))
	metrics.LokiSendDuration.Record(ctx, time.Since(start).Seconds())
	metrics.LokiSendTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))

	if err == nil {
		motel.SetSpanOk(span)
	}
	return err
}

func (c *Client) push(ctx context.Context, span trace.Span, vehicles []types.VehicleRecord) error {
	reqBody, lines, err := c.buildRequest(vehicles)
	if err != nil {
		motel.RecordError(span, err, motel.ErrorTypeParse, false)
		return err
	}

	url := fmt.Sprintf("%s/loki/api/v1/push", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBody))
	if err != nil {
		motel.RecordError(span, err, motel.ErrorTypeValidation, false)
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "metromap/"+motel.Version)

	// Add basic authentication if credentials are provided
	if c.username != "" && c.password != "" {
		req.SetBasicAuth(c.username, c.password)
		span.SetAttributes(
			attribute.Bool("auth.enabled", true),
			attribute.String("auth.username", c.username),
		)
	} else {
		span.SetAttributes(attribute.Bool("auth.enabled", false))
	}

	span.SetAttributes(
		attribute.String("http.url", url),
		attribute.String("http.method", "POST"),
		attribute.Int("request.size_bytes", len(reqBody)),
		attribute.Int("log_lines_count", lines),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		motel.RecordError(span, err, motel.ErrorTypeNetwork, true)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("Loki returned status %d", resp.StatusCode)
		motel.RecordError(span, err, motel.ErrorTypeHTTP, resp.StatusCode >= 500)
		return err
	}
	return nil
}

func (c *Client) buildRequest(vehicles []types.VehicleRecord) ([]byte, int, error) {
	byRoute := make(map[string][][]string)
	ts := strconv.FormatInt(c.now().UnixNano(), 10)
	for _, v := range vehicles {
		line, err := json.Marshal(vehicleLine{
			VehicleID:     v.ID,
			Label:         v.Label,
			Route:         v.Line,
			Direction:     v.Direction.String(),
			StationID:     v.StationID,
			X:             v.X,
			Y:             v.Y,
			Carriages:     v.Carriages,
			CurrentStatus: v.CurrentStatus,
			Occupancy:     v.Occupancy,
			Speed:         v.Speed,
			UpdatedAt:     v.UpdatedAt,
		})
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal vehicle JSON: %w", err)
		}
		byRoute[v.Line] = append(byRoute[v.Line], []string{ts, string(line)})
	}

	routes := make([]string, 0, len(byRoute))
	for r := range byRoute {
		routes = append(routes, r)
	}
	sort.Strings(routes)

	lokiReq := PushRequest{}
	for _, r := range routes {
		lokiReq.Streams = append(lokiReq.Streams, Stream{
			Stream: map[string]string{
				"job":     "metromap",
				"service": "transit-map",
				"route":   r,
			},
			Values: byRoute[r],
		})
	}

	body, err := json.Marshal(lokiReq)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal Loki request: %w", err)
	}
	return body, len(vehicles), nil
}
