// Package mbta is the HTTP client for the upstream transit API.
package mbta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
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

const (
	DefaultBaseURL = "https://api-v3.mbta.com"

	// RouteTypes restricts vehicles to light rail (0) and heavy rail (1).
	RouteTypes = "0,1"

	// APIKeyHeader carries the API key so it stays out of request URLs.
	APIKeyHeader = "x-api-key"
)

// ErrMissingAPIKey is returned by calls that need an API key when none is
// configured.
var ErrMissingAPIKey = errors.New("mbta: API key is not configured")

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.Code, e.Body)
}

// Transient reports whether retrying later could succeed.
func (e *StatusError) Transient() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	tracer     trace.Tracer
}

func NewClient(apiKey, baseURL string) *Client {
	client := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   30 * time.Second,
	}

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: client,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		tracer:     otel.Tracer("mbta-client"),
	}
}

// HasAPIKey reports whether vehicle and prediction calls can be made.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// FetchVehicles returns the current light and heavy rail vehicles with
// their route, stop and trip included.
func (c *Client) FetchVehicles(ctx context.Context) (*types.Document, error) {
	params := url.Values{}
	params.Set("filter[route_type]", RouteTypes)
	params.Set("include", "route,stop,trip")
	return c.fetchDocument(ctx, "mbta.fetch_vehicles", "/vehicles", params, true)
}

// FetchPredictions returns the upcoming predictions for one station with
// route and trip included.
func (c *Client) FetchPredictions(ctx context.Context, stopID string) (*types.Document, error) {
	if stopID == "" {
		return nil, errors.New("stop id is required")
	}
	params := url.Values{}
	params.Set("filter[stop]", stopID)
	params.Set("include", "route,trip")
	return c.fetchDocument(ctx, "mbta.fetch_predictions", "/predictions", params, true)
}

// FetchStops lists the stops served by a route. The key is sent when
// configured but is not required.
func (c *Client) FetchStops(ctx context.Context, routeID string) (*types.Document, error) {
	if routeID == "" {
		return nil, errors.New("route id is required")
	}
	params := url.Values{}
	params.Set("filter[route]", routeID)
	params.Set("fields[stop]", "name")
	return c.fetchDocument(ctx, "mbta.fetch_stops", "/stops", params, false)
}

func (c *Client) fetchDocument(ctx context.Context, spanName, path string, params url.Values, needKey bool) (*types.Document, error) {
	ctx, span := c.tracer.Start(ctx, spanName,
		trace.WithAttributes(attribute.String("api.endpoint", c.baseURL+path)),
	)
	defer span.End()

	body, err := c.fetch(ctx, span, path, params, needKey)
	if err != nil {
		return nil, err
	}

	var doc types.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		motel.RecordError(span, err, motel.ErrorTypeParse, false)
		return nil, fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	motel.SetSpanOk(span)
	return &doc, nil
}

func (c *Client) fetch(ctx context.Context, span trace.Span, path string, params url.Values, needKey bool) ([]byte, error) {
	if needKey && c.apiKey == "" {
		motel.RecordError(span, ErrMissingAPIKey, motel.ErrorTypeConfig, false)
		return nil, ErrMissingAPIKey
	}
	reqURL := c.baseURL + path + "?" + params.Encode()
	span.SetAttributes(attribute.String("http.method", http.MethodGet))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		motel.RecordError(span, err, motel.ErrorTypeValidation, false)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "metromap/1.0.0")
	req.Header.Set("Accept", "application/vnd.api+json")
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}

	start := time.Now()
	status := "error"
	defer func() {
		attrs := metric.WithAttributes(
			attribute.String("endpoint", path),
			attribute.String("status", status),
		)
		metrics.UpstreamRequestsTotal.Add(ctx, 1, attrs)
		metrics.HTTPClientRequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	}()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		motel.RecordError(span, err, motel.ErrorTypeNetwork, true)
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)
	span.SetAttributes(
		attribute.Int("http.status_code", resp.StatusCode),
		attribute.String("http.response.content_type", resp.Header.Get("Content-Type")),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		err := &StatusError{Code: resp.StatusCode, Body: string(body)}
		motel.RecordError(span, err, motel.ErrorTypeHTTP, err.Transient())
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		motel.RecordError(span, err, motel.ErrorTypeNetwork, true)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	span.SetAttributes(attribute.Int("response.size_bytes", len(body)))
	metrics.HTTPClientResponseBodySize.Record(ctx, int64(len(body)), metric.WithAttributes(attribute.String("endpoint", path)))
	return body, nil
}
