package otel

import (
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Protocol represents OTLP transport protocol
type Protocol string

const (
	ProtocolGRPC         Protocol = "grpc"
	ProtocolHTTPProtobuf Protocol = "http/protobuf"
	ProtocolHTTPJSON     Protocol = "http/json"
)

// SignalType represents the OTEL signal type
type SignalType string

const (
	SignalTraces  SignalType = "traces"
	SignalMetrics SignalType = "metrics"
)

// ExporterConfig holds parsed OTLP exporter configuration for a signal
type ExporterConfig struct {
	Endpoint    string
	Protocol    Protocol
	Headers     map[string]string
	Timeout     time.Duration
	Insecure    bool
	Compression string
}

// IsTracingEnabled returns true if OTEL tracing is enabled
func IsTracingEnabled() bool {
	return isTrue(os.Getenv("OTEL_TRACING_ENABLED"))
}

// IsMetricsEnabled returns true if OTEL metrics is enabled
func IsMetricsEnabled() bool {
	return isTrue(os.Getenv("OTEL_METRICS_ENABLED"))
}

// GetExporterConfig resolves the exporter configuration for one signal from
// the standard OTEL_EXPORTER_OTLP_* variables. Signal specific variables
// win over the shared ones.
func GetExporterConfig(signal SignalType) ExporterConfig {
	lookup := func(suffix, def string) string {
		sig := "OTEL_EXPORTER_OTLP_" + strings.ToUpper(string(signal)) + "_" + suffix
		if v := os.Getenv(sig); v != "" {
			return v
		}
		if v := os.Getenv("OTEL_EXPORTER_OTLP_" + suffix); v != "" {
			return v
		}
		return def
	}

	cfg := ExporterConfig{
		Protocol:    parseProtocol(lookup("PROTOCOL", string(ProtocolHTTPProtobuf))),
		Headers:     parseHeaders(lookup("HEADERS", "")),
		Timeout:     parseDuration(lookup("TIMEOUT", ""), 10*time.Second),
		Compression: lookup("COMPRESSION", ""),
	}
	cfg.Endpoint = resolveEndpoint(signal, cfg.Protocol)

	if v := lookup("INSECURE", ""); v != "" {
		cfg.Insecure = isTrue(v)
	} else {
		cfg.Insecure = strings.HasPrefix(cfg.Endpoint, "http://")
	}
	return cfg
}

func parseProtocol(s string) Protocol {
	switch strings.ToLower(s) {
	case "grpc":
		return ProtocolGRPC
	case "http/json":
		return ProtocolHTTPJSON
	default:
		return ProtocolHTTPProtobuf
	}
}

// resolveEndpoint uses a signal endpoint as-is, appends /v1/<signal> to a
// shared base endpoint, or falls back to the local collector.
func resolveEndpoint(signal SignalType, protocol Protocol) string {
	if ep := os.Getenv("OTEL_EXPORTER_OTLP_" + strings.ToUpper(string(signal)) + "_ENDPOINT"); ep != "" {
		return normalizeEndpoint(ep, protocol)
	}
	if base := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); base != "" {
		ep := normalizeEndpoint(base, protocol)
		if protocol == ProtocolGRPC {
			return ep
		}
		return appendSignalPath(ep, signal)
	}
	if protocol == ProtocolGRPC {
		return "localhost:4317"
	}
	return "http://localhost:4318/v1/" + string(signal)
}

// normalizeEndpoint reduces gRPC endpoints to host:port and gives HTTP
// endpoints a scheme.
func normalizeEndpoint(endpoint string, protocol Protocol) string {
	if protocol == ProtocolGRPC {
		endpoint = strings.TrimPrefix(endpoint, "http://")
		endpoint = strings.TrimPrefix(endpoint, "https://")
		if i := strings.Index(endpoint, "/"); i != -1 {
			endpoint = endpoint[:i]
		}
		return endpoint
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	return endpoint
}

func appendSignalPath(endpoint string, signal SignalType) string {
	signalPath := "/v1/" + string(signal)

	u, err := url.Parse(endpoint)
	if err != nil {
		return strings.TrimSuffix(endpoint, "/") + signalPath
	}
	if strings.HasSuffix(u.Path, signalPath) {
		return endpoint
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + signalPath
	return u.String()
}

// isTrue checks if a string represents a true value
func isTrue(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// parseHeaders parses "key1=value1,key2=value2". Values keep everything
// after the first '=' untouched.
func parseHeaders(s string) map[string]string {
	headers := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if i := strings.Index(pair, "="); i > 0 {
			key := strings.TrimSpace(pair[:i])
			headers[key] = pair[i+1:]
			slog.Debug("Parsed OTEL header", "key", key, "value_length", len(pair)-i-1)
		}
	}
	return headers
}

// parseDuration accepts Go durations ("10s") and plain milliseconds
// ("10000").
func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(s); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}
