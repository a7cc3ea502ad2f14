package profiling

import (
	"log/slog"
	"os"
	"strings"

	"github.com/grafana/pyroscope-go"

	"metromap/pkg/otel"
)

// InitProfiling starts continuous profiling when PYROSCOPE_PROFILING_ENABLED
// is set.
func InitProfiling() (func(), error) {
	if !isTrue(os.Getenv("PYROSCOPE_PROFILING_ENABLED")) {
		slog.Debug("Pyroscope profiling is disabled")
		return func() {}, nil
	}

	serverAddress := getEnv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	applicationName := getEnv("PYROSCOPE_APPLICATION_NAME", otel.ServiceName)

	config := pyroscope.Config{
		ApplicationName:   applicationName,
		ServerAddress:     serverAddress,
		Logger:            pyroscope.StandardLogger,
		BasicAuthUser:     os.Getenv("PYROSCOPE_BASIC_AUTH_USER"),
		BasicAuthPassword: os.Getenv("PYROSCOPE_BASIC_AUTH_PASSWORD"),
		Tags: map[string]string{
			"service": otel.ServiceName,
			"version": otel.Version,
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	}

	profiler, err := pyroscope.Start(config)
	if err != nil {
		slog.Warn("Failed to start Pyroscope profiler", "error", err)
		return func() {}, nil
	}

	slog.Debug("Pyroscope profiling started", "server", serverAddress, "application", applicationName)

	return func() {
		if err := profiler.Stop(); err != nil {
			slog.Error("Error stopping Pyroscope profiler", "error", err)
		}
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func isTrue(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
