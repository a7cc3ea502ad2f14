package otel

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// ServiceName is the name of this service
const ServiceName = "metromap"

// Version is set at build time via -ldflags
// e.g., go build -ldflags="-X metromap/pkg/otel.Version=1.2.3"
var Version = "dev"

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// instanceID prefers OTEL_SERVICE_INSTANCE_ID, then the hostname.
func instanceID() string {
	if id := os.Getenv("OTEL_SERVICE_INSTANCE_ID"); id != "" {
		return id
	}
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		return hostname
	}
	return fmt.Sprintf("%s-%d", ServiceName, os.Getpid())
}

// NewResource creates the resource shared by the trace and meter providers.
func NewResource() (*resource.Resource, error) {
	return resource.New(context.Background(),
		resource.WithFromEnv(),
		resource.WithHost(),
		resource.WithProcess(),
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(Version),
			semconv.ServiceNamespace(envOr("OTEL_SERVICE_NAMESPACE", "transit")),
			semconv.ServiceInstanceID(instanceID()),
			semconv.DeploymentEnvironment(envOr("OTEL_DEPLOYMENT_ENVIRONMENT", "production")),
			semconv.ProcessRuntimeName("go"),
			semconv.ProcessRuntimeVersion(runtime.Version()),
		),
	)
}
