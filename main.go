package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sourcegraph/conc/pool"

	"metromap/pkg/editor"
	"metromap/pkg/logging"
	"metromap/pkg/loki"
	"metromap/pkg/mbta"
	"metromap/pkg/metrics"
	"metromap/pkg/poller"
	"metromap/pkg/profiling"
	"metromap/pkg/render"
	"metromap/pkg/server"
	"metromap/pkg/surface"
	"metromap/pkg/tracing"
)

func main() {
	// Optional .env in the working directory
	_ = godotenv.Load()

	logging.InitLogging()

	// Command line flags
	var (
		dryRun             = flag.Bool("dry-run", false, "Poll vehicles once, print them as JSON lines and exit")
		apiKey             = flag.String("api-key", getEnv("MBTA_API_KEY", ""), "MBTA v3 API key")
		apiBase            = flag.String("api-base", getEnv("MBTA_API_BASE", mbta.DefaultBaseURL), "MBTA v3 API base URL")
		listen             = flag.String("listen", getEnv("METRO_LISTEN", ":8080"), "HTTP listen address")
		vehicleInterval    = flag.String("vehicle-interval", getEnv("METRO_VEHICLE_INTERVAL", "10s"), "Vehicle polling interval")
		predictionInterval = flag.String("prediction-interval", getEnv("METRO_PREDICTION_INTERVAL", "30s"), "Station panel polling interval")
		mapEditable        = flag.Bool("map-editable", getEnvBool("MAP_EDITABLE", false), "Enable the coordinate editor at /map-editor")
		mapImage           = flag.String("map-image", getEnv("METRO_MAP_IMAGE", render.DefaultMapImage), "URL of the schematic map image")
		staticDir          = flag.String("static-dir", getEnv("METRO_STATIC_DIR", ""), "Directory served under /static/")
		corsOrigins        = flag.String("cors-origins", getEnv("METRO_CORS_ORIGINS", "*"), "Allowed CORS origins, comma-separated")
		sessionTTL         = flag.String("session-ttl", getEnv("METRO_SESSION_TTL", "10m"), "Idle time before a viewer session expires")
		lokiURL            = flag.String("loki-url", getEnv("METRO_LOKI_URL", ""), "Grafana Loki URL (empty disables the sink)")
		lokiUser           = flag.String("loki-user", getEnv("METRO_LOKI_USER", ""), "Loki username (for Grafana Cloud authentication)")
		lokiPassword       = flag.String("loki-password", getEnv("METRO_LOKI_PASSWORD", ""), "Loki password/token (for Grafana Cloud authentication)")
		metricsAddr        = flag.String("metrics-addr", getEnv("METRICS_ADDR", ""), "Separate Prometheus listen address (empty serves /metrics on the main router)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "MBTA live rapid transit map\n\n")
		fmt.Fprintf(os.Stderr, "Polls the MBTA v3 API for subway and light rail positions, places\n")
		fmt.Fprintf(os.Stderr, "them on a schematic map and serves it with per-station arrival panels.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  MBTA_API_KEY              - MBTA v3 API key\n")
		fmt.Fprintf(os.Stderr, "  MBTA_API_BASE             - API base URL (default: %s)\n", mbta.DefaultBaseURL)
		fmt.Fprintf(os.Stderr, "  METRO_LISTEN              - HTTP listen address (default: :8080)\n")
		fmt.Fprintf(os.Stderr, "  METRO_VEHICLE_INTERVAL    - Vehicle polling interval (default: 10s)\n")
		fmt.Fprintf(os.Stderr, "  METRO_PREDICTION_INTERVAL - Station panel polling interval (default: 30s)\n")
		fmt.Fprintf(os.Stderr, "  MAP_EDITABLE              - Enable the map editor (default: false)\n")
		fmt.Fprintf(os.Stderr, "  METRO_LOKI_URL            - Loki URL, vehicles are pushed when set\n")
		fmt.Fprintf(os.Stderr, "  LOG_LEVEL                 - debug, info, warn or error (default: info)\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # One poll printed to stdout\n")
		fmt.Fprintf(os.Stderr, "  %s --dry-run --api-key=YOUR_API_KEY\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Serve the map with the editor enabled\n")
		fmt.Fprintf(os.Stderr, "  %s --api-key=YOUR_API_KEY --map-editable --static-dir=./public\n\n", os.Args[0])
	}

	flag.Parse()

	vehicleEvery, err := parsePositive("vehicle-interval", *vehicleInterval)
	if err != nil {
		fatal("Invalid configuration", err)
	}
	predictionEvery, err := parsePositive("prediction-interval", *predictionInterval)
	if err != nil {
		fatal("Invalid configuration", err)
	}
	ttl, err := parsePositive("session-ttl", *sessionTTL)
	if err != nil {
		fatal("Invalid configuration", err)
	}

	if *apiKey == "" {
		slog.Warn("No API key configured; vehicle polls will fail until MBTA_API_KEY is set")
	}
	client := mbta.NewClient(*apiKey, *apiBase)

	if *dryRun {
		if err := runDryRun(client); err != nil {
			fatal("Dry run failed", err)
		}
		return
	}

	// Initialize tracing
	shutdownTracing, err := tracing.InitTracing()
	if err != nil {
		fatal("Failed to initialize tracing", err)
	}
	defer shutdownTracing()

	// Initialize metrics
	shutdownMetrics, err := metrics.InitMetrics()
	if err != nil {
		fatal("Failed to initialize metrics", err)
	}
	defer shutdownMetrics()

	// Initialize profiling
	shutdownProfiling, err := profiling.InitProfiling()
	if err != nil {
		fatal("Failed to initialize profiling", err)
	}
	defer shutdownProfiling()

	collector := metrics.NewCollector(vehicleEvery, predictionEvery)

	var sink poller.Sink
	if *lokiURL != "" {
		sink = loki.NewClient(*lokiURL, *lokiUser, *lokiPassword)
		slog.Info("Pushing vehicles to Loki", "url", *lokiURL)
	}

	vehicles, err := poller.New(client, poller.Config{
		Interval:  vehicleEvery,
		Sink:      sink,
		Collector: collector,
	})
	if err != nil {
		fatal("Failed to create vehicle poller", err)
	}

	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := surface.NewStore(ctx, client, surface.StoreConfig{
		TTL: ttl,
		Session: surface.SessionConfig{
			Interval:  predictionEvery,
			Collector: collector,
		},
	})

	renderer, err := render.New(render.Options{
		MapImage:           *mapImage,
		PredictionInterval: predictionEvery,
	}, vehicleEvery)
	if err != nil {
		fatal("Failed to load templates", err)
	}

	serverConfig := server.Config{
		Addr:        *listen,
		MapEditable: *mapEditable,
		StaticDir:   *staticDir,
		CORSOrigins: splitList(*corsOrigins),
	}
	if *metricsAddr == "" {
		serverConfig.Collector = collector
	}
	deps := server.Deps{
		Store:    store,
		Vehicles: vehicles,
		Upstream: client,
		Renderer: renderer,
	}
	if *mapEditable {
		deps.Editor = editor.NewWorkspace(client, nil)
		if err := deps.Editor.SelectLine(ctx, "Red"); err != nil {
			slog.Warn("Editor could not load its first line", "error", err)
		}
	}
	srv, err := server.New(serverConfig, deps)
	if err != nil {
		fatal("Failed to create server", err)
	}

	if *metricsAddr != "" {
		metricsServer := collector.Serve(*metricsAddr)
		defer metricsServer.Close()
	}

	slog.Info("Starting live map",
		"listen", *listen,
		"vehicle_interval", vehicleEvery,
		"prediction_interval", predictionEvery,
		"map_editable", *mapEditable,
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		vehicles.Start(ctx)
		<-ctx.Done()
		vehicles.Stop()
		return nil
	})
	p.Go(func(ctx context.Context) error {
		store.Run(ctx, time.Minute)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		return srv.ListenAndServe(ctx)
	})

	if err := p.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		fatal("Live map stopped with error", err)
	}
	slog.Info("Live map shutdown complete")
}

// runDryRun polls once and prints each placed vehicle as a JSON line.
func runDryRun(client *mbta.Client) error {
	vehicles, err := poller.New(client, poller.Config{Interval: time.Second})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := vehicles.PollOnce(ctx); err != nil {
		return err
	}
	snap := vehicles.Snapshot()
	enc := json.NewEncoder(os.Stdout)
	for _, v := range snap.Vehicles {
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	slog.Info("Dry run complete", "placed", len(snap.Vehicles), "dropped", snap.Dropped)
	return nil
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func parsePositive(name, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", name, value)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnv returns the value of an environment variable or a default value if not set
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}
