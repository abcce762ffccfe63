package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/juan-carlos-trimino/mem-gateway/pkg/audit"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/cli"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/config"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/gateway/handlers"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/gateway/middleware"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/gateway/ready"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/gateway/upstream"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/render"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/server"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/telemetry/logging"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/telemetry/metrics"
)

// startupProbeTimeout bounds the first readiness probe after the
// listener is bound.
const startupProbeTimeout = 10 * time.Second

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gateway",
	Long: `Start the gateway with the specified configuration.

The gateway listens on the configured address, serves the application
pages, and forwards traffic to the metadata, history, upload, and
streaming services.

Examples:
  # Start with default config
  gateway run

  # Start with custom config
  gateway run --config /etc/gateway/config.yaml

  # Override listen address
  gateway run --listen 0.0.0.0:3000

  # Validate config without starting
  gateway run --dry-run`,
	RunE: runGateway,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the gateway")
}

func runGateway(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	if _, err := logging.Setup(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}); err != nil {
		return cli.NewConfigError("logging", err.Error())
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	printBanner(cfg)

	// Metrics
	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics.Namespace)
		fmt.Println("✓ Metrics collector initialized")
	}

	// Audit trail
	var recorder *audit.Recorder
	if cfg.Audit.Enabled {
		store, err := audit.NewSQLiteStore(cfg.Audit.SQLite)
		if err != nil {
			return fmt.Errorf("failed to open audit store: %w", err)
		}
		defer store.Close()

		recorder = audit.NewRecorder(store)
		defer recorder.Close()

		if cfg.Audit.Retention.PruneSchedule != "" {
			pruner := audit.NewPruner(store, cfg.Audit.Retention)
			if err := pruner.Start(context.Background()); err != nil {
				slog.Warn("failed to start audit retention pruner", "error", err)
			} else {
				defer pruner.Stop()
				if next := pruner.NextPruning(); next != nil {
					slog.Debug("audit retention pruner started", "next_pruning", next)
				}
			}
		}

		fmt.Println("✓ Audit store initialized")
	}

	// Upstream clients and readiness tracker
	client := upstream.NewClient(cfg.Upstreams)
	streamClient := upstream.NewStreamClient(cfg.Upstreams)
	tracker := ready.NewTracker(client, upstream.TargetsFromConfig(cfg.Upstreams).Metadata)

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("failed to load page templates: %w", err)
	}

	gw := &handlers.Gateway{
		Client: client,
		Stream: streamClient,
		Targets: func() upstream.Targets {
			return upstream.TargetsFromConfig(config.MustGetConfig().Upstreams)
		},
		Renderer: renderer,
		Tracker:  tracker,
		Metrics:  collector,
		Audit:    recorder,
	}

	srv := server.NewServer(cfg.Server, cfg.Metrics, gw)
	srv.OnListen = func() {
		tracker.MarkReady()
		// Refine the listen-time state with a real probe.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), startupProbeTimeout)
			defer cancel()
			ok := tracker.Probe(ctx, middleware.NewCorrelationID())
			if collector != nil {
				collector.SetUpstreamReady(ok)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Config hot-reload
	if cfg.WatchConfig {
		watcher := config.NewWatcher(cfgFile, slog.Default())
		defer watcher.Stop()
		go func() {
			if err := watcher.Watch(ctx, func() error {
				return config.ReloadConfig(cfgFile)
			}); err != nil {
				slog.Warn("config watcher stopped", "error", err)
			}
		}()
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	fmt.Println()
	fmt.Printf("✓ Gateway listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Readiness endpoint: http://%s/readiness\n", cfg.Server.ListenAddress)
	if cfg.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	sigChan := cli.WaitForShutdown()

	select {
	case err := <-errChan:
		return cli.NewCommandError("run", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal %s, shutting down gracefully...\n", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
			return cli.NewCommandError("run", err)
		}

		fmt.Println("✓ Gateway stopped")
		return nil
	}
}

func printBanner(cfg *config.Config) {
	fmt.Printf("Gateway v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	slog.Debug("upstreams configured",
		"metadata", cfg.Upstreams.Metadata.Host,
		"history", cfg.Upstreams.History.Host,
		"upload", cfg.Upstreams.Upload.Host,
		"streaming", cfg.Upstreams.Streaming.Host,
		"retries", cfg.Upstreams.Retries,
	)

	if cfg.Audit.Enabled {
		slog.Debug("audit enabled", "path", cfg.Audit.SQLite.Path)
	}
	if cfg.WatchConfig {
		slog.Debug("config hot-reload enabled")
	}
}
