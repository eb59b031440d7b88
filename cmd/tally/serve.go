package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/internal/cli"
	"github.com/aretw0/tally/internal/config"
	"github.com/aretw0/tally/internal/healthcheck"
	httpAdapter "github.com/aretw0/tally/pkg/adapters/http"
	"github.com/aretw0/tally/pkg/observability"
	"github.com/aretw0/tally/pkg/persistence/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the calculator as a JSON API over HTTP.

Sessions live in the selected store, so several server instances can share
a redis store. Display diffs are streamed on GET /events?session_id=<id>
and Prometheus metrics are exposed on GET /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		debug, _ := cmd.Flags().GetBool("debug")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := cli.CreateLogger(cfg, debug)

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			return err
		}

		hooks := metrics.Hooks()
		if debug || cfg.Verbose() {
			hooks = observability.CombineHooks(hooks, cli.DebugHooks(logger))
		}
		engine := tally.New(tally.WithLogger(logger), tally.WithLifecycleHooks(hooks))

		storeMetrics, err := middleware.NewMetricsMiddleware(reg)
		if err != nil {
			return err
		}
		store := storeOptions(cmd, cfg)
		store.Middlewares = append(store.Middlewares, storeMetrics)

		sessions, closeStore, err := cli.OpenSessions(sigCtx, store, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		srv := &http.Server{
			Addr: ":" + port,
			Handler: httpAdapter.NewHandler(engine, sessions,
				httpAdapter.WithLogger(logger),
				httpAdapter.WithMetrics(reg),
			),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			fmt.Fprintf(cmd.OutOrStdout(), "Starting Tally Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()
		healthcheck.New(logger, cfg.Verbose(), cfg.HealthcheckPath).Ready()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-sigCtx.Done():
			fmt.Fprintf(cmd.OutOrStdout(), "\nStart shutdown... Signal: %v\n", sigCtx.Signal())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("Graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Tally Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
