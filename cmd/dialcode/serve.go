package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/dialcode/internal/cli"
	httpAdapter "github.com/aretw0/dialcode/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gateway HTTP server",
	Long: `Starts the dialog engine behind the gateway HTTP API (POST /ussd).
Also serves /health, /info, /openapi.yaml, /events (SSE) and, when enabled, /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := mustLoadConfig(cmd)
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		streams := httpAdapter.NewStreamManager()
		stack, err := cli.BuildEngine(cmd.Context(), cfg, logger, streams.Hooks())
		if err != nil {
			fmt.Printf("Error initializing dialcode: %v\n", err)
			os.Exit(1)
		}
		defer stack.Close()

		handlerOpts := []httpAdapter.Option{
			httpAdapter.WithStreams(streams),
			httpAdapter.WithLogger(logger),
		}
		if stack.Registry != nil {
			handlerOpts = append(handlerOpts, httpAdapter.WithMetricsHandler(
				promhttp.HandlerFor(stack.Registry, promhttp.HandlerOpts{}),
			))
		}
		handler, err := httpAdapter.NewHandler(stack.Engine, handlerOpts...)
		if err != nil {
			fmt.Printf("Error initializing HTTP handler: %v\n", err)
			os.Exit(1)
		}

		srv := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Starting dialcode server", "addr", srv.Addr, "store", cfg.Store.Driver)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("Start shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", cfg.Server.ShutdownTimeout, "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("Error killing server", "err", err)
				}
			}
			logger.Info("dialcode server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (overrides server.addr)")
}
