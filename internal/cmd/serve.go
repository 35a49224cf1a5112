package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roarinpenguin/jarvis-coding-sub000/internal/middleware"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/server"
	"github.com/roarinpenguin/jarvis-coding-sub000/pkg/tokens"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the campaign control API",
	Long: `Start the HTTP control plane exposing campaign execution, status,
stop, and results endpoints, plus /healthz and Prometheus /metrics.

When server.auth_secret is configured, /api/v1 routes require a bearer
token minted with 'jarvis token'.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	application, err := buildApp(cfg, 0)
	if err != nil {
		return err
	}

	var generatorAuth *tokens.TokenGenerator
	if cfg.Server.AuthSecret != "" {
		generatorAuth = tokens.NewTokenGenerator(cfg.Server.AuthSecret, 0)
	} else {
		slog.Warn("server.auth_secret not set; control API is unauthenticated")
	}

	var limiter middleware.RateLimiter = middleware.NoOpRateLimiter{}
	if cfg.Server.RateLimitEnabled {
		limiter = middleware.NewWindowRateLimiter(cfg.Server.RateLimitRequests, cfg.Server.RateLimitWindow)
	}

	handler := server.NewHandler(application.store, application.library, application.registry, application.logger.Logger)
	router := server.NewRouter(handler, middleware.NewAuthMiddleware(generatorAuth), limiter)

	port := cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("control API listening", slog.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		slog.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
