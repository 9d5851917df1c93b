package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redirusmana/bakery-shop-web/internal/mockapi"
	pkgconfig "github.com/redirusmana/bakery-shop-web/pkg/config"
	"github.com/redirusmana/bakery-shop-web/pkg/logger"
)

type config struct {
	LogLevel  string  `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort  int     `env:"MOCKAPI_HTTP_PORT" envDefault:"8080"`
	JWTSecret string  `env:"MOCKAPI_JWT_SECRET" envDefault:"union-bakery-dev-secret"`
	RateLimit float64 `env:"MOCKAPI_RATE_LIMIT" envDefault:"0"`
	RateBurst int     `env:"MOCKAPI_RATE_BURST" envDefault:"5"`
}

func main() {
	// Load configuration from environment variables.
	var cfg config
	if err := pkgconfig.Load(&cfg); err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger.
	log := logger.New("mockapi", cfg.LogLevel)
	log.Info("starting mock commerce backend",
		slog.Int("http_port", cfg.HTTPPort),
		slog.Float64("rate_limit", cfg.RateLimit),
	)

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: mockapi.New(mockapi.Config{
			JWTSecret: cfg.JWTSecret,
			RateLimit: cfg.RateLimit,
			RateBurst: cfg.RateBurst,
		}, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Shut down cleanly on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("mock commerce backend stopped")
}
