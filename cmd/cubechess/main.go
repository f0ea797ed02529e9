package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaminalder/cubechess/internal/app"
	"github.com/jaminalder/cubechess/internal/config"
	"github.com/jaminalder/cubechess/internal/domain"
	"github.com/jaminalder/cubechess/internal/logx"
	"github.com/jaminalder/cubechess/internal/web"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a JSON/YAML/TOML config file")
		addr       = flag.String("addr", "", "listen address (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cubechess:", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	logger := logx.NewLogger(cfg.LogLevel)
	domain.SetLogger(logger)

	svc := app.NewService(app.Config{
		SideLength: cfg.Game.SideLength,
		Depth:      cfg.AI.Depth,
		Timeout:    cfg.AI.Timeout,
		Weights:    cfg.AI.Weights,
		Logger:     &logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// POST /games/{id}/ai may take up to the search timeout
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.NewServer(svc, logger.With().Str("component", "http").Logger()),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.AI.Timeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Uint32("side", cfg.Game.SideLength).
			Int("depth", cfg.AI.Depth).
			Msg("cubechess listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http server shutdown error")
	}
}
