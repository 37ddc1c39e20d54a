package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pill-reminder/internal/bootstrap"
	"pill-reminder/internal/platform/config"
	"pill-reminder/internal/router"

	"github.com/spf13/pflag"
)

// @title Pill Reminder API
// @version 1.0
// @description Receta (imagen) -> modelo de visión -> agenda de tomas.
// @BasePath /
func main() {
	configPath := pflag.String("config", "", "archivo de configuración (yaml); también CONFIG_FILE")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := bootstrap.Logger(cfg, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, cleanup, err := bootstrap.RouterOptions(ctx, cfg, log)
	if err != nil {
		log.Error("bootstrap failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer cleanup()

	r, err := router.NewRouter(opts)
	if err != nil {
		log.Error("router failed", map[string]any{"error": err})
		os.Exit(1)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		// sin WriteTimeout: el stream proxy mantiene respuestas abiertas
		IdleTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server error", map[string]any{"error": err})
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", map[string]any{"error": err})
	}
}
