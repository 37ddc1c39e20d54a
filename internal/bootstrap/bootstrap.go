// Package bootstrap arma las dependencias concretas a partir de config.Config.
// Lo usan cmd/api y cmd/pillctl.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	gcal "pill-reminder/internal/adapters/calendar/google"
	"pill-reminder/internal/adapters/inference/gemini"
	"pill-reminder/internal/adapters/inference/openai"
	pg "pill-reminder/internal/adapters/storage/postgres"
	"pill-reminder/internal/domain/prescriptions"
	"pill-reminder/internal/platform/config"
	"pill-reminder/internal/platform/httpclient"
	"pill-reminder/internal/platform/logger"
	"pill-reminder/internal/ports/inference"
	"pill-reminder/internal/router"
)

func Logger(cfg config.Config, out io.Writer) logger.Logger {
	if out == nil {
		out = os.Stdout
	}
	return logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.App.Name,
		Out:    out,
	})
}

// Completer devuelve nil (sin error) si no hay API key: el servicio arranca
// igual y las extracciones devuelven el motivo en el body.
func Completer(ctx context.Context, cfg config.Config, log logger.Logger) (inference.Completer, error) {
	ic := cfg.Inference
	if ic.APIKey == "" {
		log.Warn("inference api key not set; recognition disabled", map[string]any{"provider": ic.Provider})
		return nil, nil
	}

	switch ic.Provider {
	case config.ProviderGemini:
		c, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:    ic.APIKey,
			Model:     ic.Model,
			MaxTokens: ic.MaxTokens,
			Timeout:   ic.Timeout,
			BaseURL:   ic.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		c, err := openai.NewClient(openai.Config{
			BaseURL:   ic.BaseURL,
			APIKey:    ic.APIKey,
			Model:     ic.Model,
			MaxTokens: ic.MaxTokens,
			Timeout:   ic.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// OpenDB abre Postgres y crea la tabla de imágenes. DSN vacío => (nil, nil).
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, nil
	}
	db, err := pg.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pg.NewImagesRepo(db).EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

// Scheduler arma el scheduler con la tabla de horas y zona horaria configuradas.
func Scheduler(cfg config.Config) (*prescriptions.Scheduler, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	hours, err := cfg.HourTable()
	if err != nil {
		return nil, err
	}
	return prescriptions.NewScheduler(hours, loc)
}

// RouterOptions devuelve también un cleanup para cerrar la DB.
func RouterOptions(ctx context.Context, cfg config.Config, log logger.Logger) (router.Options, func(), error) {
	cleanup := func() {}

	loc, err := cfg.Location()
	if err != nil {
		return router.Options{}, cleanup, err
	}
	hours, err := cfg.HourTable()
	if err != nil {
		return router.Options{}, cleanup, err
	}

	completer, err := Completer(ctx, cfg, log)
	if err != nil {
		return router.Options{}, cleanup, err
	}

	db, err := OpenDB(ctx, cfg.DB.DSN)
	if err != nil {
		return router.Options{}, cleanup, err
	}
	if db != nil {
		cleanup = func() { _ = db.Close() }
		log.Info("image storage: postgres", nil)
	} else if cfg.Image.Dir != "" {
		log.Info("image storage: filesystem", map[string]any{"dir": cfg.Image.Dir})
	} else {
		log.Info("image storage: memory", nil)
	}

	proxyTimeout := cfg.Proxy.Timeout
	if proxyTimeout <= 0 {
		proxyTimeout = -1
	}

	return router.Options{
		Logger:         log,
		DB:             db,
		ImageDir:       cfg.Image.Dir,
		Completer:      completer,
		Calendar:       gcal.NewClient(gcal.Config{CalendarID: cfg.Calendar.ID}),
		CalendarMarker: cfg.Calendar.Marker,
		HourTable:      hours,
		Location:       loc,
		MaxImageBytes:  cfg.Upload.MaxBytes,
		CORSOrigins:    cfg.CORS.AllowedOrigins,
		ProxyClient:    httpclient.New(proxyTimeout),
	}, cleanup, nil
}
