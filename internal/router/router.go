package router

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	gcal "pill-reminder/internal/adapters/calendar/google"
	fsstore "pill-reminder/internal/adapters/storage/filesystem"
	mem "pill-reminder/internal/adapters/storage/memory"
	pg "pill-reminder/internal/adapters/storage/postgres"
	_ "pill-reminder/internal/docs"
	"pill-reminder/internal/domain/prescriptions"
	"pill-reminder/internal/domain/reminders"
	"pill-reminder/internal/domain/streamproxy"
	"pill-reminder/internal/middleware"
	"pill-reminder/internal/platform/httpclient"
	"pill-reminder/internal/platform/logger"
	"pill-reminder/internal/ports/calendar"
	"pill-reminder/internal/ports/inference"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Logger logger.Logger

	// Storage de la imagen actual, en orden de prioridad:
	// Images explícito > DB (Postgres) > ImageDir (disco) > memoria.
	Images   prescriptions.ImageRepository
	DB       *sql.DB
	ImageDir string

	// Completer nil => /api/recognize y /api/extract devuelven el error en el body.
	Completer inference.Completer

	// Calendar nil => Google Calendar con el token del usuario.
	Calendar       calendar.Calendar
	CalendarMarker string

	HourTable     prescriptions.HourTable // nil => tabla por defecto
	Location      *time.Location          // nil => time.Local
	MaxImageBytes int64

	CORSOrigins []string

	// ProxyClient nil => cliente sin timeout (streams largos).
	ProxyClient *httpclient.Client
}

func NewRouter(opts Options) (http.Handler, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(corsOptions(opts.CORSOrigins)))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	images, err := imageRepo(opts)
	if err != nil {
		return nil, err
	}

	scheduler, err := prescriptions.NewScheduler(opts.HourTable, opts.Location)
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}

	cal := opts.Calendar
	if cal == nil {
		cal = gcal.NewClient(gcal.Config{})
	}

	// Services por módulo
	prescriptionsSvc := prescriptions.NewService(
		images,
		prescriptions.NewInterpreter(opts.Completer, log.With(map[string]any{"component": "interpreter"})),
		scheduler,
		prescriptions.ServiceOptions{Logger: log, MaxImageBytes: opts.MaxImageBytes},
	)
	remindersSvc := reminders.NewService(cal, reminders.Options{
		Marker:   opts.CalendarMarker,
		Location: opts.Location,
		Logger:   log.With(map[string]any{"component": "reminders"}),
	})
	proxy := streamproxy.NewProxy(opts.ProxyClient, log.With(map[string]any{"component": "stream-proxy"}))

	// Rutas por módulo
	prescriptions.RegisterRoutes(r, prescriptionsSvc)
	reminders.RegisterRoutes(r, remindersSvc)
	streamproxy.RegisterRoutes(r, proxy)

	return r, nil
}

func imageRepo(opts Options) (prescriptions.ImageRepository, error) {
	switch {
	case opts.Images != nil:
		return opts.Images, nil
	case opts.DB != nil:
		return pg.NewImagesRepo(opts.DB), nil
	case opts.ImageDir != "":
		repo, err := fsstore.NewImagesRepo(opts.ImageDir)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return mem.NewImageRepo(), nil
	}
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}
}
