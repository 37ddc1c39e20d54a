package reminders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pill-reminder/internal/platform/logger"
	"pill-reminder/internal/ports/calendar"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrMissingToken = errors.New("missing access token")
	ErrUnauthorized = errors.New("calendar rejected the access token")
	ErrCalendar     = errors.New("calendar error")
)

const (
	DefaultMarker    = "PILL_REMINDER"
	EventDuration    = 15 * time.Minute
	DefaultListLimit = 10
	maxExportPerCall = 500
	summaryPrefix    = "💊 "
)

type Options struct {
	// Marker se escribe en la descripción como "[MARKER] " para reconocer los eventos propios.
	Marker   string
	Location *time.Location
	Logger   logger.Logger
}

type Service struct {
	cal    calendar.Calendar
	marker string
	loc    *time.Location
	log    logger.Logger
	now    func() time.Time
}

func NewService(cal calendar.Calendar, opts Options) *Service {
	marker := strings.TrimSpace(opts.Marker)
	if marker == "" {
		marker = DefaultMarker
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		cal:    cal,
		marker: marker,
		loc:    loc,
		log:    log,
		now:    time.Now,
	}
}

// Tag es el prefijo que identifica los eventos creados por este servicio.
func (s *Service) Tag() string {
	return "[" + s.marker + "]"
}

// Export crea un evento de 15 minutos por toma, en orden. Si el calendario
// falla a mitad de camino devuelve lo creado hasta ese punto junto con el error.
func (s *Service) Export(ctx context.Context, accessToken string, items []Reminder) (ExportResult, error) {
	out := ExportResult{EventIDs: []string{}}

	if strings.TrimSpace(accessToken) == "" {
		return out, ErrMissingToken
	}
	if len(items) == 0 || len(items) > maxExportPerCall {
		return out, ErrInvalidInput
	}
	for _, it := range items {
		if it.Start.IsZero() {
			return out, ErrInvalidInput
		}
	}

	for i, it := range items {
		start := it.Start.In(s.loc)
		id, err := s.cal.Insert(ctx, accessToken, calendar.Event{
			Summary:     summaryPrefix + it.Name,
			Description: s.Tag() + " " + it.Description,
			Start:       start,
			End:         start.Add(EventDuration),
			TimeZone:    s.loc.String(),
		})
		if err != nil {
			s.log.Warn("calendar insert failed", map[string]any{
				"index":   i,
				"created": out.Created,
				"error":   err,
			})
			return out, s.wrap(err)
		}
		out.Created++
		out.EventIDs = append(out.EventIDs, id)
	}

	s.log.Info("reminders exported", map[string]any{"created": out.Created})
	return out, nil
}

// Upcoming lista los próximos recordatorios propios (filtrados por marcador).
func (s *Service) Upcoming(ctx context.Context, accessToken string, limit int) ([]Upcoming, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, ErrMissingToken
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	events, err := s.cal.ListUpcoming(ctx, accessToken, calendar.ListQuery{
		From:       s.now(),
		MaxResults: int64(limit),
		Contains:   s.Tag(),
	})
	if err != nil {
		return nil, s.wrap(err)
	}

	out := make([]Upcoming, 0, len(events))
	for _, ev := range events {
		out = append(out, Upcoming{
			ID:          ev.ID,
			Summary:     ev.Summary,
			Description: ev.Description,
			Start:       ev.Start,
			End:         ev.End,
		})
	}
	return out, nil
}

func (s *Service) wrap(err error) error {
	if errors.Is(err, calendar.ErrUnauthorized) {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return fmt.Errorf("%w: %v", ErrCalendar, err)
}
