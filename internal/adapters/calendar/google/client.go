// Package google implementa ports/calendar sobre Google Calendar v3 usando el
// access token OAuth del usuario (no hay credenciales de servicio).
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pill-reminder/internal/ports/calendar"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	DefaultCalendarID = "primary"
	DefaultTimeout    = 15 * time.Second

	// límite de páginas al completar MaxResults con eventos marcados
	maxListPages = 5
)

var (
	ErrUnauthorized = calendar.ErrUnauthorized
	ErrUpstream     = errors.New("calendar upstream error")
)

type Config struct {
	CalendarID string
	Timeout    time.Duration
	// Endpoint opcional (tests); vacío => googleapis.com.
	Endpoint string
}

type Client struct {
	calendarID string
	endpoint   string
	base       *http.Client
}

func NewClient(cfg Config) *Client {
	id := strings.TrimSpace(cfg.CalendarID)
	if id == "" {
		id = DefaultCalendarID
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		calendarID: id,
		endpoint:   strings.TrimSpace(cfg.Endpoint),
		base:       &http.Client{Timeout: timeout},
	}
}

// service arma un *gcal.Service por request: el token es del usuario que llama.
func (c *Client) service(ctx context.Context, accessToken string) (*gcal.Service, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, ErrUnauthorized
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.base)
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	opts := []option.ClientOption{option.WithHTTPClient(hc)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}

	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return svc, nil
}

func (c *Client) Insert(ctx context.Context, accessToken string, ev calendar.Event) (string, error) {
	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return "", err
	}

	created, err := svc.Events.Insert(c.calendarID, &gcal.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start:       eventDateTime(ev.Start, ev.TimeZone),
		End:         eventDateTime(ev.End, ev.TimeZone),
	}).Context(ctx).Do()
	if err != nil {
		return "", mapError(err)
	}
	return created.Id, nil
}

func (c *Client) ListUpcoming(ctx context.Context, accessToken string, q calendar.ListQuery) ([]calendar.Event, error) {
	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	call := svc.Events.List(c.calendarID).
		TimeMin(q.From.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")
	if q.Contains != "" {
		// búsqueda de texto libre del lado de Google; el filtro local la confirma
		call = call.Q(q.Contains)
	}
	if q.MaxResults > 0 {
		call = call.MaxResults(q.MaxResults)
	}

	out := make([]calendar.Event, 0)
	for page := 0; page < maxListPages; page++ {
		res, err := call.Context(ctx).Do()
		if err != nil {
			return nil, mapError(err)
		}

		for _, item := range res.Items {
			if item == nil {
				continue
			}
			if q.Contains != "" && !strings.Contains(item.Description, q.Contains) {
				continue
			}
			out = append(out, calendar.Event{
				ID:          item.Id,
				Summary:     item.Summary,
				Description: item.Description,
				Start:       parseEventTime(item.Start),
				End:         parseEventTime(item.End),
				TimeZone:    timeZoneOf(item.Start),
			})
			if q.MaxResults > 0 && int64(len(out)) >= q.MaxResults {
				return out, nil
			}
		}

		if res.NextPageToken == "" {
			break
		}
		call = call.PageToken(res.NextPageToken)
	}
	return out, nil
}

func eventDateTime(t time.Time, tz string) *gcal.EventDateTime {
	return &gcal.EventDateTime{
		DateTime: t.Format(time.RFC3339),
		TimeZone: tz,
	}
}

// parseEventTime acepta eventos con hora (DateTime) o de día completo (Date).
func parseEventTime(edt *gcal.EventDateTime) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t
		}
	}
	if edt.Date != "" {
		if t, err := time.Parse("2006-01-02", edt.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

func timeZoneOf(edt *gcal.EventDateTime) string {
	if edt == nil {
		return ""
	}
	return edt.TimeZone
}

func mapError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrUnauthorized, gerr.Message)
		}
		return fmt.Errorf("%w: status=%d %s", ErrUpstream, gerr.Code, gerr.Message)
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
