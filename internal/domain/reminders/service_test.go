package reminders

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"pill-reminder/internal/ports/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Fake calendar
// -------------------------

type fakeCalendar struct {
	inserted []calendar.Event
	tokens   []string
	failAt   int // 1-based; 0 => nunca
	err      error

	listed []calendar.Event
	query  calendar.ListQuery
}

func (f *fakeCalendar) Insert(_ context.Context, token string, ev calendar.Event) (string, error) {
	if f.failAt > 0 && len(f.inserted)+1 == f.failAt {
		return "", f.err
	}
	f.inserted = append(f.inserted, ev)
	f.tokens = append(f.tokens, token)
	return fmt.Sprintf("evt-%d", len(f.inserted)), nil
}

func (f *fakeCalendar) ListUpcoming(_ context.Context, _ string, q calendar.ListQuery) ([]calendar.Event, error) {
	f.query = q
	if f.err != nil && f.failAt == 0 {
		return nil, f.err
	}
	return f.listed, nil
}

var testNow = time.Date(2026, 3, 30, 15, 0, 0, 0, time.UTC)

func newTestService(cal *fakeCalendar) *Service {
	svc := NewService(cal, Options{Marker: "PILL_REMINDER", Location: time.UTC})
	svc.now = func() time.Time { return testNow }
	return svc
}

// -------------------------
// Tests
// -------------------------

func TestExport_CreatesFifteenMinuteEvents(t *testing.T) {
	cal := &fakeCalendar{}
	svc := newTestService(cal)

	start := time.Date(2026, 3, 31, 8, 0, 0, 0, time.UTC)
	res, err := svc.Export(context.Background(), "tok", []Reminder{
		{Name: "A 10mg, day 1/1", Start: start, Description: "after meals"},
		{Name: "B 5mg, day 1/1", Start: start.Add(12 * time.Hour), Description: "Take 5mg"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Created)
	assert.Equal(t, []string{"evt-1", "evt-2"}, res.EventIDs)

	require.Len(t, cal.inserted, 2)
	ev := cal.inserted[0]
	assert.Equal(t, "💊 A 10mg, day 1/1", ev.Summary)
	assert.Equal(t, "[PILL_REMINDER] after meals", ev.Description)
	assert.True(t, start.Equal(ev.Start))
	assert.Equal(t, 15*time.Minute, ev.End.Sub(ev.Start))
	assert.Equal(t, "UTC", ev.TimeZone)
	assert.Equal(t, []string{"tok", "tok"}, cal.tokens)
}

func TestExport_Validation(t *testing.T) {
	cal := &fakeCalendar{}
	svc := newTestService(cal)

	_, err := svc.Export(context.Background(), "", []Reminder{{Name: "A", Start: testNow}})
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = svc.Export(context.Background(), "tok", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Export(context.Background(), "tok", []Reminder{{Name: "A"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, cal.inserted)
}

func TestExport_PartialFailureReportsCreated(t *testing.T) {
	cal := &fakeCalendar{failAt: 2, err: errors.New("backend error")}
	svc := newTestService(cal)

	res, err := svc.Export(context.Background(), "tok", []Reminder{
		{Name: "A", Start: testNow},
		{Name: "B", Start: testNow},
		{Name: "C", Start: testNow},
	})

	assert.ErrorIs(t, err, ErrCalendar)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, []string{"evt-1"}, res.EventIDs)
}

func TestExport_UnauthorizedIsDistinguished(t *testing.T) {
	cal := &fakeCalendar{failAt: 1, err: fmt.Errorf("%w: expired", calendar.ErrUnauthorized)}
	svc := newTestService(cal)

	_, err := svc.Export(context.Background(), "tok", []Reminder{{Name: "A", Start: testNow}})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUpcoming_FiltersByTagFromNow(t *testing.T) {
	cal := &fakeCalendar{listed: []calendar.Event{
		{ID: "1", Summary: "💊 A", Description: "[PILL_REMINDER] x", Start: testNow.Add(time.Hour)},
	}}
	svc := newTestService(cal)

	got, err := svc.Upcoming(context.Background(), "tok", 0)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "[PILL_REMINDER]", cal.query.Contains)
	assert.Equal(t, int64(DefaultListLimit), cal.query.MaxResults)
	assert.True(t, testNow.Equal(cal.query.From))
}

func TestUpcoming_Errors(t *testing.T) {
	svc := newTestService(&fakeCalendar{})
	_, err := svc.Upcoming(context.Background(), " ", 5)
	assert.ErrorIs(t, err, ErrMissingToken)

	svc = newTestService(&fakeCalendar{err: errors.New("boom")})
	_, err = svc.Upcoming(context.Background(), "tok", 5)
	assert.ErrorIs(t, err, ErrCalendar)
}
