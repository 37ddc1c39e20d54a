package prescriptions

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2026, 3, 30, 15, 42, 10, 0, time.UTC)

func TestGenerateSchedule_TwicePerDayForThreeDays(t *testing.T) {
	takings := GenerateSchedule([]Medicine{{
		Name:            String("X"),
		Dose:            String("10mg"),
		FrequencyPerDay: Int(2),
		DurationDays:    Int(3),
	}}, testToday)

	require.Len(t, takings, 6)

	want := []time.Time{
		time.Date(2026, 3, 30, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 30, 20, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 20, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 1, 20, 0, 0, 0, time.UTC),
	}
	for i, tk := range takings {
		assert.True(t, want[i].Equal(tk.Start), "taking %d: want %s got %s", i, want[i], tk.Start)
	}

	assert.Equal(t, "X 10mg, day 1/3", takings[0].Name)
	assert.Equal(t, "X 10mg, day 3/3", takings[5].Name)
	assert.Equal(t, "Take 10mg", takings[0].Description)
}

func TestGenerateSchedule_AllDefaults(t *testing.T) {
	takings := GenerateSchedule([]Medicine{{}}, testToday)

	require.Len(t, takings, 7)
	for i, tk := range takings {
		assert.Equal(t, 8, tk.Start.Hour())
		assert.Equal(t, 0, tk.Start.Minute())
		assert.True(t, strings.HasPrefix(tk.Name, "Unknown"))
		assert.Contains(t, tk.Name, "day "+strconv.Itoa(i+1)+"/7")
		assert.Equal(t, "Take ", tk.Description)
	}
}

func TestGenerateSchedule_ZeroAndNegativeDuration(t *testing.T) {
	assert.Empty(t, GenerateSchedule([]Medicine{{Name: String("A"), DurationDays: Int(0)}}, testToday))
	assert.Empty(t, GenerateSchedule([]Medicine{{Name: String("A"), DurationDays: Int(-3)}}, testToday))
}

func TestGenerateSchedule_UnknownFrequencyFallsBackToOnce(t *testing.T) {
	five := GenerateSchedule([]Medicine{{Name: String("A"), FrequencyPerDay: Int(5), DurationDays: Int(4)}}, testToday)
	once := GenerateSchedule([]Medicine{{Name: String("A"), FrequencyPerDay: Int(1), DurationDays: Int(4)}}, testToday)

	assert.Equal(t, once, five)
	require.Len(t, five, 4)
	for _, tk := range five {
		assert.Equal(t, 8, tk.Start.Hour())
	}

	zero := GenerateSchedule([]Medicine{{Name: String("A"), FrequencyPerDay: Int(0), DurationDays: Int(4)}}, testToday)
	assert.Equal(t, once, zero)
}

func TestGenerateSchedule_FourTimesHours(t *testing.T) {
	takings := GenerateSchedule([]Medicine{{FrequencyPerDay: Int(4), DurationDays: Int(1)}}, testToday)

	require.Len(t, takings, 4)
	hours := []int{takings[0].Start.Hour(), takings[1].Start.Hour(), takings[2].Start.Hour(), takings[3].Start.Hour()}
	assert.Equal(t, []int{8, 12, 18, 22}, hours)
}

func TestGenerateSchedule_KeepsInputOrderAcrossMedicines(t *testing.T) {
	takings := GenerateSchedule([]Medicine{
		{Name: String("B"), FrequencyPerDay: Int(1), DurationDays: Int(2)},
		{Name: String("A"), FrequencyPerDay: Int(3), DurationDays: Int(1), Timing: String("after meals")},
	}, testToday)

	require.Len(t, takings, 5)
	assert.True(t, strings.HasPrefix(takings[0].Name, "B "))
	assert.True(t, strings.HasPrefix(takings[1].Name, "B "))
	// la segunda medicina empieza de nuevo en el día 1 aunque sea anterior cronológicamente
	assert.True(t, strings.HasPrefix(takings[2].Name, "A "))
	assert.True(t, takings[2].Start.Before(takings[1].Start))
	assert.Equal(t, "after meals", takings[2].Description)
}

func TestGenerateSchedule_EmptyInput(t *testing.T) {
	takings := GenerateSchedule(nil, testToday)
	assert.NotNil(t, takings)
	assert.Empty(t, takings)

	b, err := json.Marshal(takings)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestGenerateSchedule_FrequencyTimesDuration(t *testing.T) {
	for freq := 1; freq <= 4; freq++ {
		for days := 1; days <= 10; days++ {
			got := GenerateSchedule([]Medicine{{FrequencyPerDay: Int(freq), DurationDays: Int(days)}}, testToday)
			assert.Len(t, got, freq*days, "freq=%d days=%d", freq, days)
		}
	}
}

func TestScheduler_AnchorsInConfiguredLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	s, err := NewScheduler(nil, tokyo)
	require.NoError(t, err)

	// 2026-03-30 20:00 UTC ya es 31/03 en Tokio
	takings := s.Generate([]Medicine{{DurationDays: Int(1)}}, time.Date(2026, 3, 30, 20, 0, 0, 0, time.UTC))

	require.Len(t, takings, 1)
	assert.True(t, time.Date(2026, 3, 31, 8, 0, 0, 0, tokyo).Equal(takings[0].Start))
	assert.Equal(t, tokyo, takings[0].Start.Location())
}

func TestScheduler_DSTKeepsWallClockHours(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	s, err := NewScheduler(nil, ny)
	require.NoError(t, err)

	// cambio de hora en NY: 2026-03-08
	takings := s.Generate([]Medicine{{FrequencyPerDay: Int(2), DurationDays: Int(3)}},
		time.Date(2026, 3, 7, 12, 0, 0, 0, ny))

	require.Len(t, takings, 6)
	for _, tk := range takings {
		assert.Contains(t, []int{8, 20}, tk.Start.Hour())
	}
	assert.Equal(t, 9, takings[5].Start.Day())
}

func TestScheduler_CustomTable(t *testing.T) {
	s, err := NewScheduler(HourTable{1: {9}, 2: {7, 19}}, time.UTC)
	require.NoError(t, err)

	takings := s.Generate([]Medicine{{FrequencyPerDay: Int(3), DurationDays: Int(1)}}, testToday)
	require.Len(t, takings, 1)
	assert.Equal(t, 9, takings[0].Start.Hour())
}

func TestHourTable_Validate(t *testing.T) {
	assert.NoError(t, DefaultHourTable.Validate())
	assert.ErrorIs(t, HourTable{2: {8, 20}}.Validate(), ErrInvalidHourTable)
	assert.ErrorIs(t, HourTable{1: {25}}.Validate(), ErrInvalidHourTable)
	assert.ErrorIs(t, HourTable{1: {8}, 2: {20, 8}}.Validate(), ErrInvalidHourTable)
	assert.ErrorIs(t, HourTable{1: {8}, -1: {9}}.Validate(), ErrInvalidHourTable)

	_, err := NewScheduler(HourTable{1: {}}, nil)
	assert.ErrorIs(t, err, ErrInvalidHourTable)
}

func TestGenerateSchedule_ClampsAbsurdDuration(t *testing.T) {
	got := GenerateSchedule([]Medicine{{DurationDays: Int(1_000_000)}}, testToday)
	assert.Len(t, got, maxDurationDays)
}

func TestGenerateSchedule_ClampedLabelKeepsReceivedDuration(t *testing.T) {
	got := GenerateSchedule([]Medicine{{Name: String("A"), Dose: String("1mg"), DurationDays: Int(4000)}}, testToday)

	require.Len(t, got, maxDurationDays)
	assert.Equal(t, "A 1mg, day 1/4000", got[0].Name)
	assert.Equal(t, "A 1mg, day 3650/4000", got[len(got)-1].Name)
}
