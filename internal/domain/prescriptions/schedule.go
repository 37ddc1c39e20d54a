package prescriptions

import (
	"errors"
	"fmt"
	"time"
)

// HourTable mapea tomas por día -> horas del día (ascendentes) en que se toma.
type HourTable map[int][]int

// DefaultHourTable: 1x mañana; 2x mañana/noche; 3x con una a media tarde; 4x repartidas.
var DefaultHourTable = HourTable{
	1: {8},
	2: {8, 20},
	3: {8, 14, 20},
	4: {8, 12, 18, 22},
}

var ErrInvalidHourTable = errors.New("invalid hour table")

// Validate exige la entrada de 1x/día (es el fallback) y horas 0-23 estrictamente ascendentes.
func (t HourTable) Validate() error {
	if len(t[1]) == 0 {
		return fmt.Errorf("%w: frequency 1 is required", ErrInvalidHourTable)
	}
	for freq, hours := range t {
		if freq <= 0 {
			return fmt.Errorf("%w: frequency %d must be positive", ErrInvalidHourTable, freq)
		}
		if len(hours) == 0 {
			return fmt.Errorf("%w: frequency %d has no hours", ErrInvalidHourTable, freq)
		}
		for i, h := range hours {
			if h < 0 || h > 23 {
				return fmt.Errorf("%w: hour %d out of range", ErrInvalidHourTable, h)
			}
			if i > 0 && h <= hours[i-1] {
				return fmt.Errorf("%w: hours for frequency %d must be ascending", ErrInvalidHourTable, freq)
			}
		}
	}
	return nil
}

// HoursFor devuelve las horas para la frecuencia; desconocida => la de 1x/día.
func (t HourTable) HoursFor(frequency int) []int {
	if hours, ok := t[frequency]; ok && len(hours) > 0 {
		return hours
	}
	return t[1]
}

// Scheduler expande medicamentos en tomas.
type Scheduler struct {
	hours HourTable
	loc   *time.Location
}

// NewScheduler valida la tabla. hours nil => DefaultHourTable; loc nil => time.Local.
func NewScheduler(hours HourTable, loc *time.Location) (*Scheduler, error) {
	if hours == nil {
		hours = DefaultHourTable
	}
	if err := hours.Validate(); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{hours: hours, loc: loc}, nil
}

// GenerateSchedule usa la tabla por defecto y la zona horaria de today.
func GenerateSchedule(medicines []Medicine, today time.Time) []Taking {
	s := &Scheduler{hours: DefaultHourTable, loc: today.Location()}
	return s.Generate(medicines, today)
}

// Generate emite, por cada medicamento en orden de entrada, una toma por
// (día, hora). El día 1 es el día calendario de today. No se reordena entre
// medicamentos.
func (s *Scheduler) Generate(medicines []Medicine, today time.Time) []Taking {
	anchor := StartOfDay(today.In(s.loc))

	out := make([]Taking, 0)
	for _, m := range medicines {
		d := m.resolve()
		hours := s.hours.HoursFor(d.frequency)

		for day := 0; day < min(d.durationDays, maxDurationDays); day++ {
			for _, hour := range hours {
				out = append(out, Taking{
					Name:        fmt.Sprintf("%s %s, day %d/%d", d.name, d.dose, day+1, d.durationDays),
					Start:       time.Date(anchor.Year(), anchor.Month(), anchor.Day()+day, hour, 0, 0, 0, anchor.Location()),
					Description: describe(d),
				})
			}
		}
	}
	return out
}

func describe(d dosage) string {
	if d.timing != "" {
		return d.timing
	}
	return "Take " + d.dose
}

// StartOfDay trunca t a la medianoche de su propio día y zona.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
