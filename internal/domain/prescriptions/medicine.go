package prescriptions

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Medicine es un medicamento tal como lo devuelve el modelo.
// Todos los campos son opcionales; los defaults se aplican en resolve().
type Medicine struct {
	Name            OptString `json:"name"`
	Dose            OptString `json:"dose"`
	FrequencyPerDay OptInt    `json:"frequency_per_day"`
	DurationDays    OptInt    `json:"duration_days"`
	Timing          OptString `json:"timing"`
}

// Taking es una toma concreta con fecha y hora absolutas.
type Taking struct {
	Name        string    `json:"name" yaml:"name"`
	Start       time.Time `json:"start" yaml:"start"`
	Description string    `json:"description" yaml:"description"`
}

const (
	defaultMedicineName = "Unknown"
	defaultFrequency    = 1
	defaultDurationDays = 7

	// tope de días generados para salidas absurdas del modelo (p.ej. duration_days: 1e9).
	// La etiqueta "day k/D" conserva el D recibido.
	maxDurationDays = 3650
)

// dosage es un Medicine con todos los defaults resueltos.
type dosage struct {
	name         string
	dose         string
	frequency    int
	durationDays int
	timing       string
}

func (m Medicine) resolve() dosage {
	d := dosage{
		name:         m.Name.Or(defaultMedicineName),
		dose:         m.Dose.Or(""),
		frequency:    m.FrequencyPerDay.Or(defaultFrequency),
		durationDays: m.DurationDays.Or(defaultDurationDays),
		timing:       m.Timing.Or(""),
	}
	return d
}

// OptString es un string opcional. Decodifica sin error cualquier JSON:
// null => ausente; string => tal cual; número/bool => su texto; objeto/array => ausente.
type OptString struct {
	Value string
	Set   bool
}

func String(v string) OptString { return OptString{Value: v, Set: true} }

func (o OptString) Or(def string) string {
	if !o.Set {
		return def
	}
	return o.Value
}

func (o *OptString) UnmarshalJSON(b []byte) error {
	*o = OptString{}

	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			*o = String(s)
		}
	case 'n', '[', '{':
		// ausente
	default:
		// número o bool: el modelo a veces manda "dose": 500
		*o = String(string(b))
	}
	return nil
}

func (o OptString) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// OptInt es un entero opcional. Acepta números enteros (también 14.0)
// y strings numéricos ("2"). Cualquier otra cosa => ausente.
type OptInt struct {
	Value int
	Set   bool
}

func Int(v int) OptInt { return OptInt{Value: v, Set: true} }

func (o OptInt) Or(def int) int {
	if !o.Set {
		return def
	}
	return o.Value
}

func (o *OptInt) UnmarshalJSON(b []byte) error {
	*o = OptInt{}

	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}

	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	if n, err := strconv.Atoi(raw); err == nil {
		*o = Int(n)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return nil
	}
	// 2.5 veces por día no es un valor de la tabla: ausente, no truncado.
	if f != math.Trunc(f) {
		return nil
	}
	*o = Int(int(f))
	return nil
}

func (o OptInt) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
