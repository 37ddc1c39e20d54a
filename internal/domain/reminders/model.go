package reminders

import "time"

// Reminder es una toma a exportar. Mismo shape JSON que las tomas de /api/schedule
// para que el cliente pueda reenviar la respuesta tal cual.
type Reminder struct {
	Name        string    `json:"name"`
	Start       time.Time `json:"start"`
	Description string    `json:"description"`
}

// ExportResult resume la exportación.
type ExportResult struct {
	Created  int      `json:"created"`
	EventIDs []string `json:"event_ids"`
}

// Upcoming es un recordatorio ya presente en el calendario.
type Upcoming struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}
