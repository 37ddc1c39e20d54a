package calendar

import (
	"context"
	"errors"
	"time"
)

// ErrUnauthorized: el token del usuario fue rechazado (vencido, sin scope).
var ErrUnauthorized = errors.New("calendar unauthorized")

// Event es un evento de calendario creado para un recordatorio.
type Event struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
}

// ListQuery filtra eventos futuros.
type ListQuery struct {
	From       time.Time
	MaxResults int64
	// Contains: solo eventos cuya descripción contenga este texto.
	Contains string
}

// Calendar crea y lista eventos en el calendario del usuario dueño del token.
// Los adapters envuelven ErrUnauthorized cuando el proveedor rechaza el token.
type Calendar interface {
	Insert(ctx context.Context, accessToken string, ev Event) (string, error)
	ListUpcoming(ctx context.Context, accessToken string, q ListQuery) ([]Event, error)
}
