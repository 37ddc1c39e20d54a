package prescriptions

import (
	"context"
	"errors"
	"time"
)

var ErrImageNotFound = errors.New("image not found")

// StoredImage es la imagen "actual" subida por el cliente.
type StoredImage struct {
	ID         string
	Filename   string
	MediaType  string
	Data       []byte
	UploadedAt time.Time
}

// ImageRepository guarda una única imagen actual (la última subida).
// GetCurrent devuelve ErrImageNotFound si todavía no hay ninguna.
type ImageRepository interface {
	SaveCurrent(ctx context.Context, img StoredImage) error
	GetCurrent(ctx context.Context) (StoredImage, error)
}
