package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pill-reminder/internal/domain/prescriptions"
)

// currentSlot es la única fila que se usa: sólo hay una imagen actual.
const currentSlot = "current"

const createImagesTable = `
	CREATE TABLE IF NOT EXISTS prescription_images (
		slot        TEXT PRIMARY KEY,
		id          TEXT NOT NULL,
		filename    TEXT NOT NULL,
		media_type  TEXT NOT NULL,
		data        BYTEA NOT NULL,
		uploaded_at TIMESTAMPTZ NOT NULL
	)
`

type ImagesRepo struct {
	db *sql.DB
}

func NewImagesRepo(db *sql.DB) *ImagesRepo {
	return &ImagesRepo{db: db}
}

// EnsureSchema crea la tabla si no existe.
func (r *ImagesRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, createImagesTable)
	return err
}

func (r *ImagesRepo) SaveCurrent(ctx context.Context, img prescriptions.StoredImage) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO prescription_images (
			slot, id, filename, media_type, data, uploaded_at
		) VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (slot) DO UPDATE SET
			id = EXCLUDED.id,
			filename = EXCLUDED.filename,
			media_type = EXCLUDED.media_type,
			data = EXCLUDED.data,
			uploaded_at = EXCLUDED.uploaded_at
	`,
		currentSlot,
		img.ID,
		img.Filename,
		img.MediaType,
		img.Data,
		img.UploadedAt.UTC(),
	)
	return err
}

func (r *ImagesRepo) GetCurrent(ctx context.Context) (prescriptions.StoredImage, error) {
	var img prescriptions.StoredImage
	err := r.db.QueryRowContext(ctx, `
		SELECT id, filename, media_type, data, uploaded_at
		FROM prescription_images
		WHERE slot = $1
	`, currentSlot).Scan(
		&img.ID,
		&img.Filename,
		&img.MediaType,
		&img.Data,
		&img.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return prescriptions.StoredImage{}, prescriptions.ErrImageNotFound
		}
		return prescriptions.StoredImage{}, err
	}
	return img, nil
}
