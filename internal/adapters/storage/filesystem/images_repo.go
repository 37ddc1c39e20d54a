// Package filesystem guarda la imagen actual en disco para que sobreviva reinicios sin base de datos.
package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"pill-reminder/internal/domain/prescriptions"
)

const (
	dataFile = "current.img"
	metaFile = "current.json"
)

type meta struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	MediaType  string    `json:"media_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type ImagesRepo struct {
	mu  sync.RWMutex
	dir string
}

// NewImagesRepo crea el directorio si no existe.
func NewImagesRepo(dir string) (*ImagesRepo, error) {
	if dir == "" {
		return nil, errors.New("image dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &ImagesRepo{dir: dir}, nil
}

func (r *ImagesRepo) SaveCurrent(ctx context.Context, img prescriptions.StoredImage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b, err := json.Marshal(meta{
		ID:         img.ID,
		Filename:   img.Filename,
		MediaType:  img.MediaType,
		UploadedAt: img.UploadedAt,
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// datos primero, metadata al final: la metadata marca la imagen como completa
	if err := writeAtomic(filepath.Join(r.dir, dataFile), img.Data); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(r.dir, metaFile), b)
}

func (r *ImagesRepo) GetCurrent(ctx context.Context) (prescriptions.StoredImage, error) {
	if err := ctx.Err(); err != nil {
		return prescriptions.StoredImage{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	b, err := os.ReadFile(filepath.Join(r.dir, metaFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return prescriptions.StoredImage{}, prescriptions.ErrImageNotFound
		}
		return prescriptions.StoredImage{}, err
	}

	var m meta
	if err := json.Unmarshal(b, &m); err != nil {
		return prescriptions.StoredImage{}, fmt.Errorf("corrupt image metadata: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(r.dir, dataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return prescriptions.StoredImage{}, prescriptions.ErrImageNotFound
		}
		return prescriptions.StoredImage{}, err
	}

	return prescriptions.StoredImage{
		ID:         m.ID,
		Filename:   m.Filename,
		MediaType:  m.MediaType,
		Data:       data,
		UploadedAt: m.UploadedAt,
	}, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
