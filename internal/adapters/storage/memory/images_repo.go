package memory

import (
	"context"
	"sync"

	"pill-reminder/internal/domain/prescriptions"
)

type imageRepo struct {
	mu      sync.RWMutex
	current *prescriptions.StoredImage
}

func NewImageRepo() prescriptions.ImageRepository {
	return &imageRepo{}
}

func (r *imageRepo) SaveCurrent(ctx context.Context, img prescriptions.StoredImage) error {
	img.Data = append([]byte(nil), img.Data...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = &img
	return nil
}

func (r *imageRepo) GetCurrent(ctx context.Context) (prescriptions.StoredImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.current == nil {
		return prescriptions.StoredImage{}, prescriptions.ErrImageNotFound
	}
	out := *r.current
	out.Data = append([]byte(nil), r.current.Data...)
	return out, nil
}
