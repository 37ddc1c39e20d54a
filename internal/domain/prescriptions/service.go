package prescriptions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"pill-reminder/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrImageTooLarge = errors.New("image too large")
)

// NoMedicineDataReason es el motivo que se devuelve cuando el modelo respondió
// pero no hubo datos estructurados utilizables.
const NoMedicineDataReason = "Failed to extract medicine info"

const DefaultMaxImageBytes = 10 << 20

// Extraction es la respuesta final hacia el cliente: siempre trae una lista
// (posiblemente vacía) y, si algo salió mal, un motivo.
type Extraction struct {
	Takings []Taking `json:"takings" yaml:"takings"`
	Error   string   `json:"error,omitempty" yaml:"error,omitempty"`
	RawText string   `json:"raw_text,omitempty" yaml:"raw_text,omitempty"`
}

type Service struct {
	images      ImageRepository
	interpreter *Interpreter
	scheduler   *Scheduler
	log         logger.Logger

	maxImageBytes int64
	now           func() time.Time
}

type ServiceOptions struct {
	Logger        logger.Logger
	MaxImageBytes int64
}

func NewService(images ImageRepository, interpreter *Interpreter, scheduler *Scheduler, opts ServiceOptions) *Service {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	maxBytes := opts.MaxImageBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &Service{
		images:        images,
		interpreter:   interpreter,
		scheduler:     scheduler,
		log:           log,
		maxImageBytes: maxBytes,
		now:           time.Now,
	}
}

func (s *Service) MaxImageBytes() int64 { return s.maxImageBytes }

// ExtractPrescription corre interpretación + agenda. Es total: nunca devuelve error.
func (s *Service) ExtractPrescription(ctx context.Context, image []byte, mediaType string) Extraction {
	res := s.interpreter.Interpret(ctx, image, mediaType)
	if !res.Succeeded() {
		reason := res.Err
		if strings.TrimSpace(reason) == "" {
			reason = NoMedicineDataReason
		}
		return Extraction{Takings: []Taking{}, Error: reason}
	}

	medicines, ok := DecodeMedicines(res.Data)
	if !ok {
		return Extraction{Takings: []Taking{}, Error: NoMedicineDataReason, RawText: res.RawText}
	}

	takings := s.scheduler.Generate(medicines, s.now())
	s.log.Info("prescription extracted", map[string]any{
		"medicines": len(medicines),
		"takings":   len(takings),
	})
	return Extraction{Takings: takings}
}

// Schedule genera tomas a partir de medicamentos ya estructurados, anclado en hoy.
func (s *Service) Schedule(medicines []Medicine) []Taking {
	return s.scheduler.Generate(medicines, s.now())
}

// UploadImage reemplaza la imagen actual.
func (s *Service) UploadImage(ctx context.Context, filename, mediaType string, data []byte) (StoredImage, error) {
	if len(data) == 0 {
		return StoredImage{}, fmt.Errorf("%w: %v", ErrInvalidInput, ErrEmptyImage)
	}
	if int64(len(data)) > s.maxImageBytes {
		return StoredImage{}, ErrImageTooLarge
	}

	filename = strings.TrimSpace(filename)
	if filename == "" {
		filename = "image"
	}

	img := StoredImage{
		ID:         uuid.NewString(),
		Filename:   filename,
		MediaType:  UploadMediaType(filename, mediaType, data),
		Data:       data,
		UploadedAt: s.now(),
	}
	if err := s.images.SaveCurrent(ctx, img); err != nil {
		return StoredImage{}, fmt.Errorf("save image: %w", err)
	}

	s.log.Info("image stored", map[string]any{
		"image_id":   img.ID,
		"media_type": img.MediaType,
		"size":       len(data),
	})
	return img, nil
}

func (s *Service) CurrentImage(ctx context.Context) (StoredImage, error) {
	return s.images.GetCurrent(ctx)
}

// Recognize extrae la receta de la imagen actual. Solo falla si no hay imagen
// (o el storage falla); los problemas del modelo van dentro de Extraction.
func (s *Service) Recognize(ctx context.Context) (Extraction, error) {
	img, err := s.images.GetCurrent(ctx)
	if err != nil {
		return Extraction{}, err
	}
	return s.ExtractPrescription(ctx, img.Data, img.MediaType), nil
}

// DecodeMedicines lee {"medicines": [...]} del JSON devuelto por el modelo.
// ok=false si no hay datos utilizables (null, no-objeto u objeto vacío).
// Entradas de la lista que no son objetos se ignoran; "medicines" ausente o
// con otro tipo => lista vacía.
func DecodeMedicines(data json.RawMessage) ([]Medicine, bool) {
	if len(data) == 0 {
		return nil, false
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || len(obj) == 0 {
		// null también cae acá: obj queda vacío
		return nil, false
	}

	out := make([]Medicine, 0)

	var items []json.RawMessage
	if err := json.Unmarshal(obj["medicines"], &items); err != nil {
		return out, true
	}
	for _, item := range items {
		if len(item) == 0 || item[0] != '{' {
			continue
		}
		var m Medicine
		if err := json.Unmarshal(item, &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out, true
}

// ParseMedicineList acepta {"medicines":[...]} o directamente [...], con la
// misma tolerancia por campo que la respuesta del modelo.
func ParseMedicineList(raw []byte) ([]Medicine, error) {
	var list []Medicine
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var req struct {
		Medicines []Medicine `json:"medicines"`
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return req.Medicines, nil
}
