package prescriptions

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

const uploadField = "file"

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api", func(ar chi.Router) {
		ar.Post("/upload", uploadImageHandler(svc))
		ar.Get("/image", getImageHandler(svc))
		ar.Post("/recognize", recognizeHandler(svc))
		ar.Post("/extract", extractHandler(svc))
		ar.Post("/schedule", scheduleHandler(svc))
	})
}

// imageResponse describe la imagen actual guardada.
type imageResponse struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	MediaType  string    `json:"media_type"`
	Size       int       `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// scheduleRequest es el cuerpo para generar tomas a partir de medicamentos ya estructurados.
type scheduleRequest struct {
	Medicines []Medicine `json:"medicines"`
}

// scheduleResponse lista las tomas generadas.
type scheduleResponse struct {
	Takings []Taking `json:"takings"`
}

// uploadImageHandler godoc
// @Summary Subir imagen de receta
// @Description Guarda la imagen recibida (multipart, campo `file`) como imagen actual. Reemplaza la anterior.
// @Tags prescriptions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Imagen de la receta (jpeg, png, gif, webp)"
// @Success 201 {object} imageResponse
// @Failure 400 {string} string "file requerido / imagen vacía"
// @Failure 413 {string} string "image too large"
// @Failure 500 {string} string "internal error"
// @Router /api/upload [post]
func uploadImageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename, mediaType, data, status, msg := readUpload(w, r, svc.MaxImageBytes())
		if status != 0 {
			http.Error(w, msg, status)
			return
		}

		img, err := svc.UploadImage(r.Context(), filename, mediaType, data)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrImageTooLarge):
				http.Error(w, "image too large", http.StatusRequestEntityTooLarge)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, imageResponse{
			ID:         img.ID,
			Filename:   img.Filename,
			MediaType:  img.MediaType,
			Size:       len(img.Data),
			UploadedAt: img.UploadedAt,
		})
	}
}

// getImageHandler godoc
// @Summary Obtener imagen actual
// @Description Devuelve los bytes de la última imagen subida con su Content-Type.
// @Tags prescriptions
// @Produce image/jpeg,image/png,image/gif
// @Success 200 {file} binary
// @Failure 404 {string} string "image not found"
// @Failure 500 {string} string "internal error"
// @Router /api/image [get]
func getImageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		img, err := svc.CurrentImage(r.Context())
		if err != nil {
			if errors.Is(err, ErrImageNotFound) {
				http.Error(w, "image not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", img.MediaType)
		w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(img.Data)
	}
}

// recognizeHandler godoc
// @Summary Reconocer receta de la imagen actual
// @Description Envía la imagen actual al modelo de visión y devuelve las tomas generadas. Los fallos del modelo NO son errores HTTP: vuelven con 200, `takings: []` y `error`.
// @Tags prescriptions
// @Produce json
// @Success 200 {object} Extraction
// @Failure 404 {string} string "image not found"
// @Failure 500 {string} string "internal error"
// @Router /api/recognize [post]
func recognizeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := svc.Recognize(r.Context())
		if err != nil {
			if errors.Is(err, ErrImageNotFound) {
				http.Error(w, "image not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// extractHandler godoc
// @Summary Extraer receta sin guardar la imagen
// @Description Igual que recognize pero con la imagen en el mismo request (multipart, campo `file`).
// @Tags prescriptions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Imagen de la receta"
// @Success 200 {object} Extraction
// @Failure 400 {string} string "file requerido"
// @Failure 413 {string} string "image too large"
// @Router /api/extract [post]
func extractHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename, mediaType, data, status, msg := readUpload(w, r, svc.MaxImageBytes())
		if status != 0 {
			http.Error(w, msg, status)
			return
		}

		writeJSON(w, http.StatusOK, svc.ExtractPrescription(r.Context(), data, UploadMediaType(filename, mediaType, data)))
	}
}

// scheduleHandler godoc
// @Summary Generar tomas desde medicamentos
// @Description Expande medicamentos (`{medicines:[...]}` o un array) en tomas a partir de hoy. Campos faltantes usan defaults.
// @Tags prescriptions
// @Accept json
// @Produce json
// @Param payload body scheduleRequest true "Medicamentos"
// @Success 200 {object} scheduleResponse
// @Failure 400 {string} string "invalid json"
// @Router /api/schedule [post]
func scheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		medicines, err := ParseMedicineList(raw)
		if err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, scheduleResponse{Takings: svc.Schedule(medicines)})
	}
}

// readUpload devuelve status != 0 si hay que cortar el request.
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (filename, mediaType string, data []byte, status int, msg string) {
	// margen para los headers del multipart
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+64<<10)

	file, hdr, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", "", nil, http.StatusRequestEntityTooLarge, "image too large"
		}
		return "", "", nil, http.StatusBadRequest, "file is required"
	}
	defer file.Close()

	data, err = io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return "", "", nil, http.StatusBadRequest, "could not read file"
	}
	if int64(len(data)) > maxBytes {
		return "", "", nil, http.StatusRequestEntityTooLarge, "image too large"
	}
	if len(data) == 0 {
		return "", "", nil, http.StatusBadRequest, "file is empty"
	}

	return hdr.Filename, hdr.Header.Get("Content-Type"), data, 0, ""
}

// writeJSON se repite en cada módulo de dominio.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
