package reminders

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"pill-reminder/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/calendar", func(cr chi.Router) {
		cr.Use(middleware.AccessToken)

		cr.Post("/events", exportHandler(svc))
		cr.Get("/events", listUpcomingHandler(svc))
	})
}

type exportRequest struct {
	Takings []Reminder `json:"takings"`
}

type upcomingResponse struct {
	Events []Upcoming `json:"events"`
}

// exportHandler godoc
// @Summary Exportar tomas al calendario
// @Description Crea un evento de 15 minutos por toma en el calendario del usuario (Google). Requiere el access token OAuth del usuario.
// @Tags reminders
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer <google access token>"
// @Param payload body exportRequest true "Tomas a exportar"
// @Success 201 {object} ExportResult
// @Failure 400 {string} string "invalid json / takings requeridas"
// @Failure 401 {string} string "unauthorized"
// @Failure 502 {object} ExportResult "error del calendario; incluye lo creado hasta el fallo"
// @Router /api/calendar/events [post]
func exportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := middleware.GetAccessToken(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req exportRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.Export(r.Context(), token, req.Takings)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, "takings requeridas", http.StatusBadRequest)
			case errors.Is(err, ErrMissingToken), errors.Is(err, ErrUnauthorized):
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			default:
				writeJSON(w, http.StatusBadGateway, res)
			}
			return
		}

		writeJSON(w, http.StatusCreated, res)
	}
}

// listUpcomingHandler godoc
// @Summary Próximos recordatorios
// @Description Lista los próximos eventos creados por este servicio (filtrados por marcador).
// @Tags reminders
// @Produce json
// @Param Authorization header string true "Bearer <google access token>"
// @Param limit query int false "máximo de eventos (default 10)"
// @Success 200 {object} upcomingResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 502 {string} string "calendar error"
// @Router /api/calendar/events [get]
func listUpcomingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := middleware.GetAccessToken(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 || n > 250 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}

		events, err := svc.Upcoming(r.Context(), token, limit)
		if err != nil {
			switch {
			case errors.Is(err, ErrMissingToken), errors.Is(err, ErrUnauthorized):
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			default:
				http.Error(w, "calendar error", http.StatusBadGateway)
			}
			return
		}

		writeJSON(w, http.StatusOK, upcomingResponse{Events: events})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
