package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/healthassist/triage-platform/internal/http/middleware"
	"github.com/healthassist/triage-platform/pkg/logging"
)

// Lister reads appointment records for the admin API.
type Lister interface {
	ListRecent(ctx context.Context, limit int) ([]Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
}

// Handler serves the admin appointment endpoints.
type Handler struct {
	repo   Lister
	logger *logging.Logger
}

// NewHandler creates an appointments handler.
func NewHandler(repo Lister, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /admin/appointments.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	appts, err := h.repo.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		http.Error(w, "Failed to list appointments", http.StatusInternalServerError)
		return
	}
	if appts == nil {
		appts = []Appointment{}
	}
	if admin, ok := middleware.AdminSubject(r.Context()); ok {
		h.logger.Info("appointments listed", "admin", admin, "count", len(appts))
	}
	h.writeJSON(w, http.StatusOK, appts)
}

// Get handles GET /admin/appointments/{bookingID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingID")
	appt, err := h.repo.GetByID(r.Context(), bookingID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load appointment", "error", err, "booking_id", bookingID)
		http.Error(w, "Failed to load appointment", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, appt)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
