package period

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fbarbosa/ledgerkeep/internal/period"
)

type Handler struct {
	svc *period.Service
}

func NewHandler(svc *period.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/close", h.close)
}

func userID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.Header.Get("X-User-ID"))
}

type periodResponse struct {
	ID        uuid.UUID     `json:"id"`
	StartDate time.Time     `json:"start_date"`
	EndDate   time.Time     `json:"end_date"`
	Status    period.Status `json:"status"`
	Notes     string        `json:"notes,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt *time.Time    `json:"updated_at,omitempty"`
}

func toResponse(p *period.Period) periodResponse {
	return periodResponse{
		ID:        p.ID,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Status:    p.Status,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type createPeriodRequest struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Notes     string    `json:"notes,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		http.Error(w, "missing or invalid X-User-ID header", http.StatusBadRequest)
		return
	}

	var req createPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Create(r.Context(), period.CreateParams{
		UserID:    uid,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		http.Error(w, "missing or invalid X-User-ID header", http.StatusBadRequest)
		return
	}

	periods, err := h.svc.List(r.Context(), uid)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]periodResponse, len(periods))
	for i, p := range periods {
		resp[i] = toResponse(p)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Close(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, period.ErrNotFound):
		http.Error(w, "period not found", http.StatusNotFound)

	case errors.Is(err, period.ErrAlreadyClosed):
		http.Error(w, "period already closed", http.StatusConflict)

	case errors.Is(err, period.ErrOverlap):
		http.Error(w, "period overlaps an existing period", http.StatusConflict)

	case errors.Is(err, period.ErrInvalidRange):
		http.Error(w, "end date precedes start date", http.StatusBadRequest)

	default:
		slog.Error("period request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
