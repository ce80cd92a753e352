package reconciliation

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fbarbosa/ledgerkeep/internal/metrics"
	"github.com/fbarbosa/ledgerkeep/internal/reconciliation"
)

type Handler struct {
	svc *reconciliation.Service
	m   *metrics.Metrics
}

func NewHandler(svc *reconciliation.Service, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, m: m}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/conditions", h.getConditions)
	r.Put("/conditions", h.updateConditions)
	r.Get("/transactions/{id}", h.evaluate)
}

func userID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.Header.Get("X-User-ID"))
}

type conditionResultResponse struct {
	Name reconciliation.Condition `json:"name"`
	Met  bool                     `json:"met"`
}

func toConditionResults(results []reconciliation.ConditionResult) []conditionResultResponse {
	resp := make([]conditionResultResponse, len(results))
	for i, r := range results {
		resp[i] = conditionResultResponse{Name: r.Name, Met: r.Met}
	}

	return resp
}

type evaluationResponse struct {
	TransactionID uuid.UUID                 `json:"transaction_id"`
	IsReconciled  bool                      `json:"is_reconciled"`
	Conditions    []conditionResultResponse `json:"conditions"`
}

func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	result, err := h.svc.Evaluate(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	outcome := "not_reconciled"
	if result.IsReconciled {
		outcome = "reconciled"
	}

	h.m.Evaluations.WithLabelValues(outcome).Inc()

	w.Header().Set("Content-Type", "application/json")

	resp := evaluationResponse{
		TransactionID: id,
		IsReconciled:  result.IsReconciled,
		Conditions:    toConditionResults(result.Conditions),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type conditionsResponse struct {
	Conditions []reconciliation.Condition `json:"conditions"`
}

func (h *Handler) getConditions(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		http.Error(w, "missing or invalid X-User-ID header", http.StatusBadRequest)
		return
	}

	conditions, err := h.svc.Conditions(r.Context(), uid)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(conditionsResponse{Conditions: conditions}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateConditionsRequest struct {
	Conditions []reconciliation.Condition `json:"conditions"`
}

func (h *Handler) updateConditions(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		http.Error(w, "missing or invalid X-User-ID header", http.StatusBadRequest)
		return
	}

	var req updateConditionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateConditions(r.Context(), uid, req.Conditions); err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(conditionsResponse{Conditions: req.Conditions}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, err error) {
	var unsupportedErr *reconciliation.UnsupportedConditionError

	switch {
	case errors.Is(err, reconciliation.ErrNotFound):
		http.Error(w, "transaction not found", http.StatusNotFound)

	case errors.As(err, &unsupportedErr):
		http.Error(w, unsupportedErr.Error(), http.StatusUnprocessableEntity)

	case errors.Is(err, reconciliation.ErrUnknownCondition):
		http.Error(w, err.Error(), http.StatusBadRequest)

	default:
		slog.Error("reconciliation request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
