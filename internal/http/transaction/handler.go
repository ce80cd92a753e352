package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fbarbosa/ledgerkeep/internal/metrics"
	"github.com/fbarbosa/ledgerkeep/internal/period"
	"github.com/fbarbosa/ledgerkeep/internal/reconciliation"
	"github.com/fbarbosa/ledgerkeep/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
	m   *metrics.Metrics
}

func NewHandler(svc *transaction.Service, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, m: m}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/splits", h.createSplitGroup)
	r.Delete("/splits/{groupID}", h.deleteSplitGroup)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/advance", h.advanceStatus)
	r.Post("/{id}/unreconcile", h.unreconcile)
}

func userID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.Header.Get("X-User-ID"))
}

type createTransactionRequest struct {
	Date            time.Time  `json:"date"`
	Amount          int64      `json:"amount"`
	AccountID       *uuid.UUID `json:"account_id,omitempty"`
	CreditAccountID *uuid.UUID `json:"credit_account_id,omitempty"`
	DebitAccountID  *uuid.UUID `json:"debit_account_id,omitempty"`
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	PayeeCustomerID *uuid.UUID `json:"payee_customer_id,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	SplitGroupID    *uuid.UUID `json:"split_group_id,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		http.Error(w, "missing or invalid X-User-ID header", http.StatusBadRequest)
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Create(r.Context(), transaction.CreateParams{
		UserID:          uid,
		Date:            req.Date,
		Amount:          req.Amount,
		AccountID:       req.AccountID,
		CreditAccountID: req.CreditAccountID,
		DebitAccountID:  req.DebitAccountID,
		CategoryID:      req.CategoryID,
		PayeeCustomerID: req.PayeeCustomerID,
		Notes:           req.Notes,
		SplitGroupID:    req.SplitGroupID,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		http.Error(w, "missing or invalid X-User-ID header", http.StatusBadRequest)
		return
	}

	filter := transaction.ListFilter{UserID: uid}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(transaction.Status(s))
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid start_date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		filter.StartDate = new(t)
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid end_date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		filter.EndDate = new(t)
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(transaction.OrderForDisplay(txs))); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateTransactionRequest struct {
	Date            *time.Time `json:"date,omitempty"`
	Amount          *int64     `json:"amount,omitempty"`
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	PayeeCustomerID *uuid.UUID `json:"payee_customer_id,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	current, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	params := transaction.UpdateParams{
		ID:              id,
		Date:            current.Date,
		Amount:          current.Amount,
		CategoryID:      current.CategoryID,
		PayeeCustomerID: current.PayeeCustomerID,
		Notes:           current.Notes,
	}

	if req.Date != nil {
		params.Date = *req.Date
	}

	if req.Amount != nil {
		params.Amount = *req.Amount
	}

	if req.CategoryID != nil {
		params.CategoryID = req.CategoryID
	}

	if req.PayeeCustomerID != nil {
		params.PayeeCustomerID = req.PayeeCustomerID
	}

	if req.Notes != nil {
		params.Notes = *req.Notes
	}

	tx, err := h.svc.Update(r.Context(), params)
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type splitChildRequest struct {
	Amount          int64      `json:"amount"`
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	PayeeCustomerID *uuid.UUID `json:"payee_customer_id,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

type createSplitGroupRequest struct {
	Date            time.Time           `json:"date"`
	Amount          int64               `json:"amount"`
	AccountID       *uuid.UUID          `json:"account_id,omitempty"`
	CreditAccountID *uuid.UUID          `json:"credit_account_id,omitempty"`
	DebitAccountID  *uuid.UUID          `json:"debit_account_id,omitempty"`
	PayeeCustomerID *uuid.UUID          `json:"payee_customer_id,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	Children        []splitChildRequest `json:"children"`
}

func (h *Handler) createSplitGroup(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		http.Error(w, "missing or invalid X-User-ID header", http.StatusBadRequest)
		return
	}

	var req createSplitGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	children := make([]transaction.ChildEntry, len(req.Children))
	for i, c := range req.Children {
		children[i] = transaction.ChildEntry{
			Amount:          c.Amount,
			CategoryID:      c.CategoryID,
			PayeeCustomerID: c.PayeeCustomerID,
			Notes:           c.Notes,
		}
	}

	group, err := h.svc.CreateSplitGroup(r.Context(), transaction.SplitParams{
		UserID:          uid,
		Date:            req.Date,
		ParentAmount:    req.Amount,
		AccountID:       req.AccountID,
		CreditAccountID: req.CreditAccountID,
		DebitAccountID:  req.DebitAccountID,
		PayeeCustomerID: req.PayeeCustomerID,
		Notes:           req.Notes,
		Children:        children,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toSplitGroupResponse(group)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) deleteSplitGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(chi.URLParam(r, "groupID"))
	if err != nil {
		http.Error(w, "invalid group id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteGroup(r.Context(), groupID); err != nil {
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) advanceStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, from, err := h.svc.AdvanceStatus(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.m.StatusTransitions.WithLabelValues(string(from), string(tx.Status)).Inc()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type unreconcileRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) unreconcile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req unreconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Unreconcile(r.Context(), id, req.Reason)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.m.StatusTransitions.WithLabelValues(string(transaction.StatusReconciled), string(tx.Status)).Inc()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type conditionResultResponse struct {
	Name reconciliation.Condition `json:"name"`
	Met  bool                     `json:"met"`
}

type conditionsNotMetResponse struct {
	Error      string                    `json:"error"`
	Conditions []conditionResultResponse `json:"conditions"`
}

// respondError maps domain errors to HTTP statuses. Anything unmapped is a
// 500 with the detail kept out of the body.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var (
		closedErr     *period.ClosedPeriodError
		notMetErr     *reconciliation.ConditionsNotMetError
		imbalanceErr  *transaction.ImbalanceError
		transitionErr *transaction.TransitionError
	)

	switch {
	case errors.Is(err, transaction.ErrNotFound):
		http.Error(w, "transaction not found", http.StatusNotFound)

	case errors.As(err, &closedErr):
		h.m.ClosedPeriodRejections.Inc()
		http.Error(w, closedErr.Error(), http.StatusConflict)

	case errors.As(err, &notMetErr):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)

		resp := conditionsNotMetResponse{Error: notMetErr.Error()}
		for _, c := range notMetErr.Conditions {
			resp.Conditions = append(resp.Conditions, conditionResultResponse{Name: c.Name, Met: c.Met})
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("failed to encode response", "error", err)
		}

	case errors.As(err, &imbalanceErr):
		http.Error(w, imbalanceErr.Error(), http.StatusUnprocessableEntity)

	case errors.As(err, &transitionErr), errors.Is(err, transaction.ErrTerminalState):
		http.Error(w, err.Error(), http.StatusConflict)

	case errors.Is(err, transaction.ErrConcurrentModification):
		http.Error(w, "transaction was modified concurrently, retry", http.StatusConflict)

	case errors.Is(err, transaction.ErrEmptySplit), errors.Is(err, transaction.ErrOrphanChild):
		http.Error(w, err.Error(), http.StatusBadRequest)

	default:
		slog.Error("transaction request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
