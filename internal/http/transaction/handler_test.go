package transaction_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	httptransaction "github.com/fbarbosa/ledgerkeep/internal/http/transaction"
	"github.com/fbarbosa/ledgerkeep/internal/metrics"
	"github.com/fbarbosa/ledgerkeep/internal/transaction"
)

type fixture struct {
	router  chi.Router
	metrics *metrics.Metrics
	repo    *transaction.MockRepository
	guard   *transaction.MockPeriodGuard
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	guard := transaction.NewMockPeriodGuard(ctrl)
	evaluator := transaction.NewMockEvaluator(ctrl)

	svc := transaction.NewService(repo, guard, evaluator)
	m := metrics.New("test")

	router := chi.NewRouter()
	httptransaction.NewHandler(svc, m).Routes(router)

	return fixture{router: router, metrics: m, repo: repo, guard: guard}
}

func TestHandler_List_InvalidDateFilter(t *testing.T) {
	type testCase struct {
		name  string
		query string
	}

	tests := []testCase{
		{name: "StartDate", query: "?start_date=not-a-date"},
		{name: "EndDate", query: "?end_date=2024-13-99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			req.Header.Set("X-User-ID", uuid.NewString())

			rec := httptest.NewRecorder()
			f.router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_AdvanceStatus_TransitionMetricLabels(t *testing.T) {
	f := newFixture(t)
	tx := &transaction.Transaction{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		Date:    time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Status:  transaction.StatusDraft,
		Version: 1,
	}

	f.repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
	f.guard.EXPECT().CheckDateMutable(gomock.Any(), tx.UserID, tx.Date).Return(nil)
	f.repo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/"+tx.ID.String()+"/advance", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(
		f.metrics.StatusTransitions.WithLabelValues("draft", "pending")))
}
