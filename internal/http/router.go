package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fbarbosa/ledgerkeep/internal/http/period"
	"github.com/fbarbosa/ledgerkeep/internal/http/reconciliation"
	"github.com/fbarbosa/ledgerkeep/internal/http/transaction"
)

func New(
	transactionsV1 *transaction.Handler,
	periodsV1 *period.Handler,
	reconciliationV1 *reconciliation.Handler,
	metricsHandler http.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-User-ID"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/periods", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			periodsV1.Routes(r)
		})

		r.Route("/reconciliation", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			reconciliationV1.Routes(r)
		})
	})

	router.Method(http.MethodGet, "/metrics", metricsHandler)

	return router
}
