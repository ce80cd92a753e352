package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/fbarbosa/ledgerkeep/internal/config"
	"github.com/fbarbosa/ledgerkeep/internal/database"
	ledgerHttp "github.com/fbarbosa/ledgerkeep/internal/http"
	periodHandler "github.com/fbarbosa/ledgerkeep/internal/http/period"
	reconHandler "github.com/fbarbosa/ledgerkeep/internal/http/reconciliation"
	txHandler "github.com/fbarbosa/ledgerkeep/internal/http/transaction"
	"github.com/fbarbosa/ledgerkeep/internal/metrics"
	"github.com/fbarbosa/ledgerkeep/internal/period"
	periodStore "github.com/fbarbosa/ledgerkeep/internal/period/store"
	"github.com/fbarbosa/ledgerkeep/internal/reconciliation"
	reconStore "github.com/fbarbosa/ledgerkeep/internal/reconciliation/store"
	"github.com/fbarbosa/ledgerkeep/internal/transaction"
	txStore "github.com/fbarbosa/ledgerkeep/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	m := metrics.New("ledgerkeep")

	var (
		periodService         = period.NewService(periodStore.New(db))
		reconciliationService = reconciliation.NewService(reconStore.New(db), cfg.Reconciliation.Strict)
		transactionService    = transaction.NewService(txStore.New(db), periodService, reconciliationService)
	)

	var (
		transactionH    = txHandler.NewHandler(transactionService, m)
		periodH         = periodHandler.NewHandler(periodService)
		reconciliationH = reconHandler.NewHandler(reconciliationService, m)
	)

	router := ledgerHttp.New(transactionH, periodH, reconciliationH, m.Handler())

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
