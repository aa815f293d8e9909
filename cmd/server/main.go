package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/segyhp/tontine-ledger/internal/app"
	"github.com/segyhp/tontine-ledger/internal/config"
	"github.com/segyhp/tontine-ledger/internal/handler"
	"github.com/segyhp/tontine-ledger/internal/metrics"
	"github.com/segyhp/tontine-ledger/pkg/log"
	"github.com/segyhp/tontine-ledger/pkg/response"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	app.InitLogging(cfg)

	ledger, err := app.New(cfg)
	if err != nil {
		log.Logger.Fatal().Err(err).Msg("Failed to start")
	}
	defer ledger.Close()

	ledgerHandler := handler.NewLedgerHandler(ledger.Service)
	healthHandler := handler.NewHealthHandler(ledger.DB, ledger.Redis, cfg.GetHealthTimeout())

	router := setupRoutes(ledgerHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      response.CORSMiddleware(response.LoggingMiddleware(router)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Logger.Info().Str("addr", server.Addr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown", err)
		return
	}

	log.Info("Server exited")
}

func setupRoutes(ledgerHandler *handler.LedgerHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	// API routes
	ledgerHandler.Routes(router.PathPrefix("/api/v1").Subrouter())

	return router
}
