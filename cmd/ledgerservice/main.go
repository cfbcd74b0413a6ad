package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance-companion/internal/auth"
	"finance-companion/internal/config"
	"finance-companion/internal/database"
	"finance-companion/internal/ledger"
	"finance-companion/internal/llm"
	"finance-companion/internal/logging"
	"finance-companion/internal/user"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// main is the entry point for the LedgerService, which owns invoices, spending analytics and profiles.
func main() {
	cfg, err := config.LoadLedgerConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log.Level, cfg.Log.JSON)

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Error("could not connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := database.InitSchema(ctx, db); err != nil {
		log.Error("could not create schema", "error", err)
		os.Exit(1)
	}
	log.Info("database connected")

	// Invoice extraction always goes to Gemini. Without a key the extract endpoint answers 503.
	reader := llm.NewGeminiInvoiceExtractor(llm.Config{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	})

	ledgerService := ledger.NewService(ledger.NewPostgresRepository(db), reader, log)
	userService := user.NewService(user.NewPostgresRepository(db))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(auth.Identify)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("LedgerService OK"))
	})

	ledger.NewHandler(ledgerService).RegisterRoutes(r)
	user.NewHandler(userService).RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	go func() { errChan <- srv.ListenAndServe() }()
	log.Info("LedgerService starting", "port", cfg.Port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	case sig := <-sigChan:
		log.Info("shutdown signal received", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	} else {
		log.Info("server stopped")
	}
}
