package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance-companion/internal/auth"
	"finance-companion/internal/chat"
	"finance-companion/internal/config"
	"finance-companion/internal/database"
	"finance-companion/internal/extract"
	"finance-companion/internal/llm"
	"finance-companion/internal/logging"
	"finance-companion/internal/market"
	"finance-companion/internal/render"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// main is the entry point for the AssistantService.
func main() {
	cfg, err := config.LoadAssistantConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log.Level, cfg.Log.JSON)

	ctx := context.Background()

	// Provider dispatcher. A missing key is not fatal here; it surfaces as an error message in the chat.
	provider, err := llm.NewProviderFromConfig(cfg.LLM)
	if err != nil {
		log.Error("could not create chat provider", "error", err)
		os.Exit(1)
	}
	llmService := llm.NewService(provider, log)

	quoteClient, err := market.NewQuoteClientFromConfig(cfg.Market)
	if err != nil {
		log.Error("could not create quote client", "error", err)
		os.Exit(1)
	}
	marketService := market.NewService(quoteClient, market.DefaultWatchlist, cfg.Market.MaxConcurrency, log)

	repo, closer, err := openMessageStore(ctx, cfg.Store, log)
	if err != nil {
		log.Error("could not open message store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer closer.Close()

	chatService := chat.NewService(chat.NewStore(), llmService, marketService, extract.NewPDFExtractor(), repo, cfg.LLM.Timeout, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(auth.Identify)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("AssistantService OK"))
	})

	llm.NewHandler(llmService).RegisterRoutes(r)
	market.NewHandler(marketService).RegisterRoutes(r)
	chat.NewHandler(chatService, render.NewMarkdown()).RegisterRoutes(r)

	// No WriteTimeout: /chat/events streams for as long as the client stays connected.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	go func() { errChan <- srv.ListenAndServe() }()
	log.Info("AssistantService starting", "port", cfg.Port, "provider", llmService.ProviderName(), "store", cfg.Store.Backend)

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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openMessageStore builds the chat repository for the configured backend.
// The "none" backend keeps conversations in memory only.
func openMessageStore(ctx context.Context, cfg config.StoreConfig, log *slog.Logger) (chat.Repository, io.Closer, error) {
	switch cfg.Backend {
	case "postgres":
		db, err := database.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, nil, err
		}
		if err := database.InitSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info("database connected")
		return chat.NewPostgresRepository(db), db, nil
	case "dynamodb":
		client, err := chat.NewDynamoClient(ctx, cfg.AWSRegion, cfg.DynamoDBEndpoint)
		if err != nil {
			return nil, nil, err
		}
		chat.EnsureDynamoTable(ctx, client, cfg.DynamoDBTable, log)
		return chat.NewDynamoRepository(client, cfg.DynamoDBTable), nopCloser{}, nil
	case "bolt":
		db, err := chat.OpenBolt(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return chat.NewBoltRepository(db), db, nil
	default:
		return nil, nopCloser{}, nil
	}
}
