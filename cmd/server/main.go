// ABOUTME: Main entry point for the lectern HTTP query server
// ABOUTME: Wires config, store, retrieval core, and rate limiter; shuts down on signal
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"lectern/internal/assemble"
	"lectern/internal/config"
	"lectern/internal/llm"
	"lectern/internal/ratelimit"
	"lectern/internal/retrieval"
	"lectern/internal/server"
	"lectern/internal/storage"
)

func main() {
	// Load .env file if it exists (for API keys)
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	if cfg.OpenAIKey == "" {
		logger.Fatal("OPENAI_API_KEY is required")
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open vector store", zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	client, err := llm.NewClient(llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		BaseURL:        cfg.OpenAIBaseURL,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: cfg.EmbeddingModel,
		Dimension:      cfg.VectorDimension,
		Temperature:    float32(cfg.Temperature),
		MaxTokens:      cfg.MaxTokens,
		Timeout:        cfg.Timeout,
	})
	if err != nil {
		logger.Fatal("failed to create OpenAI client", zap.Error(err))
	}

	srv := server.New(
		retrieval.New(client, store, cfg.DefaultTopK),
		assemble.New(cfg.MaxContextChars),
		client,
		ratelimit.New(cfg.RateLimitMax, cfg.RateLimitWindow),
		cfg.Persona,
		logger,
	)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("lectern server listening",
			zap.String("addr", cfg.ListenAddr),
			zap.Int("chunks", store.Count()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
	logger.Info("server stopped")
}
