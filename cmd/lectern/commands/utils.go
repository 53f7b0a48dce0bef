// ABOUTME: Shared helpers for CLI commands
// ABOUTME: Config loading, store opening, client construction, small formatters
package commands

import (
	"fmt"

	"go.uber.org/zap"

	"lectern/internal/config"
	"lectern/internal/llm"
	"lectern/internal/storage"
)

// loadConfig reads env config after godotenv has run
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// openStore opens the vector store at the configured path
func openStore(cfg *config.Config) (*storage.Store, error) {
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening store at %s: %w", cfg.DBPath, err)
	}
	return store, nil
}

// newLLMClient builds the OpenAI client from config
func newLLMClient(cfg *config.Config) (*llm.Client, error) {
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
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}
	return client, nil
}

// newLogger builds a logger honoring the global verbosity flags
func newLogger() (*zap.Logger, error) {
	if quiet {
		return zap.NewNop(), nil
	}
	logCfg := zap.NewProductionConfig()
	if verbose {
		logCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return logCfg.Build()
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
