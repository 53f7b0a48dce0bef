// ABOUTME: Tests for environment-driven configuration loading
// ABOUTME: Covers defaults, overrides, persona file, and validation bounds
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LECTERN_DB_PATH", "OPENAI_API_KEY", "OPENAI_BASE_URL",
		"LECTERN_CHAT_MODEL", "LECTERN_EMBEDDING_MODEL", "OPENAI_TIMEOUT",
		"VECTOR_DIMENSION", "LECTERN_TEMPERATURE", "LECTERN_MAX_TOKENS",
		"CHUNK_MAX_WORDS", "CHUNK_OVERLAP_WORDS", "EMBED_BATCH_SIZE",
		"RETRIEVE_TOP_K", "MAX_CONTEXT_CHARS", "LECTERN_PERSONA_FILE",
		"RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW", "LECTERN_ADDR",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel = %q, want gpt-4o-mini", cfg.ChatModel)
	}
	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %q, want text-embedding-3-small", cfg.EmbeddingModel)
	}
	if cfg.VectorDimension != 1536 {
		t.Errorf("VectorDimension = %d, want 1536", cfg.VectorDimension)
	}
	if cfg.ChunkMaxWords != 200 {
		t.Errorf("ChunkMaxWords = %d, want 200", cfg.ChunkMaxWords)
	}
	if cfg.ChunkOverlapWords != 20 {
		t.Errorf("ChunkOverlapWords = %d, want 20", cfg.ChunkOverlapWords)
	}
	if cfg.DefaultTopK != 10 {
		t.Errorf("DefaultTopK = %d, want 10", cfg.DefaultTopK)
	}
	if cfg.RateLimitMax != 10 {
		t.Errorf("RateLimitMax = %d, want 10", cfg.RateLimitMax)
	}
	if cfg.RateLimitWindow != time.Minute {
		t.Errorf("RateLimitWindow = %v, want 1m", cfg.RateLimitWindow)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want :8080", cfg.ListenAddr)
	}
	if !strings.Contains(cfg.Persona, "resident teacher") {
		t.Errorf("Persona does not contain the default persona text")
	}
	if cfg.DBPath == "" {
		t.Error("DBPath should default to a data-directory path")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LECTERN_CHAT_MODEL", "gpt-4o")
	t.Setenv("VECTOR_DIMENSION", "768")
	t.Setenv("CHUNK_MAX_WORDS", "100")
	t.Setenv("CHUNK_OVERLAP_WORDS", "10")
	t.Setenv("RATE_LIMIT_MAX", "3")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("LECTERN_ADDR", "127.0.0.1:9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.OpenAIKey != "sk-test" {
		t.Errorf("OpenAIKey = %q, want sk-test", cfg.OpenAIKey)
	}
	if cfg.ChatModel != "gpt-4o" {
		t.Errorf("ChatModel = %q, want gpt-4o", cfg.ChatModel)
	}
	if cfg.VectorDimension != 768 {
		t.Errorf("VectorDimension = %d, want 768", cfg.VectorDimension)
	}
	if cfg.ChunkMaxWords != 100 || cfg.ChunkOverlapWords != 10 {
		t.Errorf("chunking = %d/%d, want 100/10", cfg.ChunkMaxWords, cfg.ChunkOverlapWords)
	}
	if cfg.RateLimitMax != 3 || cfg.RateLimitWindow != 30*time.Second {
		t.Errorf("rate limit = %d/%v, want 3/30s", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	if cfg.ListenAddr != "127.0.0.1:9090" {
		t.Errorf("ListenAddr = %q, want 127.0.0.1:9090", cfg.ListenAddr)
	}
}

func TestLoad_PersonaFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "persona.txt")
	if err := os.WriteFile(path, []byte("You are a terse librarian."), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LECTERN_PERSONA_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Persona != "You are a terse librarian." {
		t.Errorf("Persona = %q, want file contents", cfg.Persona)
	}
}

func TestLoad_PersonaFileMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv("LECTERN_PERSONA_FILE", filepath.Join(t.TempDir(), "absent.txt"))

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for unreadable persona file")
	}
}

func TestLoad_MalformedIntFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("VECTOR_DIMENSION", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.VectorDimension != 1536 {
		t.Errorf("VectorDimension = %d, want default 1536", cfg.VectorDimension)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			VectorDimension:   1536,
			ChunkMaxWords:     200,
			ChunkOverlapWords: 20,
			EmbedBatchSize:    32,
			DefaultTopK:       10,
			RateLimitMax:      10,
			Temperature:       0.7,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero dimension", func(c *Config) { c.VectorDimension = 0 }, true},
		{"zero max words", func(c *Config) { c.ChunkMaxWords = 0 }, true},
		{"negative overlap", func(c *Config) { c.ChunkOverlapWords = -1 }, true},
		{"overlap equals max", func(c *Config) { c.ChunkOverlapWords = c.ChunkMaxWords }, true},
		{"zero batch size", func(c *Config) { c.EmbedBatchSize = 0 }, true},
		{"zero top k", func(c *Config) { c.DefaultTopK = 0 }, true},
		{"zero rate limit", func(c *Config) { c.RateLimitMax = 0 }, true},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }, true},
		{"temperature zero is fine", func(c *Config) { c.Temperature = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
