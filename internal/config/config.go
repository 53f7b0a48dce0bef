// ABOUTME: Centralized configuration for the lectern retrieval service
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"lectern/internal/storage/sqlite"
)

// DefaultPersona is the fixed instruction text prepended to every completion
// call unless LECTERN_PERSONA_FILE overrides it.
const DefaultPersona = `You are the resident teacher of this archive of recorded lectures.
Answer in a calm, direct voice. Ground every answer in the retrieved passages
when they are relevant, citing them by their bracketed index. When the passages
do not cover the question, say so plainly before answering from general knowledge.`

// Config holds all configuration for the lectern service
type Config struct {
	// Storage
	DBPath string

	// OpenAI settings
	OpenAIKey       string
	OpenAIBaseURL   string
	ChatModel       string
	EmbeddingModel  string
	Timeout         time.Duration
	VectorDimension int
	Temperature     float64
	MaxTokens       int

	// Chunking
	ChunkMaxWords     int
	ChunkOverlapWords int
	EmbedBatchSize    int

	// Retrieval
	DefaultTopK     int
	MaxContextChars int
	Persona         string

	// Rate limiting
	RateLimitMax    int
	RateLimitWindow time.Duration

	// Server
	ListenAddr string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:            getEnv("LECTERN_DB_PATH", sqlite.DefaultDBPath()),
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),
		ChatModel:         getEnv("LECTERN_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel:    getEnv("LECTERN_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:           getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		VectorDimension:   getEnvInt("VECTOR_DIMENSION", 1536),
		Temperature:       getEnvFloat("LECTERN_TEMPERATURE", 0.7),
		MaxTokens:         getEnvInt("LECTERN_MAX_TOKENS", 1024),
		ChunkMaxWords:     getEnvInt("CHUNK_MAX_WORDS", 200),
		ChunkOverlapWords: getEnvInt("CHUNK_OVERLAP_WORDS", 20),
		EmbedBatchSize:    getEnvInt("EMBED_BATCH_SIZE", 32),
		DefaultTopK:       getEnvInt("RETRIEVE_TOP_K", 10),
		MaxContextChars:   getEnvInt("MAX_CONTEXT_CHARS", 6000),
		Persona:           DefaultPersona,
		RateLimitMax:      getEnvInt("RATE_LIMIT_MAX", 10),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		ListenAddr:        getEnv("LECTERN_ADDR", ":8080"),
	}

	if path := os.Getenv("LECTERN_PERSONA_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading persona file: %w", err)
		}
		cfg.Persona = string(data)
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.VectorDimension <= 0 {
		return fmt.Errorf("VECTOR_DIMENSION must be positive, got %d", c.VectorDimension)
	}
	if c.ChunkMaxWords <= 0 {
		return fmt.Errorf("CHUNK_MAX_WORDS must be positive, got %d", c.ChunkMaxWords)
	}
	if c.ChunkOverlapWords < 0 || c.ChunkOverlapWords >= c.ChunkMaxWords {
		return fmt.Errorf("CHUNK_OVERLAP_WORDS must be in [0, CHUNK_MAX_WORDS), got %d", c.ChunkOverlapWords)
	}
	if c.EmbedBatchSize <= 0 {
		return fmt.Errorf("EMBED_BATCH_SIZE must be positive, got %d", c.EmbedBatchSize)
	}
	if c.DefaultTopK <= 0 {
		return fmt.Errorf("RETRIEVE_TOP_K must be positive, got %d", c.DefaultTopK)
	}
	if c.RateLimitMax <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive, got %d", c.RateLimitMax)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("LECTERN_TEMPERATURE must be 0-2, got %f", c.Temperature)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
