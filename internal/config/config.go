// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"storesmith/internal/ai"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// AI providers
	AIProvider        string // "openai", "gemini", "claude", "mistral"
	OpenAIKey         string
	OpenAIModel       string
	OpenAIModelImage  string
	OpenAIBaseURL     string
	GeminiKey         string
	GeminiModel       string
	GeminiModelImage  string
	GeminiBaseURL     string
	ClaudeKey         string
	ClaudeModel       string
	ClaudeBaseURL     string
	MistralKey        string
	MistralModel      string
	MistralBaseURL    string
	AICallTimeout     time.Duration // per text-generation call
	AIMaxConcurrency  int           // 0 = unbounded fan-out
	GenerateRateLimit int           // store generations per client per minute
	StoreCacheTTL     time.Duration
	HeroImagesEnabled bool

	// S3-compatible object storage for hero illustrations
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is loaded first; variables already set in the environment win. Returns an
// error if critical values are missing in production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "storesmith"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "storesmith"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AIProvider:       envOrDefault("AI_PROVIDER", "gemini"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      envOrDefault("OPENAI_MODEL", "gpt-4o"),
		OpenAIModelImage: os.Getenv("OPENAI_MODEL_IMAGE"),
		OpenAIBaseURL:    envOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		GeminiKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      envOrDefault("GEMINI_MODEL", "gemini-3.1-pro-preview"),
		GeminiModelImage: os.Getenv("GEMINI_MODEL_IMAGE"),
		GeminiBaseURL:    envOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		ClaudeKey:        os.Getenv("CLAUDE_API_KEY"),
		ClaudeModel:      envOrDefault("CLAUDE_MODEL", "claude-sonnet-4-6"),
		ClaudeBaseURL:    envOrDefault("CLAUDE_BASE_URL", "https://api.anthropic.com"),
		MistralKey:       os.Getenv("MISTRAL_API_KEY"),
		MistralModel:     envOrDefault("MISTRAL_MODEL", "mistral-large-latest"),
		MistralBaseURL:   envOrDefault("MISTRAL_BASE_URL", "https://api.mistral.ai/v1"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "storesmith-public"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),
	}

	var err error
	if cfg.AICallTimeout, err = durationOrDefault("AI_CALL_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}
	if cfg.AIMaxConcurrency, err = intOrDefault("AI_MAX_CONCURRENCY", 0); err != nil {
		return nil, err
	}
	if cfg.GenerateRateLimit, err = intOrDefault("GENERATE_RATE_LIMIT", 5); err != nil {
		return nil, err
	}
	if cfg.StoreCacheTTL, err = durationOrDefault("STORE_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.HeroImagesEnabled, err = boolOrDefault("HERO_IMAGES", false); err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if c, ok := cfg.AIConfigs()[cfg.AIProvider]; !ok || c.APIKey == "" {
			return nil, fmt.Errorf("AI_PROVIDER %q has no API key configured", cfg.AIProvider)
		}
	}

	return cfg, nil
}

// AIConfigs returns the per-provider settings keyed by provider name, in
// the shape ai.NewRegistry expects.
func (c *Config) AIConfigs() map[string]ai.ProviderConfig {
	return map[string]ai.ProviderConfig{
		"openai": {
			APIKey: c.OpenAIKey, Model: c.OpenAIModel,
			ModelImage: c.OpenAIModelImage, BaseURL: c.OpenAIBaseURL,
		},
		"gemini": {
			APIKey: c.GeminiKey, Model: c.GeminiModel,
			ModelImage: c.GeminiModelImage, BaseURL: c.GeminiBaseURL,
		},
		"claude":  {APIKey: c.ClaudeKey, Model: c.ClaudeModel, BaseURL: c.ClaudeBaseURL},
		"mistral": {APIKey: c.MistralKey, Model: c.MistralModel, BaseURL: c.MistralBaseURL},
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intOrDefault(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, v)
	}
	return n, nil
}

func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

func boolOrDefault(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}
