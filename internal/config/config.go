package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates the service configuration.
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	RateLimit RateLimitConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	rateLimit, err := loadRateLimitConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, RateLimit: rateLimit}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// defaultModels is the generation priority list, probed strictly in order.
// Override with GEMINI_MODELS when a deployment needs a different set.
var defaultModels = []string{
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
	"gemini-1.5-flash",
	"gemini-1.5-flash-8b",
	"gemini-1.5-pro",
}

// AIConfig describes the generative backend.
type AIConfig struct {
	APIKey          string
	Models          []string
	Temperature     float64
	TopP            float64
	MaxOutputTokens int
	Timeout         time.Duration
}

// Enabled reports whether a credential was supplied. Without one the
// generation path stays off for the lifetime of the process.
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("GEMINI_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("GEMINI_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("GEMINI_MAX_OUTPUT_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	timeoutSeconds, err := parseOptionalIntEnv("GEMINI_TIMEOUT_SECONDS")
	if err != nil {
		return AIConfig{}, err
	}

	cfg := AIConfig{
		APIKey:          strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		Models:          parseModelList(os.Getenv("GEMINI_MODELS")),
		Temperature:     0.7,
		TopP:            0.9,
		MaxOutputTokens: 512,
		Timeout:         30 * time.Second,
	}

	if temperature != nil {
		cfg.Temperature = *temperature
	}
	if topP != nil {
		cfg.TopP = *topP
	}
	if maxTokens != nil {
		if *maxTokens < 1 {
			return AIConfig{}, fmt.Errorf("GEMINI_MAX_OUTPUT_TOKENS must be positive, got %d", *maxTokens)
		}
		cfg.MaxOutputTokens = *maxTokens
	}
	if timeoutSeconds != nil {
		if *timeoutSeconds < 1 {
			return AIConfig{}, fmt.Errorf("GEMINI_TIMEOUT_SECONDS must be positive, got %d", *timeoutSeconds)
		}
		cfg.Timeout = time.Duration(*timeoutSeconds) * time.Second
	}

	return cfg, nil
}

func parseModelList(raw string) []string {
	models := make([]string, 0, len(defaultModels))
	for _, part := range strings.Split(raw, ",") {
		if model := strings.TrimSpace(part); model != "" {
			models = append(models, model)
		}
	}
	if len(models) == 0 {
		return append(models, defaultModels...)
	}
	return models
}

// RateLimitConfig describes the per-client limit in front of the chat
// endpoint.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func loadRateLimitConfig() (RateLimitConfig, error) {
	requests, err := parseOptionalIntEnv("RATE_LIMIT_REQUESTS")
	if err != nil {
		return RateLimitConfig{}, err
	}

	windowMinutes, err := parseOptionalIntEnv("RATE_LIMIT_WINDOW_MINUTES")
	if err != nil {
		return RateLimitConfig{}, err
	}

	cfg := RateLimitConfig{Requests: 100, Window: 15 * time.Minute}
	if requests != nil {
		if *requests < 1 {
			return RateLimitConfig{}, fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", *requests)
		}
		cfg.Requests = *requests
	}
	if windowMinutes != nil {
		if *windowMinutes < 1 {
			return RateLimitConfig{}, fmt.Errorf("RATE_LIMIT_WINDOW_MINUTES must be positive, got %d", *windowMinutes)
		}
		cfg.Window = time.Duration(*windowMinutes) * time.Minute
	}

	return cfg, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
