package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// ErrBackendUnavailable covers every generation failure: a rejected model
// identifier, a timeout, exhausted quota, or an empty candidate. Callers
// move on to the next model in their list instead of retrying this one.
var ErrBackendUnavailable = errors.New("generative backend unavailable")

// Client produces a reply for a prompt using one named model.
type Client interface {
	Generate(ctx context.Context, modelID, prompt string) (string, error)
}

// Options tune generation requests.
type Options struct {
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
}

// GeminiClient calls the Gemini generative-language API.
type GeminiClient struct {
	client *genai.Client
	opts   Options
}

// NewGeminiClient builds a client bound to the supplied credential. The
// request timeout is enforced here through the underlying HTTP client;
// callers only ever see the resulting failure.
func NewGeminiClient(ctx context.Context, apiKey string, timeout time.Duration, opts Options) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{client: client, opts: opts}, nil
}

// Generate asks a single model for a reply. It never retries.
func (c *GeminiClient) Generate(ctx context.Context, modelID, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.opts.Temperature),
		TopP:            genai.Ptr(c.opts.TopP),
		MaxOutputTokens: c.opts.MaxOutputTokens,
	}

	resp, err := c.client.Models.GenerateContent(ctx, modelID, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("%w: model %s: %v", ErrBackendUnavailable, modelID, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: model %s returned no text", ErrBackendUnavailable, modelID)
	}
	return text, nil
}
