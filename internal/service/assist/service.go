package assist

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/pharmahub/assistant-backend/internal/service/ai"
	"github.com/pharmahub/assistant-backend/internal/service/history"
)

// DefaultSessionID correlates turns for callers that do not supply their
// own session identifier.
const DefaultSessionID = "default"

// GeneratedSource tags replies produced by the generative backend.
const GeneratedSource = "gemini"

var (
	// ErrEmptyMessage is the only failure visible to callers; everything
	// else degrades into a fallback reply.
	ErrEmptyMessage = errors.New("message is required")
	// ErrNotConfigured is reported by Probe when no credential was supplied
	// at startup.
	ErrNotConfigured = errors.New("generative backend not configured")
)

// systemPreamble pins the assistant to marketplace navigation. The hard rule
// against medical advice is part of the product contract, not a style choice.
const systemPreamble = "You are the shopping assistant of an online pharmacy marketplace. " +
	"Help users navigate the platform: searching for medications, comparing prices between partner " +
	"pharmacies, delivery options, pharmacy registration, prescription uploads, and order tracking. " +
	"Keep answers short and practical. You must never give medical advice, dosage recommendations, or " +
	"opinions on symptoms; redirect any medical question to a licensed pharmacist or doctor.\n\nUser message: "

// Reply is the outcome of resolving one user message.
type Reply struct {
	Text       string
	Model      string
	Source     string
	IsFallback bool
}

// Service turns user messages into replies, preferring generated content and
// degrading to canned answers when the backend cannot deliver.
type Service struct {
	client ai.Client // nil when no credential was configured
	models []string
	store  history.Store
}

// NewService wires the resolution service. A nil client is the unconfigured
// state: every resolution goes straight to the fallback path.
func NewService(client ai.Client, models []string, store history.Store) *Service {
	return &Service{client: client, models: models, store: store}
}

// Resolve produces a reply for the message. Generation failures never
// surface: the caller sees either ErrEmptyMessage or a usable reply.
func (s *Service) Resolve(ctx context.Context, message, sessionID string) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, ErrEmptyMessage
	}
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	if text, modelID, ok := s.generate(ctx, message); ok {
		s.store.Append(sessionID, message, text)
		return Reply{Text: text, Model: modelID, Source: GeneratedSource}, nil
	}

	return Reply{Text: ResolveFallback(message), Source: FallbackSource, IsFallback: true}, nil
}

// generate probes the configured models strictly in order, stopping at the
// first success. A failed model is skipped, never retried, and no model runs
// in parallel with another. A panic during generation counts as a failed
// probe so the caller still falls back.
func (s *Service) generate(ctx context.Context, message string) (text, modelID string, ok bool) {
	if s.client == nil {
		return "", "", false
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[assist] generation panicked, using fallback: %v", r)
			text, modelID, ok = "", "", false
		}
	}()

	prompt := systemPreamble + message
	for _, candidate := range s.models {
		reply, err := s.client.Generate(ctx, candidate, prompt)
		if err != nil {
			log.Printf("[assist] model %s failed: %v", candidate, err)
			continue
		}
		return reply, candidate, true
	}
	return "", "", false
}

// Clear drops the session's history. Unknown sessions are a no-op.
func (s *Service) Clear(sessionID string) {
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	s.store.Clear(sessionID)
}

// Probe issues one diagnostic generation without touching any session.
func (s *Service) Probe(ctx context.Context) (string, error) {
	if s.client == nil {
		return "", ErrNotConfigured
	}

	var lastErr error
	for _, candidate := range s.models {
		if _, err := s.client.Generate(ctx, candidate, "Reply with the single word: ok"); err != nil {
			lastErr = err
			continue
		}
		return candidate, nil
	}
	if lastErr == nil {
		lastErr = ai.ErrBackendUnavailable
	}
	return "", lastErr
}

// suggestions are the starter questions offered to new users. Static on
// purpose: they exist to teach the fallback vocabulary as much as to help.
var suggestions = []string{
	"Where can I find paracetamol?",
	"How much does ibuprofen cost?",
	"Which pharmacies deliver to my area?",
	"How do I register my pharmacy on the platform?",
	"Do I need a prescription to order antibiotics?",
	"How do I track my order?",
}

// Suggestions returns the starter question list.
func (s *Service) Suggestions() []string {
	copied := make([]string, len(suggestions))
	copy(copied, suggestions)
	return copied
}
