package assist

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	assistservice "github.com/pharmahub/assistant-backend/internal/service/assist"
	"github.com/pharmahub/assistant-backend/pkg/utils"
)

// apologyReply is what users see when resolution itself breaks. Never a raw
// error: availability over transparency.
const apologyReply = "Sorry, something went wrong on our side. Please try again in a moment, or use the " +
	"search bar to find the medication you need."

// Handler exposes the marketplace assistant over HTTP.
type Handler struct {
	svc *assistservice.Service
}

// New creates the assistant handler.
func New(svc *assistservice.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the assistant endpoints. chatLimiter fronts only the
// chat route; the other endpoints are cheap and unthrottled.
func (h *Handler) RegisterRoutes(r chi.Router, chatLimiter func(http.Handler) http.Handler) {
	if chatLimiter != nil {
		r.With(chatLimiter).Post("/chat", h.handleChat)
	} else {
		r.Post("/chat", h.handleChat)
	}
	r.Get("/suggestions", h.handleSuggestions)
	r.Post("/clear", h.handleClear)
	r.Get("/test", h.handleTest)
}

type chatResponse struct {
	Success        bool   `json:"success"`
	Reply          string `json:"reply"`
	SessionID      string `json:"sessionId"`
	Timestamp      string `json:"timestamp"`
	Source         string `json:"source"`
	Model          string `json:"model,omitempty"`
	IsFallback     bool   `json:"isFallback"`
	ResponseLength int    `json:"responseLength"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message   string `json:"message"`
		SessionID string `json:"sessionId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := payload.SessionID
	if sessionID == "" {
		sessionID = assistservice.DefaultSessionID
	}

	reply, err := h.svc.Resolve(r.Context(), payload.Message, sessionID)
	if err != nil {
		if errors.Is(err, assistservice.ErrEmptyMessage) {
			utils.RespondError(w, http.StatusBadRequest, "Message is required")
			return
		}
		// Resolution only fails hard on empty input; anything else gets the
		// generic apology instead of an error page.
		log.Printf("[http] chat resolution failed: %v", err)
		reply = assistservice.Reply{
			Text:       apologyReply,
			Source:     assistservice.FallbackSource,
			IsFallback: true,
		}
	}

	utils.RespondJSON(w, http.StatusOK, chatResponse{
		Success:        true,
		Reply:          reply.Text,
		SessionID:      sessionID,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Source:         reply.Source,
		Model:          reply.Model,
		IsFallback:     reply.IsFallback,
		ResponseLength: len(reply.Text),
	})
}

func (h *Handler) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"suggestions": h.svc.Suggestions(),
	})
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
	}
	// Body is optional; a missing or malformed one clears the default session.
	_ = json.NewDecoder(r.Body).Decode(&payload)

	h.svc.Clear(payload.SessionID)

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Conversation history cleared",
	})
}

func (h *Handler) handleTest(w http.ResponseWriter, r *http.Request) {
	modelID, err := h.svc.Probe(r.Context())
	switch {
	case errors.Is(err, assistservice.ErrNotConfigured):
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"status":  "not_configured",
			"error":   "no generative backend credential supplied",
		})
	case err != nil:
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"status":  "unavailable",
			"error":   err.Error(),
		})
	default:
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"status":  "connected",
			"model":   modelID,
		})
	}
}
