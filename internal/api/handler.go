// Package api provides HTTP handlers for the chatbot API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/chatbotcat-dotcom/chatbot-cat/internal/dialogue"
	"github.com/chatbotcat-dotcom/chatbot-cat/internal/lookup"
	"github.com/chatbotcat-dotcom/chatbot-cat/internal/report"
	"github.com/chatbotcat-dotcom/chatbot-cat/internal/session"
)

// maxRequestBodySize caps chat request bodies (64KB is generous for a
// menu-driven conversation).
const maxRequestBodySize = 64 << 10

// Handler provides common handler utilities and dependencies.
type Handler struct {
	sessions *session.Store
	engine   *dialogue.Engine
	gateway  lookup.Gateway
	reports  report.Assembler
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(sessions *session.Store, engine *dialogue.Engine, gateway lookup.Gateway, reports report.Assembler) *Handler {
	return &Handler{
		sessions: sessions,
		engine:   engine,
		gateway:  gateway,
		reports:  reports,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
