package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/chatbotcat-dotcom/chatbot-cat/internal/dialogue"
	"github.com/chatbotcat-dotcom/chatbot-cat/internal/domain"
	"github.com/chatbotcat-dotcom/chatbot-cat/internal/identity"
	"github.com/go-chi/chi/v5"
)

// chatRequest is one inbound user message.
type chatRequest struct {
	Message string `json:"message"`
}

// chatAttachment mirrors dialogue.Attachment for the wire. Data is
// base64 in JSON.
type chatAttachment struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// chatResponse is the reply for one message.
type chatResponse struct {
	Reply       string           `json:"reply"`
	Attachments []chatAttachment `json:"attachments,omitempty"`
	SessionEnd  bool             `json:"session_end,omitempty"`
}

// HandleChat processes one chat message for the request's session.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	token := identity.TokenFromContext(r.Context())
	if token == "" {
		Error(w, http.StatusUnauthorized, "no session")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.dispatch(r, token, req.Message)
	if err != nil {
		slog.Error("Chat dispatch failed", "token", token, "error", err)
		Error(w, http.StatusServiceUnavailable, "the technical database is unavailable, please retry")
		return
	}

	out := chatResponse{Reply: resp.Text, SessionEnd: resp.EndSession}
	for _, a := range resp.Attachments {
		out.Attachments = append(out.Attachments, chatAttachment{
			Kind:        a.Kind,
			Name:        a.Name,
			ContentType: a.ContentType,
			Data:        a.Data,
		})
	}
	JSON(w, http.StatusOK, out)
}

// dispatch runs one message through the engine under the session lock
// and applies the end-of-session signal.
func (h *Handler) dispatch(r *http.Request, token, message string) (dialogue.Response, error) {
	var resp dialogue.Response
	err := h.sessions.Do(token, func(ses *domain.Session) error {
		var handleErr error
		resp, handleErr = h.engine.Handle(r.Context(), ses, message)
		return handleErr
	})
	if err != nil {
		return dialogue.Response{}, fmt.Errorf("handle message: %w", err)
	}
	if resp.EndSession {
		h.sessions.Destroy(token)
	}
	return resp, nil
}

// HandleReport serves the current session's accumulated results as a
// downloadable document.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	token := identity.TokenFromContext(r.Context())
	if token == "" {
		Error(w, http.StatusUnauthorized, "no session")
		return
	}

	var model, serial string
	var codes []domain.FaultCodeRecord
	var events []domain.EventRecord
	err := h.sessions.Do(token, func(ses *domain.Session) error {
		model = ses.Model
		serial = ses.SerialPrefix
		codes = append(codes, ses.CodeResults...)
		events = append(events, ses.EventResults...)
		return nil
	})
	if err != nil {
		Error(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	doc, err := h.reports.Build(model, serial, codes, events)
	if err != nil {
		slog.Error("Report build failed", "token", token, "error", err)
		Error(w, http.StatusServiceUnavailable, "report assembler unavailable")
		return
	}

	// Hand-off succeeded; clear the accumulated lists.
	clearErr := h.sessions.Do(token, func(ses *domain.Session) error {
		ses.CodeResults = nil
		ses.EventResults = nil
		return nil
	})
	if clearErr != nil {
		slog.Warn("Failed to clear session results after report", "token", token, "error", clearErr)
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Data); err != nil {
		slog.Debug("Failed to write report body", "error", err)
	}
}

// RegisterRoutes registers the chat API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", h.HandleChat)
		r.Get("/report", h.HandleReport)
	})
}
