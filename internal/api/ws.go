package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/chatbotcat-dotcom/chatbot-cat/internal/identity"
	"github.com/coder/websocket"
)

// WebSocketHandler serves the chat over a WebSocket connection: one
// text frame in, one JSON reply frame out, same engine as the HTTP
// endpoint.
type WebSocketHandler struct {
	base          *Handler
	allowedOrigin string
	isDev         bool
}

// NewWebSocketHandler creates a new WebSocket chat handler.
func NewWebSocketHandler(base *Handler, allowedOrigin string, isDev bool) *WebSocketHandler {
	return &WebSocketHandler{base: base, allowedOrigin: allowedOrigin, isDev: isDev}
}

// wsInbound is one user message frame. Plain text frames are accepted
// too; JSON is for clients that want to be explicit.
type wsInbound struct {
	Message string `json:"message"`
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if h.isDev || h.allowedOrigin == "" {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || strings.HasPrefix(origin, h.allowedOrigin)
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := identity.TokenFromContext(r.Context())
	if token == "" {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "token", token)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "conversation ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "token", token)
		}
	}()

	slog.Info("WebSocket chat connected", "token", token, "ip", r.RemoteAddr)

	ctx := r.Context()
	for {
		typ, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway ||
				errors.Is(err, context.Canceled) {
				return
			}
			slog.Debug("WebSocket read error", "error", err, "token", token)
			return
		}
		if typ != websocket.MessageText {
			continue
		}

		message := string(data)
		var in wsInbound
		if json.Unmarshal(data, &in) == nil && in.Message != "" {
			message = in.Message
		}

		resp, err := h.base.dispatch(r, token, message)
		if err != nil {
			slog.Error("WebSocket chat dispatch failed", "token", token, "error", err)
			h.writeJSON(ctx, ws, map[string]string{
				"error": "the technical database is unavailable, please retry",
			})
			continue
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
		h.writeJSON(ctx, ws, out)

		if resp.EndSession {
			return
		}
	}
}

func (h *WebSocketHandler) writeJSON(ctx context.Context, ws *websocket.Conn, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Debug("WebSocket marshal error", "error", err)
		return
	}
	if err := ws.Write(ctx, websocket.MessageText, data); err != nil {
		slog.Debug("WebSocket write error", "error", err)
	}
}
