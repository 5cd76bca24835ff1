// Package identity issues per-conversation session tokens and injects
// them into request contexts.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	// CookieName carries the conversation token between requests.
	CookieName = "catbot_session"
	// HeaderName lets non-cookie clients (websocket tools, scripts)
	// supply their own token.
	HeaderName = "X-Chat-Session"

	cookieMaxAge = 24 * time.Hour
)

type contextKey int

const tokenKey contextKey = iota

var tokenPattern = regexp.MustCompile(`^chat_[a-f0-9]{32}$`)

// TokenFromContext extracts the session token from the request context.
func TokenFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(tokenKey).(string); ok {
		return v
	}
	return ""
}

func generateToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return "chat_" + hex.EncodeToString(buf), nil
}

func isValidToken(t string) bool {
	return tokenPattern.MatchString(t)
}

func setTokenCookie(w http.ResponseWriter, token string, isDev bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		Expires:  time.Now().Add(cookieMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
	})
}

// tokenFromRequest finds a caller-supplied token, header first so
// explicit clients beat stale cookies.
func tokenFromRequest(r *http.Request) string {
	if t := strings.TrimSpace(r.Header.Get(HeaderName)); isValidToken(t) {
		return t
	}
	if c, err := r.Cookie(CookieName); err == nil && isValidToken(c.Value) {
		return c.Value
	}
	return ""
}

// Middleware ensures every request carries a conversation token,
// issuing one on first contact.
func Middleware(isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				var err error
				token, err = generateToken()
				if err != nil {
					http.Error(w, `{"error":"failed to establish session identity"}`, http.StatusInternalServerError)
					return
				}
			}
			setTokenCookie(w, token, isDev)

			ctx := context.WithValue(r.Context(), tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
