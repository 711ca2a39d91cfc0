package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/nerrad567/heritage-sites/internal/auth"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const (
	ctxKeyRequestID contextKey = "request_id"
	ctxKeySession   contextKey = "session"
)

// requestIDMiddleware generates a unique request ID for each request.
// If the client sends an X-Request-ID header, it is used; otherwise one is generated.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware logs each HTTP request with method, path, status, and duration.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestIDFromContext(r.Context()),
		)
	})
}

// recoveryMiddleware catches panics in handlers and renders a 500 page.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("panic recovered in HTTP handler",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", requestIDFromContext(r.Context()),
				)
				s.renderStatus(w, r, http.StatusInternalServerError, "Something went wrong on our side.")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// maxRequestBodySize is the maximum allowed request body size (1 MB).
const maxRequestBodySize = 1 << 20

// bodySizeLimitMiddleware caps the size of incoming form posts.
func (s *Server) bodySizeLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		}
		next.ServeHTTP(w, r)
	})
}

// sessionMiddleware attaches the claims of a valid session cookie to the
// request context. Invalid or expired cookies are cleared.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.session.CookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := auth.ParseSession(cookie.Value, s.session.Secret)
		if err != nil {
			s.logger.Debug("discarding session cookie",
				"error", err,
				"request_id", requestIDFromContext(r.Context()),
			)
			s.clearSessionCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeySession, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireLogin redirects anonymous visitors to the login page with the
// requested path as next. Sessions of disabled or removed accounts are
// cleared and treated as anonymous.
func (s *Server) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target := "/accounts/login?next=" + url.QueryEscape(r.URL.RequestURI())

		claims := sessionFromContext(r.Context())
		if claims == nil {
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}

		user, err := s.users.GetByID(r.Context(), claims.Subject)
		if err != nil && !errors.Is(err, auth.ErrUserNotFound) {
			s.serverError(w, r, err)
			return
		}
		if user == nil || !user.IsActive {
			s.logger.Info("rejecting session of inactive account",
				"user_id", claims.Subject,
				"request_id", requestIDFromContext(r.Context()),
			)
			s.clearSessionCookie(w)
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		if !claims.CanEdit() {
			s.renderStatus(w, r, http.StatusForbidden, "Your account may not change the catalog.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sessionFromContext returns the logged-in session, or nil.
func sessionFromContext(ctx context.Context) *auth.SessionClaims {
	claims, _ := ctx.Value(ctxKeySession).(*auth.SessionClaims) //nolint:errcheck // type assertion, nil when absent
	return claims
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string) //nolint:errcheck // type assertion, empty when absent
	return id
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// requestIDBytes is the number of random bytes used for request IDs.
const requestIDBytes = 8

// generateRequestID creates a random hex request ID.
func generateRequestID() string {
	b := make([]byte, requestIDBytes)
	//nolint:errcheck // crypto/rand.Read always returns len(b) on supported platforms
	rand.Read(b)
	return hex.EncodeToString(b)
}
