package apitest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

type contextKey string

const contextKeyUser contextKey = "user"

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain chains multiple middlewares together.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// requestID echoes the caller's X-Request-ID.
func requestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := r.Header.Get("X-Request-ID"); id != "" {
				w.Header().Set("X-Request-ID", id)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// record appends every request to the server log.
func (s *Server) record() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.mu.Lock()
			s.requests = append(s.requests, Request{
				Method:        r.Method,
				Path:          r.URL.Path,
				Authorization: r.Header.Get("Authorization"),
				RequestID:     r.Header.Get("X-Request-ID"),
			})
			s.mu.Unlock()
			next.ServeHTTP(w, r)
		})
	}
}

// bearerAuth rejects requests without a live token, except for paths in
// skip.
func (s *Server) bearerAuth(skip ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, path := range skip {
				if r.URL.Path == path {
					next.ServeHTTP(w, r)
					return
				}
			}

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "No token provided")
				return
			}

			s.mu.Lock()
			user, ok := s.tokens[strings.TrimPrefix(header, "Bearer ")]
			s.mu.Unlock()
			if !ok {
				writeError(w, http.StatusUnauthorized, "Token is not valid")
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// malformed answers a registered path with a body that is not JSON.
func (s *Server) malformed() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.mu.Lock()
			bad := s.malformedPaths[r.URL.Path]
			s.mu.Unlock()
			if bad {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"unexpected":`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// recoverPanic turns a handler panic into a 500.
func recoverPanic(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered", "error", err, "path", r.URL.Path)
					writeError(w, http.StatusInternalServerError, "Server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
