package middleware

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"time"
)

const (
	// DefaultMaxRequestSize bounds request bodies. A profile plus a day's
	// todo list is a few kilobytes; 1MB leaves ample headroom.
	DefaultMaxRequestSize int64 = 1 << 20

	// DefaultRequestTimeout applies when Timeout is given a non-positive value
	DefaultRequestTimeout = 30 * time.Second
)

// ContentType requires application/json on POST, PUT and PATCH requests
// that carry a body. Body-less requests such as "apply alternative" pass.
func ContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !hasBody(r) {
			next.ServeHTTP(w, r)
			return
		}
		raw := r.Header.Get("Content-Type")
		if raw == "" {
			writeError(w, r, http.StatusBadRequest, "Content-Type header is required")
			return
		}
		mediaType, _, err := mime.ParseMediaType(raw)
		if err != nil || mediaType != "application/json" {
			writeError(w, r, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func hasBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return false
	}
	return r.ContentLength != 0 && r.Body != nil && r.Body != http.NoBody
}

// MaxRequestSize rejects declared oversize bodies up front and caps the rest
// with http.MaxBytesReader. Handlers see *http.MaxBytesError on overflow.
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestSize
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				writeError(w, r, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// Timeout bounds handler run time. The deadline propagates through the
// request context to store and queue calls; a handler still running when
// it expires is answered with a 503 JSON envelope.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			r = r.WithContext(ctx)

			body, _ := json.Marshal(newErrorResponse(r, http.StatusServiceUnavailable, "Request timed out"))
			w.Header().Set("Content-Type", "application/json")
			http.TimeoutHandler(next, timeout, string(body)).ServeHTTP(w, r)
		})
	}
}
