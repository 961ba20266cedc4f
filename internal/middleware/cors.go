package middleware

import (
	"net/http"

	"github.com/benvon/replan/internal/request"
	"github.com/rs/cors"
)

// DefaultCORSMaxAge caches preflight responses for a day
const DefaultCORSMaxAge = 86400

// CORS wraps handlers with rs/cors for the given origins. An empty list
// allows only the local development frontend.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		MaxAge:           DefaultCORSMaxAge,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", request.RequestIDHeader},
		ExposedHeaders:   []string{request.RequestIDHeader},
	})
	return c.Handler
}
