package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local dev
	"http://localhost:5173", // Vite dev server
}

// CORS returns middleware that applies the storefront origin policy. The
// configured origin is appended to the local development allowlist.
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	origins := append([]string{}, defaultCORSOrigins...)
	if origin := strings.TrimSpace(allowedOrigin); origin != "" {
		origins = append(origins, origin)
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
