package router

import (
	"net/http"

	"github.com/rs/cors"
)

// WithCORS wraps h so browsers from origins can call it. An empty origins
// list allows none.
func WithCORS(h http.Handler, origins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-WP-Nonce", HeaderCorrelationID, HeaderRequestID},
		ExposedHeaders: []string{HeaderCorrelationID},
	}).Handler(h)
}
