package middleware

import (
	"net/http"

	"github.com/rs/cors"
	"go.uber.org/zap"
)

// CORS creates CORS middleware for the given origins. Preflight requests are
// answered directly; the item API is open to GET, POST, PUT and DELETE.
func CORS(allowedOrigins []string, logger *zap.Logger) func(http.Handler) http.Handler {
	logger.Info("cors_configured", zap.Strings("allowed_origins", allowedOrigins))
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Location", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	})
	return c.Handler
}
