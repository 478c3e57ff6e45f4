// Package server assembles the HTTP handler tree: routes, middleware and the
// supporting endpoints.
package server

import (
	"fmt"
	"net/http"

	"github.com/benvon/todo-items/api/openapi"
	"github.com/benvon/todo-items/internal/config"
	"github.com/benvon/todo-items/internal/database"
	"github.com/benvon/todo-items/internal/handlers"
	"github.com/benvon/todo-items/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

// ServiceName identifies this service in traces
const ServiceName = "todo-items-api"

// Deps are the collaborators the router needs
type Deps struct {
	Config *config.Config
	Store  database.TodoStore
	DB     handlers.Pinger
	// Redis is optional; when nil the rate limiter keeps counters in memory
	Redis   *redis.Client
	Logger  *zap.Logger
	Tracing bool
}

// NewHandler builds the complete HTTP handler
func NewHandler(deps Deps) (http.Handler, error) {
	cfg := deps.Config
	logger := deps.Logger

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	// mux middleware runs only for matched routes, in registration order
	if deps.Tracing {
		r.Use(otelmux.Middleware(ServiceName))
		logger.Info("otel_middleware_enabled")
	}
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	// Public routes (no rate limiting for health checks)
	healthChecker := handlers.NewHealthChecker(deps.DB, deps.Redis)
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/version", versionInfo).Methods(http.MethodGet)

	openAPIHandler, err := handlers.NewOpenAPIHandler(openapi.Spec)
	if err != nil {
		return nil, err
	}
	openAPIHandler.RegisterRoutes(r)

	rateLimitMW, err := middleware.RateLimit(cfg.RateLimit, deps.Redis, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	itemsRouter := apiRouter.PathPrefix("/items").Subrouter()
	itemsRouter.Use(rateLimitMW)
	handlers.NewTodoHandler(deps.Store, logger).RegisterRoutes(itemsRouter)

	// Outer wrappers see every request, including unmatched routes and CORS
	// preflights. Each wrap encloses the previous one; Logging is outermost.
	var h http.Handler = r
	h = middleware.CORS(cfg.AllowedOrigins(), logger)(h)
	h = middleware.SecurityHeaders(cfg.EnableHSTS)(h)
	h = middleware.ErrorHandler(logger)(h)
	h = middleware.Audit(logger)(h)
	h = middleware.Logging(logger)(h)

	return h, nil
}
