package api

import (
	"log/slog"
	"net/http"
	"time"
	"todo_api/internal/api/handler"
	"todo_api/internal/api/middleware"
	"todo_api/internal/app/service"
	"todo_api/internal/common/security"
	"todo_api/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus"
)

func NewRouter(
	logger *slog.Logger,
	tokens *security.TokenIssuer,
	revoker middleware.RevocationChecker,
	rateLimiter *middleware.RateLimiter,
	collector *metrics.Collector,
	gatherer prometheus.Gatherer,
	allowedOrigins []string,
	authService *service.AuthService,
	taskService *service.TaskService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewMetricsMiddleware(collector))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(middleware.NewCORSMiddleware(allowedOrigins))
	r.Use(rateLimiter.Middleware())

	// Verifies the bearer token when present and puts claims in context.
	// Rejection happens later in the Authenticator so public routes work.
	r.Use(jwtauth.Verifier(tokens.Auth()))

	// Root banner and liveness probe (public)
	healthHandler := handler.NewHealthHandler()
	healthHandler.RegisterRoutes(r)

	// Prometheus scrape endpoint
	r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Group(func(public chi.Router) {
			authHandler.RegisterPublicRoutes(public)
		})

		v1.Group(func(protected chi.Router) {
			protected.Use(middleware.NewAuthenticator(revoker))
			authHandler.RegisterProtectedRoutes(protected)

			taskHandler := handler.NewTaskHandler(taskService)
			protected.Route("/tasks", taskHandler.RegisterRoutes)
		})
	})

	return r
}
