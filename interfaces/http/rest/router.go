package rest

import (
	"context"
	"net/http"
	"time"

	querybus "socialgraph/application/queries/bus"
	"socialgraph/infrastructure/config"
	"socialgraph/interfaces/http/rest/handlers"
	"socialgraph/interfaces/http/rest/middleware"
	"socialgraph/pkg/common"
	"socialgraph/pkg/errors"
	"socialgraph/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

const (
	apiVersion      = "v1"
	rateLimiterIdle = 10 * time.Minute
)

// Router creates and configures the HTTP router
type Router struct {
	cfg      *config.Config
	queryBus *querybus.QueryBus
	metrics  *observability.Collector
	tracer   *observability.Tracer
	ready    func(ctx context.Context) error
	logger   *zap.Logger
}

// NewRouter creates a new router instance. ready backs the /ready probe and
// may be nil.
func NewRouter(
	cfg *config.Config,
	queryBus *querybus.QueryBus,
	metrics *observability.Collector,
	tracer *observability.Tracer,
	ready func(ctx context.Context) error,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:      cfg,
		queryBus: queryBus,
		metrics:  metrics,
		tracer:   tracer,
		ready:    ready,
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()
	errorHandler := errors.NewErrorHandler(rt.logger, rt.cfg.IsDevelopment())

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(errorHandler.Middleware)
	router.Use(middleware.Logger(rt.logger))
	if rt.cfg.EnableMetrics {
		router.Use(middleware.Metrics(rt.metrics))
	}
	if rt.cfg.EnableTracing {
		router.Use(rt.tracer.Handler)
	}
	router.Use(versionMiddleware)

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: rt.cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID", "X-API-Version"},
			MaxAge:         300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errorHandler.HandleStatus(w, r, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		errorHandler.HandleStatus(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck(errorHandler))
	if rt.cfg.EnableMetrics {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if rt.cfg.RateLimitRPS > 0 {
			limiter := middleware.NewRateLimiter(rt.cfg.RateLimitRPS, rt.cfg.RateLimitBurst, rateLimiterIdle)
			r.Use(limiter.Middleware(errorHandler))
		}
		r.Use(chimiddleware.Timeout(rt.cfg.RequestTimeout))

		userHandler := handlers.NewUserHandler(rt.queryBus, errorHandler, rt.logger)
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/connection/{targetID}", userHandler.FindConnection)
			r.Get("/mutual/{otherID}", userHandler.MutualFriends)
			r.Get("/suggestions", userHandler.SuggestFriends)
			r.Get("/feed", userHandler.RankedFeed)
		})

		communityHandler := handlers.NewCommunityHandler(rt.queryBus, errorHandler)
		r.Get("/communities", communityHandler.DetectCommunities)
		r.Get("/communities/backbone", communityHandler.FriendshipBackbone)

		postHandler := handlers.NewPostHandler(rt.queryBus, errorHandler)
		r.Get("/posts/trending", postHandler.TrendingPosts)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck reports whether the data source answers
func (rt *Router) readinessCheck(errorHandler *errors.ErrorHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if rt.ready != nil {
			if err := rt.ready(req.Context()); err != nil {
				errorHandler.Handle(w, req, errors.NewUnavailableError("data source").WithCause(err))
				return
			}
		}
		common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// versionMiddleware adds API version headers to all responses
func versionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-API-Version", apiVersion)
		next.ServeHTTP(w, r)
	})
}
