package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"presight/pkg/config"
	"presight/pkg/http/handlers"
	"presight/pkg/logging"
	"presight/pkg/metrics"
)

// Server is the HTTP front of the service.
type Server struct {
	httpServer *http.Server
	logger     *logging.Logger
}

// Handlers bundles the route handlers the server mounts.
type Handlers struct {
	Stats      *handlers.StatsHandlers
	Prediction *handlers.PredictionHandlers
	Report     *handlers.ReportHandlers
	User       *handlers.UserHandlers
	Health     *handlers.HealthHandler
}

// NewServer builds the router and wraps it in an http.Server.
func NewServer(cfg config.ServerConfig, logger *logging.Logger, mets *metrics.Metrics, h Handlers) *Server {
	router := chi.NewRouter()

	router.Use(middleware.Recoverer)
	router.Use(TraceMiddleware)
	router.Use(RequestLoggingMiddleware(logger))
	if mets != nil {
		router.Use(MetricsMiddleware(mets))
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/stats/users", h.Stats.GetUsersOnline)
		r.Get("/stats/user/total", h.Stats.GetUserTotal)
		r.Get("/predictions/users", h.Prediction.Predict)
		r.Get("/user/forget", h.User.ForgetUser)
		r.Get("/users/list", h.User.ListUsers)

		r.Post("/report/{name}", h.Report.CreateReport)
		r.Get("/report/{name}", h.Report.GetReport)
		r.Get("/reports", h.Report.ListReports)
	})

	h.Health.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logger,
	}
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Infof("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
