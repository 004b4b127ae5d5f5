package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	handler "nemo-ecommerce/internal/handler/http"
	"nemo-ecommerce/internal/logger"
	middleware_http "nemo-ecommerce/internal/middleware/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOptions struct {
	MaxBodyBytes       int64
	CorsAllowedOrigins []string
	// Registry receives the HTTP metrics; nil disables /metrics.
	Registry *prometheus.Registry
}

// NewRouter wires middleware and routes.
func NewRouter(opts RouterOptions, products *handler.ProductHandler, health *handler.HealthHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware_http.Recoverer,
		middleware.RealIP,
		middleware_http.CorrelationID,
		middleware.RequestSize(opts.MaxBodyBytes),
		cors.Handler(cors.Options{
			AllowedOrigins:   opts.CorsAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization", middleware_http.CorrelationIDHeader, "traceparent"},
			ExposedHeaders:   []string{"X-Trace-ID", middleware_http.CorrelationIDHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		middleware_http.Trace(),
	)

	if opts.Registry != nil {
		metrics := middleware_http.NewMetrics(opts.Registry)
		r.Use(metrics.Middleware)
		r.Handle(middleware_http.MetricsPath, promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	}

	r.Get("/", health.Liveness)
	r.Get("/healthz", health.Check)
	products.Routes(r)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handler.RespondError(r.Context(), w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handler.RespondError(r.Context(), w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

type CleanupFunc func(ctx context.Context) error

// RunHTTP serves h on addr in the background. The returned func shuts it down gracefully.
func RunHTTP(ctx context.Context, addr string, h http.Handler) (CleanupFunc, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info(ctx, "HTTP server running", slog.String("addr", lis.Addr().String()))
	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "HTTP server failed", slog.String("error", err.Error()))
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}
