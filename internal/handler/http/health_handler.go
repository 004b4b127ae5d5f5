package http

import (
	"context"
	"net/http"

	"nemo-ecommerce/internal/service"

	"go.opentelemetry.io/otel"
)

// HealthChecker reports dependency status.
type HealthChecker interface {
	Check(ctx context.Context) service.HealthStatus
}

type HealthHandler struct {
	service HealthChecker
}

const livenessMessage = "Nemo E-commerce Server is running"

var HttpHealthHandlerTracer = otel.Tracer("HttpHealthHandler")

func NewHealthHandler(service HealthChecker) *HealthHandler {
	return &HealthHandler{
		service: service,
	}
}

// Liveness answers without touching the database.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(livenessMessage))
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpHealthHandlerTracer.Start(r.Context(), "HttpHealthHandler.Check")
	defer span.End()

	status := h.service.Check(ctx)

	overall, code := service.StatusUp, http.StatusOK
	if !status.Healthy() {
		overall, code = service.StatusDown, http.StatusServiceUnavailable
	}

	RespondJSON(ctx, w, code, map[string]any{
		"status": overall,
		"data": map[string]string{
			"mongodb": status.Mongo,
		},
	})
}
