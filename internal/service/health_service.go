package service

import (
	"context"
	"time"

	"nemo-ecommerce/internal/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
)

const (
	StatusUp   = "UP"
	StatusDown = "DOWN"
)

// Pinger is satisfied by the database provider.
type Pinger interface {
	Client(ctx context.Context) (*mongo.Client, error)
}

type HealthService struct {
	mongo   Pinger
	timeout time.Duration
}

type HealthStatus struct {
	Mongo string
}

func (h HealthStatus) Healthy() bool {
	return h.Mongo == StatusUp
}

var HealthServiceTracer = otel.Tracer("HealthService")

func NewHealthService(mongo Pinger) *HealthService {
	return &HealthService{
		mongo:   mongo,
		timeout: 2 * time.Second,
	}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	ctx, span := HealthServiceTracer.Start(ctx, "HealthService.Check")
	defer span.End()
	logger.Debug(ctx, "Service")

	status := HealthStatus{Mongo: StatusUp}

	mongoCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	client, err := s.mongo.Client(mongoCtx)
	if err != nil {
		status.Mongo = StatusDown
		return status
	}
	if err := client.Ping(mongoCtx, nil); err != nil {
		status.Mongo = StatusDown
	}
	return status
}
