package server

import (
	"context"
	"log/slog"
	"net"
	"time"

	"nemo-ecommerce/internal/logger"
	middleware_grpc "nemo-ecommerce/internal/middleware/grpc"
	"nemo-ecommerce/internal/service"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ProductServiceName is the health service name reported next to the overall "" entry.
const ProductServiceName = "nemo.product.v1.ProductService"

// HealthChecker is implemented by service.HealthService.
type HealthChecker interface {
	Check(ctx context.Context) service.HealthStatus
}

// NewGRPCHealthServer builds a gRPC server exposing grpc.health.v1 and the
// health server whose status SyncHealth keeps up to date.
func NewGRPCHealthServer() (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(
		grpc.UnaryInterceptor(middleware_grpc.UnaryTracingInterceptor()),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)
	return srv, hs
}

// SyncHealth polls checker every interval until ctx is done.
func SyncHealth(ctx context.Context, checker HealthChecker, hs *health.Server, interval time.Duration) {
	update := func() {
		st := healthpb.HealthCheckResponse_SERVING
		if !checker.Check(ctx).Healthy() {
			st = healthpb.HealthCheckResponse_NOT_SERVING
		}
		hs.SetServingStatus("", st)
		hs.SetServingStatus(ProductServiceName, st)
	}

	update()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-ticker.C:
			update()
		}
	}
}

// RunGRPC serves srv on addr in the background.
func RunGRPC(ctx context.Context, addr string, srv *grpc.Server) (CleanupFunc, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "gRPC health server running", slog.String("addr", lis.Addr().String()))
	go func() {
		if err := srv.Serve(lis); err != nil {
			logger.Error(ctx, "gRPC server failed", slog.String("error", err.Error()))
		}
	}()

	return func(ctx context.Context) error {
		done := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			srv.Stop()
		}
		return nil
	}, nil
}
