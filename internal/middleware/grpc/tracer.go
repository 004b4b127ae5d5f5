package middleware_grpc

import (
	"context"
	"time"

	"nemo-ecommerce/internal/logger"
	"nemo-ecommerce/internal/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

var tracer = otel.Tracer("GrpcMiddleware")

// UnaryTracingInterceptor continues the caller's trace from metadata, opens a
// server span named after the full method and logs request and response.
func UnaryTracingInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		ctx = otel.GetTextMapPropagator().Extract(ctx, telemetry.MetadataTextMapCarrier(md.Copy()))

		ctx, span := tracer.Start(ctx, info.FullMethod, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		remote := ""
		if p, ok := peer.FromContext(ctx); ok {
			remote = p.Addr.String()
		}
		logger.Info(ctx, "GrpcMiddleware", logger.GRPCRequestAttrs(info.FullMethod, remote, md, req)...)

		start := time.Now()
		resp, err := handler(ctx, req)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, status.Code(err).String())
		}
		logger.Info(ctx, "GrpcMiddleware", logger.GRPCResponseAttrs(info.FullMethod, err, resp, time.Since(start))...)
		return resp, err
	}
}
