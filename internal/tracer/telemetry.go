package tracer

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"nemo-ecommerce/internal/config"
	"nemo-ecommerce/internal/logger"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"github.com/grafana/pyroscope-go"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

type ShutdownFunc func(ctx context.Context) error

var pyroLogrus = func() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.JSONFormatter{})
	return l
}()

// Init installs the global tracer provider and propagators, and starts the
// profiler when a Pyroscope address is configured.
func Init(ctx context.Context, cfg *config.Config) (ShutdownFunc, error) {
	log := logger.Instance()

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.AppName),
			attribute.String("env", cfg.Env),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.TraceIDRatio))),
	}

	exp, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if exp != nil {
		opts = append(opts, sdktrace.WithBatcher(exp))
	}

	tp := sdktrace.NewTracerProvider(opts...)

	otel.SetTracerProvider(otelpyroscope.NewTracerProvider(tp))
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	log.Info("OpenTelemetry Tracer initialized", slog.Bool("exporter", exp != nil))

	var profiler *pyroscope.Profiler
	if cfg.RemoteProfilingHttpURI != "" {
		profiler, err = pyroscope.Start(pyroscope.Config{
			ApplicationName: cfg.AppName,
			ServerAddress:   cfg.RemoteProfilingHttpURI,
			Logger:          pyroLogrus,
			Tags:            map[string]string{"env": cfg.Env},
		})
		if err != nil {
			// profiling is optional
			log.Error("Pyroscope failed to start", slog.String("error", err.Error()))
		} else {
			log.Info("Pyroscope started successfully")
		}
	}

	return func(ctx context.Context) error {
		if profiler != nil {
			if err := profiler.Stop(); err != nil {
				log.Error("Error stopping profiler", slog.String("error", err.Error()))
			}
		}
		return tp.Shutdown(ctx)
	}, nil
}

func newExporter(ctx context.Context, cfg *config.Config) (sdktrace.SpanExporter, error) {
	switch {
	case cfg.RemoteTraceRpcURI != "":
		exp, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithEndpoint(cfg.RemoteTraceRpcURI),
			otlptracegrpc.WithCompressor("gzip"),
		)
		if err != nil {
			return nil, fmt.Errorf("create OTLP exporter: %w", err)
		}
		return exp, nil
	case cfg.TraceStdout:
		exp, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
		return exp, nil
	default:
		return nil, nil
	}
}
