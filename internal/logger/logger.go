package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"nemo-ecommerce/internal/utils"

	"github.com/lmittmann/tint"
	"go.opentelemetry.io/otel/trace"
)

type Options struct {
	// Format is JSON or TEXT.
	Format string
	// Level is DEBUG, INFO, WARN or ERROR.
	Level string
	// RemoteURI receives a Loki push for every entry when set.
	RemoteURI string
	// Job is the Loki stream label.
	Job string
}

var (
	mu        sync.RWMutex
	instance  *slog.Logger
	remoteURI string
	job       = "nemo-ecommerce"
	once      sync.Once
)

func Instance() *slog.Logger {
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		if instance == nil {
			instance = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}))
		}
	})

	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// Setup replaces the process logger. Safe to call before or after Instance.
func Setup(opts Options) *slog.Logger {
	l := New(os.Stdout, opts)

	mu.Lock()
	instance = l
	remoteURI = opts.RemoteURI
	if opts.Job != "" {
		job = opts.Job
	}
	mu.Unlock()

	// Make sure a later Instance call does not overwrite it.
	once.Do(func() {})
	return l
}

// New builds a logger writing to w without touching the process logger.
func New(w io.Writer, opts Options) *slog.Logger {
	level := ParseLevel(opts.Level)

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "TEXT") {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(handler)
}

func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	Instance().Debug(msg, attrsToArgs(enrich(ctx, attrs...))...)
}

func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	enrichedAttrs := enrich(ctx, attrs...)
	Instance().Info(msg, attrsToArgs(enrichedAttrs)...)
	sendLog("info", msg, enrichedAttrs)
}

func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	enrichedAttrs := enrich(ctx, attrs...)
	Instance().Warn(msg, attrsToArgs(enrichedAttrs)...)
	sendLog("warn", msg, enrichedAttrs)
}

func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	enrichedAttrs := enrich(ctx, attrs...)
	Instance().Error(msg, attrsToArgs(enrichedAttrs)...)
	sendLog("error", msg, enrichedAttrs)
}

type correlationIDKey struct{}

// WithCorrelationID stores the request correlation id for log enrichment.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

func CorrelationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationIDKey{}).(string)
	return id, ok && id != ""
}

func enrich(ctx context.Context, attrs ...slog.Attr) []slog.Attr {
	if ctx == nil {
		return attrs
	}
	if id, ok := CorrelationID(ctx); ok {
		attrs = append(attrs, slog.String("correlation_id", id))
	}

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		attrs = append(attrs,
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.String("span_id", span.SpanContext().SpanID().String()),
			slog.String("hostname", utils.GetHost()),
		)
	}

	return attrs
}

// Convert slog.Attr to slog's variadic ...any
func attrsToArgs(attrs []slog.Attr) []any {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	return args
}
