package middleware_http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"nemo-ecommerce/internal/logger"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("HttpMiddleware")

// ResponseWriter captures status, size and the first MaxBodyLogged bytes of the body.
type ResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	size        int64
	buf         bytes.Buffer
}

func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *ResponseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *ResponseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)

	if room := logger.MaxBodyLogged - rw.buf.Len(); room > 0 {
		if len(b) < room {
			room = len(b)
		}
		rw.buf.Write(b[:room])
	}
	return n, err
}

func (rw *ResponseWriter) Status() int  { return rw.statusCode }
func (rw *ResponseWriter) Size() int64  { return rw.size }
func (rw *ResponseWriter) Body() []byte { return rw.buf.Bytes() }

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *ResponseWriter) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

// Trace starts a server span per request, continues any incoming trace,
// exposes the trace id as X-Trace-ID and logs request and response.
func Trace() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			// renamed after routing, when the pattern is known
			ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.target", r.URL.RequestURI()),
				),
			)
			defer span.End()

			r = r.WithContext(ctx)
			logger.Info(ctx, "HTTP", logger.LogHTTPRequest(r, "incoming::request")...)

			rw := NewResponseWriter(w)
			rw.Header().Set("X-Trace-ID", span.SpanContext().TraceID().String())
			start := time.Now()

			next.ServeHTTP(rw, r)

			if rctx := chi.RouteContext(ctx); rctx != nil && rctx.RoutePattern() != "" {
				span.SetName(fmt.Sprintf("%s %s", r.Method, rctx.RoutePattern()))
			}

			span.SetAttributes(attribute.Int("http.status_code", rw.Status()))
			switch {
			case rw.Status() >= 500:
				span.SetStatus(codes.Error, "internal server error")
			case rw.Status() >= 400:
				span.SetStatus(codes.Error, "client error")
			default:
				span.SetStatus(codes.Ok, "")
			}

			attrs := logger.LogHTTPResponse(r, rw.Header(), rw.Status(), rw.Body(), time.Since(start).Milliseconds(), "incoming::response")
			logger.Info(ctx, "HTTP", attrs...)
		})
	}
}
