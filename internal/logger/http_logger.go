package logger

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// MaxBodyLogged limits how much of a body ends up in the logs. 1 << 16 = 64 KiB.
const MaxBodyLogged = 1 << 16

var allowedHeaders = map[string]bool{
	"content-type":     true,
	"user-agent":       true,
	"content-length":   true,
	"x-trace-id":       true,
	"x-correlation-id": true,
	"traceparent":      true,
	"authorization":    true,
	"set-cookie":       true,
}

// CaptureBody peeks at most MaxBodyLogged bytes of r.Body and leaves the full stream readable.
func CaptureBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	head, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyLogged))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}
	if err != nil {
		return nil, err
	}
	return head, nil
}

// HeaderAttrs logs the allow-listed headers under http.header.*, credentials masked.
func HeaderAttrs(hdr http.Header) []slog.Attr {
	return headerAttrs("http.header.", hdr)
}

// headerAttrs serves both http.Header and gRPC metadata, which share the same shape.
func headerAttrs(prefix string, hdr map[string][]string) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(hdr))
	for name, values := range hdr {
		lower := strings.ToLower(name)
		if !allowedHeaders[lower] {
			continue
		}
		joined := strings.Join(values, ", ")
		if lower == "authorization" || lower == "set-cookie" {
			joined = "***"
		}
		attrs = append(attrs, slog.String(prefix+lower, joined))
	}
	return attrs
}

// QueryAttrs flattens url.Values into slog.Attrs with "http.query." prefix.
func QueryAttrs(q url.Values) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(q))
	for key, values := range q {
		if len(values) == 0 {
			continue
		}
		attrs = append(attrs, slog.String("http.query."+key, strings.Join(values, ",")))
	}
	return attrs
}

// DecodeBody turns a body sample into attributes according to its content type.
func DecodeBody(contentType string, body []byte) ([]slog.Attr, error) {
	if len(body) == 0 {
		return nil, nil
	}

	ct, _, _ := mime.ParseMediaType(contentType)
	switch ct {
	case "application/json":
		return jsonAttrsWithPrefix("http.body", body)
	case "application/x-www-form-urlencoded":
		return formAttrs(body)
	case "text/plain":
		return []slog.Attr{slog.String("http.body", redactIfNeeded(string(body)))}, nil
	default:
		return binaryAttrs(body), nil
	}
}

func jsonAttrsWithPrefix(prefix string, b []byte) ([]slog.Attr, error) {
	var data any
	if err := json.Unmarshal(b, &data); err != nil {
		// truncated or invalid, keep it as a string
		return []slog.Attr{slog.String(prefix, string(b))}, nil
	}
	attrs := make([]slog.Attr, 0, 8)
	flattenJSON(prefix, data, &attrs)
	return attrs, nil
}

// flattenJSON only keeps the first and last element of arrays.
func flattenJSON(prefix string, v any, dst *[]slog.Attr) {
	switch t := v.(type) {
	case map[string]any:
		for k, v2 := range t {
			flattenJSON(prefix+"."+k, v2, dst)
		}
	case []any:
		n := len(t)
		if n == 0 {
			return
		}
		flattenJSON(prefix+".0", t[0], dst)
		if n > 1 {
			flattenJSON(prefix+"."+strconv.Itoa(n-1), t[n-1], dst)
		}
	case string:
		if strings.Contains(strings.ToLower(prefix), "password") {
			t = "***"
		}
		*dst = append(*dst, slog.String(prefix, redactIfNeeded(t)))
	case float64:
		*dst = append(*dst, slog.Float64(prefix, t))
	case bool:
		*dst = append(*dst, slog.Bool(prefix, t))
	case nil:
	default:
		*dst = append(*dst, slog.String(prefix, fmt.Sprintf("%v", t)))
	}
}

func formAttrs(b []byte) ([]slog.Attr, error) {
	vals, err := url.ParseQuery(string(b))
	if err != nil {
		return nil, err
	}
	attrs := make([]slog.Attr, 0, len(vals))
	for k, v := range vals {
		attrs = append(attrs, slog.String("http.body."+k, redactIfNeeded(strings.Join(v, ", "))))
	}
	return attrs, nil
}

func binaryAttrs(b []byte) []slog.Attr {
	const max = 256
	if len(b) <= max {
		return []slog.Attr{slog.String("http.body.base64", base64.StdEncoding.EncodeToString(b))}
	}
	return []slog.Attr{
		slog.Int("http.body.size_bytes", len(b)),
		slog.String("http.body.sample_base64", base64.StdEncoding.EncodeToString(b[:max])),
	}
}

func redactIfNeeded(s string) string {
	if strings.Contains(strings.ToLower(s), "password") {
		return "***"
	}
	return s
}

// LogHTTPRequest builds the attributes for an incoming request, body sample included.
func LogHTTPRequest(r *http.Request, direction string) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("http.direction", direction),
		slog.String("http.remote_addr", r.RemoteAddr),
		slog.String("http.method", r.Method),
		slog.String("http.path", r.URL.Path),
	}

	attrs = append(attrs, HeaderAttrs(r.Header)...)
	attrs = append(attrs, QueryAttrs(r.URL.Query())...)

	if body, err := CaptureBody(r); err == nil && len(body) > 0 {
		if bodyAttrs, err := DecodeBody(r.Header.Get("Content-Type"), body); err == nil {
			attrs = append(attrs, bodyAttrs...)
		} else {
			attrs = append(attrs, slog.String("http.body.error", err.Error()))
		}
	}

	return attrs
}

// LogHTTPResponse builds the attributes for a finished response. body is the buffered sample.
func LogHTTPResponse(req *http.Request, header http.Header, status int, body []byte, durationMs int64, direction string) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("http.direction", direction),
		slog.String("http.remote_addr", req.RemoteAddr),
		slog.String("http.method", req.Method),
		slog.String("http.path", req.URL.Path),
		slog.Int("http.status", status),
		slog.Int64("duration_ms", durationMs),
	}

	attrs = append(attrs, HeaderAttrs(header)...)

	if len(body) > 0 {
		if bAttrs, err := DecodeBody(header.Get("Content-Type"), body); err == nil {
			attrs = append(attrs, bAttrs...)
		} else {
			attrs = append(attrs, slog.String("http.body.error", err.Error()))
		}
	}
	return attrs
}
