package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"nemo-ecommerce/internal/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
)

var HttpClientTracer = otel.Tracer("HttpClient")

// HTTPClient is a small JSON client that propagates trace context.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	headers map[string]string
}

// APIError is returned for any response with status >= 400.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: make(map[string]string),
	}
}

func (c *HTTPClient) SetDefaultHeader(key, value string) {
	c.headers[key] = value
}

// Do sends body (JSON encoded when not nil) and decodes the response into result when not nil.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body, result any) error {
	ctx, span := HttpClientTracer.Start(ctx, "HttpClient "+method+" "+path)
	defer span.End()

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(path, "/"), bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	logger.Info(ctx, "HttpClient request",
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
	)

	resp, err := c.client.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		var envelope struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &envelope) == nil && envelope.Error != "" {
			apiErr.Message = envelope.Error
		}
		span.SetStatus(codes.Error, apiErr.Error())
		return apiErr
	}

	if result == nil || len(raw) == 0 {
		return nil
	}
	if s, ok := result.(*string); ok {
		*s = string(raw)
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
