package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"nemo-ecommerce/internal/logger"

	"github.com/go-playground/form/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	errBodyTooLarge   = errors.New("request body too large")
	errInvalidPayload = errors.New("invalid request payload")
)

// RespondJSON writes payload as JSON. A nil pointer payload is written as null.
func RespondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error(ctx, "Error encoding response to JSON", slog.String("error", err.Error()))
		status = http.StatusInternalServerError
		body = []byte(`{"error":"Internal Server Error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func RespondError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	RespondJSON(ctx, w, status, map[string]string{"error": message})
}

var formDecoder = func() *form.Decoder {
	d := form.NewDecoder()
	d.SetTagName("json")
	d.RegisterCustomTypeFunc(func(vals []string) (any, error) {
		return primitive.ObjectIDFromHex(vals[0])
	}, primitive.ObjectID{})
	return d
}()

// decodeBody fills dst from a urlencoded form or, for any other content type,
// from exactly one JSON value.
func decodeBody(r *http.Request, dst any) error {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/x-www-form-urlencoded" {
		return decodeForm(r, dst)
	}
	return decodeJSON(r, dst)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return classifyReadError(err)
	}
	// a second value or trailing garbage makes the body invalid
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errInvalidPayload
		}
		return classifyReadError(err)
	}
	return nil
}

func decodeForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return classifyReadError(err)
	}
	if err := formDecoder.Decode(dst, r.PostForm); err != nil {
		return errInvalidPayload
	}
	return nil
}

func classifyReadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errBodyTooLarge
	}
	return errInvalidPayload
}

func respondDecodeError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		RespondError(ctx, w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	RespondError(ctx, w, http.StatusBadRequest, "Invalid request payload")
}
