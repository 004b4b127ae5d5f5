package logger

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attrMap(attrs []slog.Attr) map[string]string {
	out := make(map[string]string, len(attrs))
	for _, a := range attrs {
		out[a.Key] = a.Value.String()
	}
	return out
}

func TestCaptureBody_KeepsFullBody(t *testing.T) {
	payload := strings.Repeat("x", MaxBodyLogged+100)
	r := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(payload))

	head, err := CaptureBody(r)
	require.NoError(t, err)
	assert.Len(t, head, MaxBodyLogged)

	rest, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, string(rest))
}

func TestCaptureBody_NoBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/products", nil)
	head, err := CaptureBody(r)
	assert.NoError(t, err)
	assert.Nil(t, head)
}

func TestCaptureBody_LimitErrorSurvives(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(strings.Repeat("y", 64)))
	r.Body = http.MaxBytesReader(httptest.NewRecorder(), r.Body, 16)

	_, err := CaptureBody(r)
	require.Error(t, err)

	_, err = io.ReadAll(r.Body)
	var maxErr *http.MaxBytesError
	assert.ErrorAs(t, err, &maxErr)
}

func TestDecodeBody_JSONFlattensAndRedacts(t *testing.T) {
	body := `{"productName":"Fin","price":9.99,"colors":["a","b","c"],"auth":{"password":"hunter2"}}`
	attrs, err := DecodeBody("application/json; charset=utf-8", []byte(body))
	require.NoError(t, err)

	got := attrMap(attrs)
	assert.Equal(t, "Fin", got["http.body.productName"])
	assert.Equal(t, "9.99", got["http.body.price"])
	assert.Equal(t, "a", got["http.body.colors.0"])
	assert.Equal(t, "c", got["http.body.colors.2"])
	assert.NotContains(t, got, "http.body.colors.1")
	assert.Equal(t, "***", got["http.body.auth.password"])

	attrs, err = DecodeBody("text/plain", []byte("my password is hunter2"))
	require.NoError(t, err)
	assert.Equal(t, "***", attrMap(attrs)["http.body"])
}

func TestDecodeBody_TruncatedJSONKeptAsString(t *testing.T) {
	attrs, err := DecodeBody("application/json", []byte(`{"productName":"Fi`))
	require.NoError(t, err)
	assert.Equal(t, `{"productName":"Fi`, attrMap(attrs)["http.body"])
}

func TestHeaderAttrs(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Authorization", "Bearer abc")
	hdr.Set("Content-Type", "application/json")
	hdr.Set("X-Internal", "nope")

	got := attrMap(HeaderAttrs(hdr))
	assert.Equal(t, "***", got["http.header.authorization"])
	assert.Equal(t, "application/json", got["http.header.content-type"])
	assert.NotContains(t, got, "http.header.x-internal")
}
