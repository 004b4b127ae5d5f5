package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nemo-ecommerce/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProductClient(t *testing.T) {
	id := primitive.NewObjectID()

	var lastMethod, lastPath, lastCorrelation string
	var lastBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastMethod, lastPath = r.Method, r.URL.Path
		lastCorrelation = r.Header.Get("X-Correlation-ID")
		lastBody = nil
		_ = json.NewDecoder(r.Body).Decode(&lastBody)

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/":
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("Nemo E-commerce Server is running"))
		case r.Method == http.MethodGet && r.URL.Path == "/products":
			_, _ = w.Write([]byte(`[{"_id":"` + id.Hex() + `","productName":"Fin"}]`))
		case r.Method == http.MethodGet && r.URL.Path == "/products/"+id.Hex():
			_, _ = w.Write([]byte(`null`))
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"acknowledged":true,"insertedId":"` + id.Hex() + `"}`))
		case r.Method == http.MethodPut:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Product not found"}`))
		case r.Method == http.MethodDelete:
			_, _ = w.Write([]byte(`{"message":"Product deleted successfully","result":{"acknowledged":true,"deletedCount":1}}`))
		default:
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("short and stout"))
		}
	}))
	t.Cleanup(srv.Close)

	httpClient := NewHTTPClient(srv.URL+"/", time.Second)
	httpClient.SetDefaultHeader("X-Correlation-ID", "smoke-1")
	c := NewProductClient(httpClient)
	ctx := context.Background()

	banner, err := c.Ping(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Nemo E-commerce Server is running", banner)
	assert.Equal(t, "smoke-1", lastCorrelation)

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)

	got, err := c.Get(ctx, id.Hex())
	require.NoError(t, err)
	assert.Nil(t, got)

	price := 9.99
	created, err := c.Create(ctx, model.Product{ProductName: "Fin", Price: &price})
	require.NoError(t, err)
	assert.Equal(t, id, created.InsertedID)
	assert.Equal(t, map[string]any{"productName": "Fin", "price": 9.99}, lastBody)

	_, err = c.Update(ctx, id.Hex(), model.ProductUpdate{Price: &price})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Product not found", apiErr.Message)
	assert.Equal(t, http.MethodPut, lastMethod)

	deleted, err := c.Delete(ctx, id.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted.Result.DeletedCount)
	assert.Equal(t, "/products/"+id.Hex(), lastPath)
}

func TestHTTPClient_PlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down\n"))
	}))
	t.Cleanup(srv.Close)

	err := NewHTTPClient(srv.URL, time.Second).Do(context.Background(), http.MethodGet, "/products", nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream down", apiErr.Message)
	assert.EqualError(t, err, "http 502: upstream down")
}
