package client

import (
	"context"
	"net/http"
	"net/url"

	"nemo-ecommerce/internal/model"
)

// ProductClient talks to the products API.
type ProductClient struct {
	http *HTTPClient
}

type DeleteResponse struct {
	Message string             `json:"message"`
	Result  model.DeleteResult `json:"result"`
}

func NewProductClient(c *HTTPClient) *ProductClient {
	return &ProductClient{http: c}
}

func (c *ProductClient) Ping(ctx context.Context) (string, error) {
	var out string
	err := c.http.Do(ctx, http.MethodGet, "/", nil, &out)
	return out, err
}

func (c *ProductClient) List(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	err := c.http.Do(ctx, http.MethodGet, "/products", nil, &out)
	return out, err
}

// Get returns nil when the server answers null.
func (c *ProductClient) Get(ctx context.Context, id string) (*model.Product, error) {
	var out *model.Product
	err := c.http.Do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *ProductClient) Create(ctx context.Context, p model.Product) (model.InsertResult, error) {
	var out model.InsertResult
	err := c.http.Do(ctx, http.MethodPost, "/products", p, &out)
	return out, err
}

func (c *ProductClient) Update(ctx context.Context, id string, u model.ProductUpdate) (model.UpdateResult, error) {
	var out model.UpdateResult
	err := c.http.Do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), u, &out)
	return out, err
}

func (c *ProductClient) Delete(ctx context.Context, id string) (DeleteResponse, error) {
	var out DeleteResponse
	err := c.http.Do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, &out)
	return out, err
}
