package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ariefcatur/storefront-client/internal/shop"
)

type productsResponse struct {
	Products []shop.Product `json:"products"`
}

type productResponse struct {
	Product shop.Product `json:"product"`
}

func (c *Client) Products(ctx context.Context) ([]shop.Product, error) {
	var out productsResponse
	err := c.do(ctx, http.MethodGet, "/products", nil, nil, &out)
	return out.Products, err
}

func (c *Client) SearchProducts(ctx context.Context, q string) ([]shop.Product, error) {
	var out productsResponse
	err := c.do(ctx, http.MethodGet, "/products/search", url.Values{"search": {q}}, nil, &out)
	return out.Products, err
}

func (c *Client) Product(ctx context.Context, id int64) (shop.Product, error) {
	var out productResponse
	err := c.do(ctx, http.MethodGet, idPath("/products/%d", id), nil, nil, &out)
	return out.Product, err
}

// ---- admin ----

func (c *Client) AdminProduct(ctx context.Context, id int64) (shop.Product, error) {
	var out productResponse
	err := c.do(ctx, http.MethodGet, idPath("/admin/products/%d", id), nil, nil, &out)
	return out.Product, err
}

func (c *Client) CreateProduct(ctx context.Context, in shop.ProductInput) (shop.Product, error) {
	var out productResponse
	err := c.do(ctx, http.MethodPost, "/admin/products", nil, in, &out)
	return out.Product, err
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in shop.ProductInput) (shop.Product, error) {
	var out productResponse
	err := c.do(ctx, http.MethodPut, idPath("/admin/products/%d", id), nil, in, &out)
	return out.Product, err
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/admin/products/%d", id), nil, nil, nil)
}
