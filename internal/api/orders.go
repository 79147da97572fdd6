package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/ariefcatur/storefront-client/internal/shop"
)

type ordersResponse struct {
	Orders []shop.Order `json:"orders"`
}

type orderResponse struct {
	Order shop.Order `json:"order"`
}

type checkoutRequest struct {
	CartItems []shop.ItemQty `json:"cart_items"`
}

func (c *Client) Checkout(ctx context.Context, items []shop.ItemQty) (shop.CheckoutResult, error) {
	var out shop.CheckoutResult
	err := c.do(ctx, http.MethodPost, "/checkout", nil, checkoutRequest{CartItems: items}, &out)
	return out, err
}

// ---- admin ----

func (c *Client) Orders(ctx context.Context) ([]shop.Order, error) {
	var out ordersResponse
	err := c.do(ctx, http.MethodGet, "/admin/orders", nil, nil, &out)
	return out.Orders, err
}

func (c *Client) Order(ctx context.Context, id int64) (shop.Order, error) {
	var out orderResponse
	err := c.do(ctx, http.MethodGet, idPath("/admin/orders/%d", id), nil, nil, &out)
	return out.Order, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status shop.Status) (shop.Order, error) {
	var out orderResponse
	err := c.do(ctx, http.MethodPut, idPath("/admin/orders/%d/status", id), nil,
		map[string]shop.Status{"status": status}, &out)
	return out.Order, err
}

// OrdersByDate lists orders created on the calendar day of date.
func (c *Client) OrdersByDate(ctx context.Context, date time.Time) ([]shop.Order, error) {
	var out ordersResponse
	q := url.Values{"date": {date.Format(time.DateOnly)}}
	err := c.do(ctx, http.MethodGet, "/admin/orders/filter-by-date", q, nil, &out)
	return out.Orders, err
}
