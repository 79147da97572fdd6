package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ariefcatur/storefront-client/internal/shop"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	method string
	path   string
	query  string
	header http.Header
	body   []byte
}

func newServer(t *testing.T, status int, resp string) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.query = r.URL.RawQuery
		got.header = r.Header.Clone()
		got.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, resp)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestBearerOnlyWithToken(t *testing.T) {
	srv, got := newServer(t, 200, `{"products":[]}`)

	token := ""
	c := New(srv.URL+"/api/", time.Second, func() string { return token })

	_, err := c.Products(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got.header.Get("Authorization"))
	assert.Equal(t, "/api/products", got.path)

	token = "abc123"
	_, err = c.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", got.header.Get("Authorization"))
	assert.Equal(t, "application/json", got.header.Get("Accept"))
	_, err = uuid.Parse(got.header.Get("X-Request-Id"))
	assert.NoError(t, err)
}

func TestNilTokenSource(t *testing.T) {
	srv, got := newServer(t, 200, `{}`)
	c := New(srv.URL, time.Second, nil)
	require.NoError(t, c.Logout(context.Background()))
	assert.Empty(t, got.header.Get("Authorization"))
	assert.Equal(t, http.MethodPost, got.method)
}

func TestLoginDecodesUserAndToken(t *testing.T) {
	srv, got := newServer(t, 200, `{"user":{"id":3,"name":"Ann","email":"a@x.io","is_admin":true},"token":"tok"}`)
	c := New(srv.URL, time.Second, nil)

	u, tok, err := c.Login(context.Background(), "a@x.io", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
	assert.Equal(t, int64(3), u.ID)
	assert.True(t, u.IsAdmin.IsTrue())

	assert.Equal(t, "/login", got.path)
	assert.Equal(t, "application/json", got.header.Get("Content-Type"))
	assert.JSONEq(t, `{"email":"a@x.io","password":"secret123"}`, string(got.body))
}

func TestRegisterSendsConfirmation(t *testing.T) {
	srv, got := newServer(t, 201, `{"user":{"id":1,"name":"Bo","email":"b@x.io"},"token":"t"}`)
	c := New(srv.URL, time.Second, nil)

	_, _, err := c.Register(context.Background(), "Bo", "b@x.io", "password1", "different")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Bo","email":"b@x.io","password":"password1","password_confirmation":"different"}`, string(got.body))
}

func TestHTTPErrorCarriesStatusAndBody(t *testing.T) {
	body := `{"message":"The given data was invalid.","errors":{"email":["The email has already been taken."]}}`
	srv, _ := newServer(t, 422, body)
	c := New(srv.URL, time.Second, nil)

	_, _, err := c.Register(context.Background(), "Bo", "b@x.io", "password1", "password1")
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, 422, he.StatusCode)
	assert.Equal(t, body, string(he.Body))
	assert.Equal(t, "The given data was invalid.", he.Message())
	assert.Equal(t, map[string]string{"email": "The email has already been taken."}, he.FieldErrors())
	assert.Equal(t, "The email has already been taken.", he.FirstFieldError())
	assert.Equal(t, 422, StatusOf(err))
	assert.False(t, IsUnauthorized(err))
}

func TestHTTPErrorNonJSONBody(t *testing.T) {
	srv, _ := newServer(t, 500, `<html>boom</html>`)
	c := New(srv.URL, time.Second, nil)

	_, err := c.Orders(context.Background())
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "<html>boom</html>", string(he.Body))
	assert.Empty(t, he.Message())
	assert.Nil(t, he.FieldErrors())
	assert.Equal(t, "api: 500 Internal Server Error", he.Error())
}

func TestUnauthorized(t *testing.T) {
	srv, _ := newServer(t, 401, `{"message":"Unauthenticated."}`)
	c := New(srv.URL, time.Second, nil)
	_, err := c.CurrentUser(context.Background())
	assert.True(t, IsUnauthorized(err))
}

func TestTransportErrorUnchanged(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	c := New("http://"+addr, time.Second, nil)
	_, err = c.Products(context.Background())
	require.Error(t, err)
	var he *HTTPError
	assert.False(t, errors.As(err, &he))
	var ue interface{ Timeout() bool }
	assert.True(t, errors.As(err, &ue), "net/http *url.Error expected")
}

func TestCheckoutBody(t *testing.T) {
	srv, got := newServer(t, 201, `{"message":"Order placed","order":{"id":9,"total":"30.00","status":"pending","created_at":"2024-05-01T10:00:00Z","items":[]}}`)
	c := New(srv.URL, time.Second, nil)

	res, err := c.Checkout(context.Background(), []shop.ItemQty{{ProductID: 1, Quantity: 3}, {ProductID: 2, Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, "/checkout", got.path)
	assert.JSONEq(t, `{"cart_items":[{"product_id":1,"quantity":3},{"product_id":2,"quantity":1}]}`, string(got.body))
	require.NotNil(t, res.Order)
	assert.Equal(t, int64(9), res.Order.ID)
	assert.True(t, decimal.RequireFromString("30").Equal(res.Order.Total))
}

func TestSearchAndDateQueries(t *testing.T) {
	srv, got := newServer(t, 200, `{"products":[{"id":1,"name":"Mug","price":12.5}],"orders":[]}`)
	c := New(srv.URL, time.Second, nil)

	ps, err := c.SearchProducts(context.Background(), "red mug")
	require.NoError(t, err)
	assert.Equal(t, "/products/search", got.path)
	assert.Equal(t, "search=red+mug", got.query)
	require.Len(t, ps, 1)
	assert.Equal(t, "12.5", ps[0].Price.String())

	_, err = c.OrdersByDate(context.Background(), time.Date(2024, 3, 7, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "/admin/orders/filter-by-date", got.path)
	assert.Equal(t, "date=2024-03-07", got.query)
}

func TestAdminProductAndStatusPaths(t *testing.T) {
	srv, got := newServer(t, 200, `{"product":{"id":5,"name":"Lamp","price":"40"},"order":{"id":7,"status":"shipped","total":"1","created_at":"2024-05-01T10:00:00Z"}}`)
	c := New(srv.URL, time.Second, nil)

	p, err := c.UpdateProduct(context.Background(), 5, shop.ProductInput{Name: "Lamp", Price: decimal.NewFromInt(40), Stock: 2})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/admin/products/5", got.path)
	assert.Equal(t, "Lamp", p.Name)

	require.NoError(t, c.DeleteProduct(context.Background(), 5))
	assert.Equal(t, http.MethodDelete, got.method)

	o, err := c.UpdateOrderStatus(context.Background(), 7, shop.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, "/admin/orders/7/status", got.path)
	var sent map[string]string
	require.NoError(t, json.Unmarshal(got.body, &sent))
	assert.Equal(t, "shipped", sent["status"])
	assert.Equal(t, shop.StatusShipped, o.Status)
}

func TestDecodeErrorOn2xx(t *testing.T) {
	srv, _ := newServer(t, 200, `not json`)
	c := New(srv.URL, time.Second, nil)
	_, err := c.Products(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode GET /products")
}
