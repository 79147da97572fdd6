package api

import (
	"context"
	"net/http"

	"github.com/ariefcatur/storefront-client/internal/shop"
)

type authResponse struct {
	User  shop.User `json:"user"`
	Token string    `json:"token"`
}

type userResponse struct {
	User shop.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (shop.User, string, error) {
	var out authResponse
	err := c.do(ctx, http.MethodPost, "/login", nil, map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	return out.User, out.Token, err
}

// Register passes the confirmation through as password_confirmation; the
// server decides whether it matches.
func (c *Client) Register(ctx context.Context, name, email, password, confirmation string) (shop.User, string, error) {
	var out authResponse
	err := c.do(ctx, http.MethodPost, "/register", nil, map[string]string{
		"name":                  name,
		"email":                 email,
		"password":              password,
		"password_confirmation": confirmation,
	}, &out)
	return out.User, out.Token, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil, nil)
}

func (c *Client) CurrentUser(ctx context.Context) (shop.User, error) {
	var out userResponse
	err := c.do(ctx, http.MethodGet, "/user", nil, nil, &out)
	return out.User, err
}

func (c *Client) UpdateProfile(ctx context.Context, p shop.Profile) (shop.User, error) {
	var out userResponse
	err := c.do(ctx, http.MethodPut, "/user/profile", nil, p, &out)
	return out.User, err
}
