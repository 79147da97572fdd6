package httpx

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/ariefcatur/storefront-client/internal/activity"
	"github.com/ariefcatur/storefront-client/internal/cart"
	"github.com/ariefcatur/storefront-client/internal/checkout"
	"github.com/ariefcatur/storefront-client/internal/session"
	"github.com/ariefcatur/storefront-client/internal/shop"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

// Backend is the remote API as the pages use it. *api.Client implements it.
type Backend interface {
	Products(ctx context.Context) ([]shop.Product, error)
	SearchProducts(ctx context.Context, q string) ([]shop.Product, error)
	Product(ctx context.Context, id int64) (shop.Product, error)

	AdminProduct(ctx context.Context, id int64) (shop.Product, error)
	CreateProduct(ctx context.Context, in shop.ProductInput) (shop.Product, error)
	UpdateProduct(ctx context.Context, id int64, in shop.ProductInput) (shop.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	Orders(ctx context.Context) ([]shop.Order, error)
	Order(ctx context.Context, id int64) (shop.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status shop.Status) (shop.Order, error)
	OrdersByDate(ctx context.Context, date time.Time) ([]shop.Order, error)
}

type Storefront struct {
	API      Backend
	Session  *session.Store
	Cart     *cart.Store
	Checkout *checkout.Service
	Events   *activity.Emitter
	// CallTimeout bounds each remote call made while serving a page.
	CallTimeout time.Duration
}

func (h *Storefront) Register(r chi.Router) {
	r.Get("/", h.home)
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.productDetail)
	r.With(RequireCart(h.Cart)).Post("/cart/items", h.addToCart)

	r.Get("/login", h.loginPage)
	r.Post("/login", h.login)
	r.Get("/register", h.registerPage)
	r.Post("/register", h.register)

	r.Group(func(r chi.Router) {
		r.Use(RequireSession(h.Session))
		r.Group(func(r chi.Router) {
			r.Use(RequireCart(h.Cart))
			r.Get("/cart", h.cartPage)
			r.Post("/cart/items/{id}", h.updateCartItem)
			r.Post("/cart/items/{id}/remove", h.removeCartItem)
			r.Post("/cart/clear", h.clearCart)
			r.Post("/cart/checkout", h.checkout)
		})
		r.Get("/checkout/success", h.checkoutSuccess)
		r.Get("/profile", h.profilePage)
		r.Post("/profile", h.updateProfile)
		r.Post("/logout", h.logout)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(RequireAdmin(h.Session))
		r.Get("/", h.adminDashboard)
		r.Get("/products", h.adminProducts)
		r.Post("/products", h.adminCreateProduct)
		r.Get("/products/{id}/edit", h.adminEditProduct)
		r.Post("/products/{id}", h.adminUpdateProduct)
		r.Post("/products/{id}/delete", h.adminDeleteProduct)
		r.Get("/orders", h.adminOrders)
		r.Get("/orders/{id}", h.adminOrder)
		r.Post("/orders/{id}/status", h.adminUpdateOrderStatus)
	})
}

func (h *Storefront) callCtx(r *http.Request) (context.Context, context.CancelFunc) {
	d := h.CallTimeout
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(r.Context(), d)
}

func (h *Storefront) userID() int64 {
	if u, ok := h.Session.CurrentUser(); ok {
		return u.ID
	}
	return 0
}

func (h *Storefront) cartEvent(r *http.Request, action string, productID int64, qty int) {
	h.Events.Emit(r.Context(), shop.EventCartUpdated, h.userID(), shop.CartUpdatedPayload{
		Action:    action,
		ProductID: productID,
		Quantity:  qty,
		ItemCount: h.Cart.ItemCount(),
		Total:     h.Cart.Total(),
	})
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Wrapf(errBadInput, "id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

func formInt(r *http.Request, key string, def int) (int, error) {
	v := r.PostFormValue(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(errBadInput, "%s %q", key, v)
	}
	return n, nil
}
