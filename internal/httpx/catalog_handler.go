package httpx

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ariefcatur/storefront-client/internal/shop"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

func (h *Storefront) home(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.callCtx(r)
	defer cancel()

	ps, err := h.API.Products(ctx)
	if err != nil {
		h.renderHTTPError(w, r, errors.Wrap(err, "could not retrieve products"), statusFor(err))
		return
	}
	featured := make([]shop.Product, 0, len(ps))
	for _, p := range ps {
		if p.Featured {
			featured = append(featured, p)
		}
	}
	h.render(w, r, "home", http.StatusOK, map[string]any{
		"products": featured,
	})
}

func (h *Storefront) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.callCtx(r)
	defer cancel()

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	var (
		ps  []shop.Product
		err error
	)
	if q != "" {
		ps, err = h.API.SearchProducts(ctx, q)
	} else {
		ps, err = h.API.Products(ctx)
	}
	if err != nil {
		h.renderHTTPError(w, r, errors.Wrap(err, "could not retrieve products"), statusFor(err))
		return
	}
	h.render(w, r, "products", http.StatusOK, map[string]any{
		"products": ps,
		"query":    q,
	})
}

func (h *Storefront) productDetail(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.renderHTTPError(w, r, err, http.StatusBadRequest)
		return
	}
	ctx, cancel := h.callCtx(r)
	defer cancel()

	p, err := h.API.Product(ctx, id)
	if err != nil {
		h.renderHTTPError(w, r, errors.Wrapf(err, "could not retrieve product %d", id), statusFor(err))
		return
	}
	h.render(w, r, "product", http.StatusOK, map[string]any{
		"product": p,
		"added":   r.URL.Query().Get("added") == "1",
	})
}

// addToCart snapshots the product from the posting page's form when it
// carries a name and price; a bare id is looked up through the API.
func (h *Storefront) addToCart(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PostFormValue("product_id"), 10, 64)
	if err != nil || id <= 0 {
		h.renderHTTPError(w, r, errors.Wrap(errBadInput, "product_id"), http.StatusBadRequest)
		return
	}
	qty, err := formInt(r, "quantity", 1)
	if err != nil {
		h.renderHTTPError(w, r, err, http.StatusBadRequest)
		return
	}

	p, ok := postedProduct(r, id)
	if !ok {
		ctx, cancel := h.callCtx(r)
		defer cancel()

		if p, err = h.API.Product(ctx, id); err != nil {
			h.renderHTTPError(w, r, errors.Wrapf(err, "could not retrieve product %d", id), statusFor(err))
			return
		}
		if gone(r) {
			return
		}
	}
	if err := h.Cart.AddItem(r.Context(), p, qty); err != nil {
		h.renderHTTPError(w, r, errors.Wrap(err, "add to cart"), statusFor(err))
		return
	}
	h.cartEvent(r, "add", p.ID, qty)
	h.redirect(w, r, localPath(r.PostFormValue("next"), "/cart"))
}

func postedProduct(r *http.Request, id int64) (shop.Product, bool) {
	name := strings.TrimSpace(r.PostFormValue("name"))
	price, err := decimal.NewFromString(strings.TrimSpace(r.PostFormValue("price")))
	if name == "" || err != nil || price.IsNegative() {
		return shop.Product{}, false
	}
	return shop.Product{ID: id, Name: name, Price: price}, true
}
