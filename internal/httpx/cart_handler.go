package httpx

import (
	"net/http"
	"strconv"

	"github.com/ariefcatur/storefront-client/internal/checkout"
	"github.com/pkg/errors"
)

func (h *Storefront) cartPage(w http.ResponseWriter, r *http.Request) {
	h.renderCart(w, r, http.StatusOK, nil)
}

func (h *Storefront) renderCart(w http.ResponseWriter, r *http.Request, code int, err error) {
	payload := map[string]any{
		"items":      h.Cart.Items(),
		"total":      h.Cart.Total(),
		"item_count": h.Cart.ItemCount(),
	}
	if err != nil {
		payload["error"] = errorMessage(err)
	}
	h.render(w, r, "cart", code, payload)
}

func (h *Storefront) updateCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.renderCart(w, r, http.StatusBadRequest, err)
		return
	}
	qty, err := formInt(r, "quantity", 1)
	if err != nil {
		h.renderCart(w, r, http.StatusBadRequest, err)
		return
	}
	if err := h.Cart.UpdateQuantity(r.Context(), id, qty); err != nil {
		logger(r).WithError(err).Error("update cart")
		h.renderCart(w, r, http.StatusInternalServerError, err)
		return
	}
	h.cartEvent(r, "update", id, qty)
	h.redirect(w, r, "/cart")
}

func (h *Storefront) removeCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.renderCart(w, r, http.StatusBadRequest, err)
		return
	}
	if err := h.Cart.RemoveItem(r.Context(), id); err != nil {
		logger(r).WithError(err).Error("remove from cart")
		h.renderCart(w, r, http.StatusInternalServerError, err)
		return
	}
	h.cartEvent(r, "remove", id, 0)
	h.redirect(w, r, "/cart")
}

func (h *Storefront) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.Cart.Clear(r.Context()); err != nil {
		logger(r).WithError(err).Error("clear cart")
		h.renderCart(w, r, http.StatusInternalServerError, err)
		return
	}
	h.cartEvent(r, "clear", 0, 0)
	h.redirect(w, r, "/cart")
}

// checkout stays on the cart page with the cart untouched when the order is
// refused; it only navigates away once the server accepted the order.
func (h *Storefront) checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.callCtx(r)
	defer cancel()

	res, err := h.Checkout.Submit(ctx)
	var clearErr *checkout.ClearError
	switch {
	case errors.As(err, &clearErr):
		// order exists; the stale cart is only a local problem
		logger(r).WithError(err).Warn("checkout succeeded but cart was not cleared")
	case err != nil:
		if gone(r) {
			return
		}
		logger(r).WithError(errors.Wrap(err, "checkout")).Warn("checkout failed")
		code := statusFor(err)
		if isRemote(err) {
			code = http.StatusBadGateway
		}
		h.renderCart(w, r, code, err)
		return
	}

	to := "/checkout/success"
	if res.Order != nil && res.Order.ID > 0 {
		to += "?order=" + strconv.FormatInt(res.Order.ID, 10)
	}
	h.redirect(w, r, to)
}

func (h *Storefront) checkoutSuccess(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "checkout_success", http.StatusOK, map[string]any{
		"order_id": r.URL.Query().Get("order"),
	})
}
