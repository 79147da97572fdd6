package httpx

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ariefcatur/storefront-client/internal/shop"
	"github.com/ariefcatur/storefront-client/internal/validate"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const lowStockBelow = 5

type dashboardStats struct {
	Products       int
	Featured       int
	LowStock       []shop.Product
	Orders         int
	ByStatus       map[shop.Status]int
	Revenue        decimal.Decimal
	RecentOrders   []shop.Order
	NeedsAttention int
}

// adminDashboard loads products and orders concurrently; either failing
// fails the page.
func (h *Storefront) adminDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.callCtx(r)
	defer cancel()

	var (
		products []shop.Product
		orders   []shop.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ps, err := h.API.Products(gctx)
		if err != nil {
			return errors.Wrap(err, "could not retrieve products")
		}
		products = ps
		return nil
	})
	g.Go(func() error {
		list, err := h.API.Orders(gctx)
		if err != nil {
			return errors.Wrap(err, "could not retrieve orders")
		}
		orders = list
		return nil
	})
	if err := g.Wait(); err != nil {
		h.renderHTTPError(w, r, err, statusFor(err))
		return
	}
	h.render(w, r, "admin_dashboard", http.StatusOK, map[string]any{
		"stats": buildStats(products, orders),
	})
}

func buildStats(products []shop.Product, orders []shop.Order) dashboardStats {
	s := dashboardStats{
		Products: len(products),
		Orders:   len(orders),
		ByStatus: map[shop.Status]int{},
		Revenue:  decimal.Zero,
	}
	for _, p := range products {
		if p.Featured {
			s.Featured++
		}
		if p.Stock < lowStockBelow {
			s.LowStock = append(s.LowStock, p)
		}
	}
	for _, o := range orders {
		s.ByStatus[o.Status]++
		if o.Status != shop.StatusCancelled {
			s.Revenue = s.Revenue.Add(o.Total)
		}
		if !o.Status.Terminal() {
			s.NeedsAttention++
		}
	}
	recent := make([]shop.Order, len(orders))
	copy(recent, orders)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt) })
	if len(recent) > 5 {
		recent = recent[:5]
	}
	s.RecentOrders = recent
	return s
}

func (h *Storefront) adminProducts(w http.ResponseWriter, r *http.Request) {
	h.renderAdminProducts(w, r, http.StatusOK, validate.ProductForm{}, nil)
}

func (h *Storefront) renderAdminProducts(w http.ResponseWriter, r *http.Request, code int, form validate.ProductForm, formErr error) {
	ctx, cancel := h.callCtx(r)
	defer cancel()

	ps, err := h.API.Products(ctx)
	if err != nil {
		h.renderHTTPError(w, r, errors.Wrap(err, "could not retrieve products"), statusFor(err))
		return
	}
	payload := map[string]any{
		"products": ps,
		"form":     form,
		"deleted":  r.URL.Query().Get("deleted") == "1",
	}
	if formErr != nil {
		payload["errors"] = fieldErrors(formErr)
		payload["error"] = errorMessage(formErr)
	}
	h.render(w, r, "admin_products", code, payload)
}

func productForm(r *http.Request) validate.ProductForm {
	return validate.ProductForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		Price:       r.PostFormValue("price"),
		Stock:       r.PostFormValue("stock"),
		Featured:    r.PostFormValue("featured") != "",
		Image:       r.PostFormValue("image"),
	}
}

func (h *Storefront) adminCreateProduct(w http.ResponseWriter, r *http.Request) {
	form := productForm(r)
	if err := form.Validate(); err != nil {
		h.renderAdminProducts(w, r, http.StatusUnprocessableEntity, form, err)
		return
	}
	ctx, cancel := h.callCtx(r)
	defer cancel()

	if _, err := h.API.CreateProduct(ctx, form.Input()); err != nil {
		if gone(r) {
			return
		}
		logger(r).WithError(errors.Wrap(err, "create product")).Warn("product not created")
		h.renderAdminProducts(w, r, statusFor(err), form, err)
		return
	}
	h.redirect(w, r, "/admin/products")
}

func (h *Storefront) adminEditProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.renderHTTPError(w, r, err, http.StatusBadRequest)
		return
	}
	ctx, cancel := h.callCtx(r)
	defer cancel()

	p, err := h.API.AdminProduct(ctx, id)
	if err != nil {
		h.renderHTTPError(w, r, errors.Wrapf(err, "could not retrieve product %d", id), statusFor(err))
		return
	}
	h.render(w, r, "admin_product_form", http.StatusOK, map[string]any{
		"id":   id,
		"form": validate.ProductFormOf(p),
	})
}

func (h *Storefront) adminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.renderHTTPError(w, r, err, http.StatusBadRequest)
		return
	}
	form := productForm(r)
	fail := func(code int, err error) {
		h.render(w, r, "admin_product_form", code, map[string]any{
			"id":     id,
			"form":   form,
			"errors": fieldErrors(err),
			"error":  errorMessage(err),
		})
	}
	if err := form.Validate(); err != nil {
		fail(http.StatusUnprocessableEntity, err)
		return
	}
	ctx, cancel := h.callCtx(r)
	defer cancel()

	if _, err := h.API.UpdateProduct(ctx, id, form.Input()); err != nil {
		if gone(r) {
			return
		}
		logger(r).WithError(errors.Wrapf(err, "update product %d", id)).Warn("product not updated")
		fail(statusFor(err), err)
		return
	}
	h.redirect(w, r, "/admin/products")
}

func (h *Storefront) adminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.renderHTTPError(w, r, err, http.StatusBadRequest)
		return
	}
	ctx, cancel := h.callCtx(r)
	defer cancel()

	if err := h.API.DeleteProduct(ctx, id); err != nil {
		h.renderHTTPError(w, r, errors.Wrapf(err, "delete product %d", id), statusFor(err))
		return
	}
	h.redirect(w, r, "/admin/products?deleted=1")
}

// adminOrders lists all orders, or those of one day with ?date=YYYY-MM-DD.
func (h *Storefront) adminOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.callCtx(r)
	defer cancel()

	dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
	var (
		orders []shop.Order
		err    error
	)
	if dateStr != "" {
		day, perr := time.Parse(time.DateOnly, dateStr)
		if perr != nil {
			h.renderHTTPError(w, r, errors.Wrapf(errBadInput, "date %q", dateStr), http.StatusBadRequest)
			return
		}
		orders, err = h.API.OrdersByDate(ctx, day)
	} else {
		orders, err = h.API.Orders(ctx)
	}
	if err != nil {
		h.renderHTTPError(w, r, errors.Wrap(err, "could not retrieve orders"), statusFor(err))
		return
	}
	h.render(w, r, "admin_orders", http.StatusOK, map[string]any{
		"orders": orders,
		"date":   dateStr,
	})
}

func (h *Storefront) adminOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.renderHTTPError(w, r, err, http.StatusBadRequest)
		return
	}
	ctx, cancel := h.callCtx(r)
	defer cancel()

	o, err := h.API.Order(ctx, id)
	if err != nil {
		h.renderHTTPError(w, r, errors.Wrapf(err, "could not retrieve order %d", id), statusFor(err))
		return
	}
	var allowed []shop.Status
	for _, s := range shop.Statuses {
		if shop.CanTransition(o.Status, s) {
			allowed = append(allowed, s)
		}
	}
	h.render(w, r, "admin_order", http.StatusOK, map[string]any{
		"order":   o,
		"summary": shop.SummaryOf(o),
		"next":    shop.NextStatus(o.Status),
		"allowed": allowed,
		"updated": r.URL.Query().Get("updated") == "1",
	})
}

// adminUpdateOrderStatus forwards the change; the server decides whether the
// transition is allowed.
func (h *Storefront) adminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.renderHTTPError(w, r, err, http.StatusBadRequest)
		return
	}
	status := shop.Status(r.PostFormValue("status"))
	if !status.Valid() {
		h.renderHTTPError(w, r, errors.Wrapf(errBadInput, "status %q", status), http.StatusBadRequest)
		return
	}
	ctx, cancel := h.callCtx(r)
	defer cancel()

	if _, err := h.API.UpdateOrderStatus(ctx, id, status); err != nil {
		h.renderHTTPError(w, r, errors.Wrapf(err, "update order %d", id), statusFor(err))
		return
	}
	h.redirect(w, r, "/admin/orders/"+strconv.FormatInt(id, 10)+"?updated=1")
}
