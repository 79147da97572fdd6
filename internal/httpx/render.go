package httpx

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ariefcatur/storefront-client/internal/api"
	"github.com/ariefcatur/storefront-client/internal/cart"
	"github.com/ariefcatur/storefront-client/internal/checkout"
	"github.com/ariefcatur/storefront-client/internal/shop"
	"github.com/ariefcatur/storefront-client/internal/validate"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").
	Funcs(template.FuncMap{
		"money":         renderMoney,
		"date":          renderDate,
		"statusLabel":   shop.Status.Label,
		"nextStatus":    shop.NextStatus,
		"nextLabel":     shop.NextActionLabel,
		"canTransition": shop.CanTransition,
		"summary":       shop.SummaryOf,
		"statuses":      func() []shop.Status { return shop.Statuses },
		"fieldErr":      func(errs map[string]string, key string) string { return errs[key] },
	}).ParseFS(templateFS, "templates/*.html"))

func renderMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func renderDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("January 2, 2006 15:04")
}

// gone reports whether the client went away while a remote call was in
// flight. Nothing is rendered for such requests.
func gone(r *http.Request) bool {
	if r.Context().Err() == nil {
		return false
	}
	logger(r).WithError(r.Context().Err()).Info("request abandoned, not rendering")
	return true
}

func (h *Storefront) render(w http.ResponseWriter, r *http.Request, name string, code int, payload map[string]any) {
	if gone(r) {
		return
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, h.injectCommonTemplateData(r, payload)); err != nil {
		logger(r).WithError(err).WithField("template", name).Error("render")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

func (h *Storefront) redirect(w http.ResponseWriter, r *http.Request, to string) {
	if gone(r) {
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (h *Storefront) renderHTTPError(w http.ResponseWriter, r *http.Request, err error, code int) {
	logger(r).WithField("error", fmt.Sprintf("%+v", err)).Error("request error")
	h.render(w, r, "error", code, map[string]any{
		"error":       errorMessage(err),
		"status_code": code,
		"status":      http.StatusText(code),
	})
}

func (h *Storefront) injectCommonTemplateData(r *http.Request, payload map[string]any) map[string]any {
	data := map[string]any{
		"path":       r.URL.Path,
		"request_id": middleware.GetReqID(r.Context()),
		"signed_in":  false,
		"is_admin":   h.Session.IsAdmin(),
		"cart_count": h.Cart.ItemCount(),
	}
	if u, ok := h.Session.CurrentUser(); ok {
		data["user"] = &u
		data["signed_in"] = true
	}
	for k, v := range payload {
		data[k] = v
	}
	return data
}

// errorMessage is the text shown to the user for err.
func errorMessage(err error) string {
	var verrs validate.Errors
	switch {
	case errors.As(err, &verrs):
		return "Please correct the highlighted fields."
	case errors.Is(err, checkout.ErrEmptyCart):
		return "Your cart is empty."
	case errors.Is(err, checkout.ErrNotAuthenticated):
		return "Please sign in to check out."
	case errors.Is(err, cart.ErrInvalidQuantity):
		return "Quantity must be at least 1."
	case errors.Is(err, cart.ErrNotRestored):
		return "Your cart is still loading. Please try again."
	case errors.Is(err, errBadInput):
		return "The request was not understood."
	}

	var he *api.HTTPError
	if !errors.As(err, &he) {
		if isRemote(err) {
			return "Could not reach the store. Please try again."
		}
		return "Something went wrong. Please try again."
	}
	switch he.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "Please sign in to continue."
	case http.StatusNotFound:
		return "We could not find what you were looking for."
	case http.StatusUnprocessableEntity:
		if m := he.FirstFieldError(); m != "" {
			return m
		}
		if m := he.Message(); m != "" {
			return m
		}
		return "The store rejected the request."
	default:
		return fmt.Sprintf("Something went wrong (status %d). Please try again.", he.StatusCode)
	}
}

// statusFor picks the page status for err: client-side problems keep their
// 4xx, other upstream failures are a bad gateway, local ones a 500.
func statusFor(err error) int {
	var verrs validate.Errors
	switch {
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, errBadInput):
		return http.StatusBadRequest
	case errors.Is(err, checkout.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, cart.ErrNotRestored):
		return http.StatusServiceUnavailable
	}
	var he *api.HTTPError
	if errors.As(err, &he) && he.StatusCode >= 400 && he.StatusCode < 500 {
		return he.StatusCode
	}
	if isRemote(err) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// isRemote is true for failures of the remote API: an error response or a
// transport error from the HTTP client.
func isRemote(err error) bool {
	var he *api.HTTPError
	var ue *url.Error
	return errors.As(err, &he) || errors.As(err, &ue)
}

var errBadInput = errors.New("bad input")

// fieldErrors merges local validation errors and server-side field errors.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	for k, v := range validate.From(err) {
		out[k] = v
	}
	var he *api.HTTPError
	if errors.As(err, &he) {
		for k, v := range he.FieldErrors() {
			out[k] = v
		}
	}
	return out
}

// localPath accepts only same-site absolute paths as redirect targets.
func localPath(s, def string) string {
	if s == "" || !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") || strings.HasPrefix(s, "/\\") {
		return def
	}
	return s
}
