package httpx

import (
	"net/http"
	"net/url"

	"github.com/ariefcatur/storefront-client/internal/session"
)

// SessionState is what the guards consult.
type SessionState interface {
	State() session.State
	IsAdmin() bool
}

// RequireSession shows a loading page while the session is still being
// restored and sends anonymous visitors to /login, remembering where they
// were going.
func RequireSession(s SessionState) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch s.State() {
			case session.Unknown:
				renderLoading(w, r, http.StatusOK, r.URL.RequestURI())
			case session.Anonymous:
				http.Redirect(w, r, "/login?from="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// RequireAdmin is RequireSession plus the admin check; signed-in non-admins
// go to the home page.
func RequireAdmin(s SessionState) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		admin := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !s.IsAdmin() {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
		return RequireSession(s)(admin)
	}
}

// CartState is what RequireCart consults.
type CartState interface {
	Restored() bool
}

// RequireCart holds cart pages and cart mutations until the persisted cart
// has been read. A page view gets the loading page; a form post is refused
// with 503 and the loading page retries at the form's destination.
func RequireCart(c CartState) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c.Restored() {
				next.ServeHTTP(w, r)
				return
			}
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				renderLoading(w, r, http.StatusOK, r.URL.RequestURI())
				return
			}
			w.Header().Set("Retry-After", "1")
			renderLoading(w, r, http.StatusServiceUnavailable, localPath(r.PostFormValue("next"), "/cart"))
		})
	}
}

func renderLoading(w http.ResponseWriter, r *http.Request, code int, path string) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := templates.ExecuteTemplate(w, "loading", map[string]any{
		"path": path,
	}); err != nil {
		logger(r).WithError(err).Error("render loading")
	}
}
