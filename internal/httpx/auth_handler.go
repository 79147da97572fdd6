package httpx

import (
	"net/http"

	"github.com/ariefcatur/storefront-client/internal/session"
	"github.com/ariefcatur/storefront-client/internal/shop"
	"github.com/ariefcatur/storefront-client/internal/validate"
	"github.com/pkg/errors"
)

func (h *Storefront) loginPage(w http.ResponseWriter, r *http.Request) {
	if h.Session.State() == session.Authenticated {
		h.redirect(w, r, "/")
		return
	}
	h.render(w, r, "login", http.StatusOK, map[string]any{
		"from": localPath(r.URL.Query().Get("from"), ""),
		"form": validate.LoginForm{},
	})
}

func (h *Storefront) login(w http.ResponseWriter, r *http.Request) {
	form := validate.LoginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	from := localPath(r.PostFormValue("from"), "")
	fail := func(err error) {
		h.render(w, r, "login", statusFor(err), map[string]any{
			"from":   from,
			"form":   validate.LoginForm{Email: form.Email},
			"errors": fieldErrors(err),
			"error":  errorMessage(err),
		})
	}
	if err := form.Validate(); err != nil {
		fail(err)
		return
	}

	ctx, cancel := h.callCtx(r)
	defer cancel()

	u, err := h.Session.Login(ctx, form.Email, form.Password)
	if err != nil {
		if gone(r) {
			return
		}
		logger(r).WithError(errors.Wrap(err, "login")).Info("login refused")
		fail(err)
		return
	}
	h.Events.Emit(r.Context(), shop.EventSessionStarted, u.ID, shop.SessionPayload{UserID: u.ID, Email: u.Email, Via: "login"})
	h.redirect(w, r, localPath(from, "/"))
}

func (h *Storefront) registerPage(w http.ResponseWriter, r *http.Request) {
	if h.Session.State() == session.Authenticated {
		h.redirect(w, r, "/")
		return
	}
	h.render(w, r, "register", http.StatusOK, map[string]any{
		"form": validate.RegisterForm{},
	})
}

func (h *Storefront) register(w http.ResponseWriter, r *http.Request) {
	form := validate.RegisterForm{
		Name:            r.PostFormValue("name"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}
	fail := func(err error) {
		h.render(w, r, "register", statusFor(err), map[string]any{
			"form":   validate.RegisterForm{Name: form.Name, Email: form.Email},
			"errors": fieldErrors(err),
			"error":  errorMessage(err),
		})
	}
	if err := form.Validate(); err != nil {
		fail(err)
		return
	}

	ctx, cancel := h.callCtx(r)
	defer cancel()

	u, err := h.Session.Register(ctx, form.Name, form.Email, form.Password, form.ConfirmPassword)
	if err != nil {
		if gone(r) {
			return
		}
		logger(r).WithError(errors.Wrap(err, "register")).Info("registration refused")
		fail(err)
		return
	}
	h.Events.Emit(r.Context(), shop.EventSessionStarted, u.ID, shop.SessionPayload{UserID: u.ID, Email: u.Email, Via: "register"})
	h.redirect(w, r, "/")
}

// logout always ends the local session; a failed remote logout is only logged.
func (h *Storefront) logout(w http.ResponseWriter, r *http.Request) {
	u, _ := h.Session.CurrentUser()

	ctx, cancel := h.callCtx(r)
	defer cancel()

	if err := h.Session.Logout(ctx); err != nil {
		logger(r).WithError(errors.Wrap(err, "logout")).Warn("remote logout failed, local session cleared")
	}
	h.Events.Emit(r.Context(), shop.EventSessionEnded, u.ID, shop.SessionPayload{UserID: u.ID, Email: u.Email, Via: "logout"})
	h.redirect(w, r, "/")
}

func (h *Storefront) profilePage(w http.ResponseWriter, r *http.Request) {
	u, _ := h.Session.CurrentUser()
	p := u.Profile()
	h.render(w, r, "profile", http.StatusOK, map[string]any{
		"form": validate.ProfileForm{
			Name:    p.Name,
			Email:   p.Email,
			Address: p.Address,
			City:    p.City,
			State:   p.State,
			ZipCode: p.ZipCode,
			Phone:   p.Phone,
		},
		"saved": r.URL.Query().Get("saved") == "1",
	})
}

func (h *Storefront) updateProfile(w http.ResponseWriter, r *http.Request) {
	form := validate.ProfileForm{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Address: r.PostFormValue("address"),
		City:    r.PostFormValue("city"),
		State:   r.PostFormValue("state"),
		ZipCode: r.PostFormValue("zip_code"),
		Phone:   r.PostFormValue("phone"),
	}
	fail := func(err error) {
		h.render(w, r, "profile", statusFor(err), map[string]any{
			"form":   form,
			"errors": fieldErrors(err),
			"error":  errorMessage(err),
		})
	}
	if err := form.Validate(); err != nil {
		fail(err)
		return
	}

	ctx, cancel := h.callCtx(r)
	defer cancel()

	if _, err := h.Session.UpdateProfile(ctx, form.Profile()); err != nil {
		if gone(r) {
			return
		}
		logger(r).WithError(errors.Wrap(err, "update profile")).Warn("profile not saved")
		fail(err)
		return
	}
	h.redirect(w, r, "/profile?saved=1")
}
