// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/senjalabs/senja-web/internal/forms"
	"github.com/senjalabs/senja-web/internal/i18n"
	"github.com/senjalabs/senja-web/internal/middleware"
	"github.com/senjalabs/senja-web/internal/render"
	"github.com/senjalabs/senja-web/internal/session"
)

// safeNext keeps the post-login redirect on this site. Anything that
// is not a local path falls back to the event list.
func safeNext(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return "/"
	}
	return raw
}

// LoginForm renders the login page. Signed-in visitors go home.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if session.IsAuthenticated(r.Context(), h.sm) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	lang := middleware.GetLang(r)
	h.render(w, r, "auth/login", render.TemplateData{
		Title: i18n.T(lang, "auth.login_title"),
		Data:  map[string]string{"Next": r.URL.Query().Get("next")},
	})
}

// Login validates the form locally, then asks the API for a token.
// Rejections from the API are shown verbatim above the form.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.serverError(w, r, err)
		return
	}
	lang := middleware.GetLang(r)
	next := r.URL.Query().Get("next")

	rerender := func(errs forms.Errors, banner string) {
		h.render(w, r, "auth/login", render.TemplateData{
			Title:     i18n.T(lang, "auth.login_title"),
			Data:      map[string]string{"Next": next},
			Errors:    errs,
			Form:      formValues(r.PostForm, "email"),
			Flash:     banner,
			FlashType: flashError,
		})
	}

	if errs := forms.Login.Validate(r.PostForm, forms.Context{}); !errs.Valid() {
		rerender(errs, "")
		return
	}

	auth, err := h.api.Login(r.Context(), r.PostForm.Get("email"), r.PostForm.Get("password"))
	if err != nil {
		rerender(nil, apiErrorMessage(lang, err))
		return
	}

	if err := session.SignIn(r.Context(), h.sm, auth.Token, auth.User); err != nil {
		h.serverError(w, r, err)
		return
	}
	slog.Info("user signed in", "user_id", auth.User.ID)
	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

// RegisterForm renders the signup page.
func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if session.IsAuthenticated(r.Context(), h.sm) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	lang := middleware.GetLang(r)
	h.render(w, r, "auth/register", render.TemplateData{
		Title: i18n.T(lang, "auth.register_title"),
	})
}

// Register creates an account through the API and signs the new user
// straight in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.serverError(w, r, err)
		return
	}
	lang := middleware.GetLang(r)

	rerender := func(errs forms.Errors, banner string) {
		h.render(w, r, "auth/register", render.TemplateData{
			Title:     i18n.T(lang, "auth.register_title"),
			Errors:    errs,
			Form:      formValues(r.PostForm, "name", "email"),
			Flash:     banner,
			FlashType: flashError,
		})
	}

	if errs := forms.Register.Validate(r.PostForm, forms.Context{}); !errs.Valid() {
		rerender(errs, "")
		return
	}

	auth, err := h.api.Register(r.Context(),
		r.PostForm.Get("name"),
		r.PostForm.Get("email"),
		r.PostForm.Get("password"),
	)
	if err != nil {
		// Registration never carries a token, so even a 401 here is an
		// API rejection, not an expired session.
		rerender(nil, apiErrorMessage(lang, err))
		return
	}

	if err := session.SignIn(r.Context(), h.sm, auth.Token, auth.User); err != nil {
		h.serverError(w, r, err)
		return
	}
	slog.Info("user registered", "user_id", auth.User.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout destroys the session and returns to the event list.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	if err := session.SignOut(r.Context(), h.sm); err != nil {
		h.serverError(w, r, err)
		return
	}
	session.SetFlash(r.Context(), h.sm, i18n.T(lang, "auth.logged_out"), flashInfo)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// formValues picks the named fields out of a submitted form so pages
// can re-fill inputs after a validation failure. Passwords are never
// echoed back.
func formValues(values url.Values, fields ...string) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f] = values.Get(f)
	}
	return out
}
