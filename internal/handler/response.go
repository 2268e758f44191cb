// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/senjalabs/senja-web/internal/api"
	"github.com/senjalabs/senja-web/internal/i18n"
	"github.com/senjalabs/senja-web/internal/middleware"
	"github.com/senjalabs/senja-web/internal/session"
)

// flash severities used across the handlers.
const (
	flashSuccess = "success"
	flashError   = "error"
	flashInfo    = "info"
)

// serverError logs the error and sends a bare 500. Rendering failed or
// never started, so no template is attempted.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("handler error", "method", r.Method, "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// apiStatus extracts the HTTP status of an API rejection, or 0 for
// transport-level failures.
func apiStatus(err error) int {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// apiErrorMessage maps an API call failure to the banner text shown to
// the visitor. Messages the API rejected the request with pass through
// verbatim; transport and server failures become a generic notice.
func apiErrorMessage(lang string, err error) string {
	if msg := api.RejectionMessage(err); msg != "" {
		return msg
	}
	return i18n.T(lang, "error.request_failed")
}

// failAPI handles a failed API call on a page that redirects on error.
// Expired sessions are signed out and sent to login; everything else
// becomes a flash on fallbackURL.
func (h *Handler) failAPI(w http.ResponseWriter, r *http.Request, err error, fallbackURL string) {
	if errors.Is(err, api.ErrUnauthorized) {
		h.expireSession(w, r)
		return
	}
	slog.Warn("api call failed", "path", r.URL.Path, "error", err)
	session.SetFlash(r.Context(), h.sm, apiErrorMessage(middleware.GetLang(r), err), flashError)
	http.Redirect(w, r, fallbackURL, http.StatusSeeOther)
}

// expireSession signs the visitor out after the API rejected their
// token and sends them to login with an explanation.
func (h *Handler) expireSession(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	if err := session.SignOut(r.Context(), h.sm); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	session.SetFlash(r.Context(), h.sm, i18n.T(lang, "error.session_expired"), flashInfo)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// notFound renders a flash-carrying redirect to the event list.
func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	session.SetFlash(r.Context(), h.sm, i18n.T(middleware.GetLang(r), "error.not_found"), flashError)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
