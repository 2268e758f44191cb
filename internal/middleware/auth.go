// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides the HTTP middleware for the site:
// session-backed auth, language resolution, security headers, rate
// limiting and request hygiene.
package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/alexedwards/scs/v2"

	"github.com/senjalabs/senja-web/internal/model"
	"github.com/senjalabs/senja-web/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	ContextKeyUser ContextKey = "user"
	ContextKeyLang ContextKey = "lang"
)

// RequireUser redirects anonymous visitors to the login page, carrying
// the original URL so login can come back to it.
func RequireUser(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !session.IsAuthenticated(r.Context(), sm) {
				target := "/login"
				if r.Method == http.MethodGet && r.URL.Path != "/" {
					target += "?next=" + url.QueryEscape(r.URL.RequestURI())
				}
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoadUser puts the session's user profile into the request context
// for templates and handlers. Anonymous requests pass through.
func LoadUser(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, ok := session.CurrentUser(r.Context(), sm); ok {
				ctx := context.WithValue(r.Context(), ContextKeyUser, user)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil for anonymous requests.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}
