// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/senjalabs/senja-web/internal/i18n"
	"github.com/senjalabs/senja-web/internal/session"
)

// Language resolves the request language and puts it in the context.
// Priority: explicit ?lang= switch, the session's stored choice, then
// the Accept-Language header. An explicit switch is remembered.
func Language(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := ""

			if l := r.URL.Query().Get("lang"); l != "" && i18n.IsSupported(l) {
				lang = l
				session.SetLang(r.Context(), sm, l)
			}
			if lang == "" {
				if l := session.Lang(r.Context(), sm); i18n.IsSupported(l) {
					lang = l
				}
			}
			if lang == "" {
				lang = i18n.MatchLanguage(r.Header.Get("Accept-Language"))
			}

			ctx := context.WithValue(r.Context(), ContextKeyLang, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLang returns the resolved language for the request.
func GetLang(r *http.Request) string {
	if lang, ok := r.Context().Value(ContextKeyLang).(string); ok {
		return lang
	}
	return i18n.SupportedLanguages[0]
}
