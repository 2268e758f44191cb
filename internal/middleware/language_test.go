// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/senjalabs/senja-web/internal/i18n"
)

func TestMain(m *testing.M) {
	if err := i18n.Init("id"); err != nil {
		panic(err)
	}
	m.Run()
}

func langProbe(t *testing.T, want string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := GetLang(r); got != want {
			t.Errorf("GetLang = %q, want %q", got, want)
		}
	})
}

func TestLanguageFromAcceptHeader(t *testing.T) {
	sm := scs.New()
	h := withSession(sm, Language(sm)(langProbe(t, "en")))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	h.ServeHTTP(httptest.NewRecorder(), req)
}

func TestLanguageDefault(t *testing.T) {
	sm := scs.New()
	h := withSession(sm, Language(sm)(langProbe(t, "id")))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
}

func TestLanguageExplicitSwitch(t *testing.T) {
	sm := scs.New()
	h := withSession(sm, Language(sm)(langProbe(t, "en")))

	req := httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	req.Header.Set("Accept-Language", "id")
	h.ServeHTTP(httptest.NewRecorder(), req)
}

func TestLanguageIgnoresUnsupportedSwitch(t *testing.T) {
	sm := scs.New()
	h := withSession(sm, Language(sm)(langProbe(t, "id")))

	req := httptest.NewRequest(http.MethodGet, "/?lang=xx", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
}

func TestGetLangBareRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetLang(req); got != "id" {
		t.Errorf("GetLang on bare request = %q, want id", got)
	}
}
