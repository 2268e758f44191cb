// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session wraps alexedwards/scs with helpers for the signed-in
// user. The API token and user profile live in the server-side session;
// the browser only ever holds the opaque session cookie.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/senjalabs/senja-web/internal/config"
	"github.com/senjalabs/senja-web/internal/model"
)

// Session keys. Keep these stable: changing one silently signs
// everybody out.
const (
	keyToken    = "token"
	keyUser     = "user"
	keyCancelID = "cancel_booking_id"
	keyLang     = "lang"
	keyFlash    = "flash"
	keyFlashTyp = "flash_type"
)

// New builds the scs session manager backed by the SQLite sessions table.
func New(cfg *config.Config, db *sql.DB) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)
	// The API credential lives in the session, so sessions are long-lived:
	// signing in again every browser restart defeats the point.
	sm.Lifetime = 30 * 24 * time.Hour
	sm.IdleTimeout = 7 * 24 * time.Hour
	sm.Cookie.Name = "senja_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Secure = !cfg.IsDevelopment()
	return sm
}

// SignIn stores the API token and user profile and rotates the session
// token to defuse fixation.
func SignIn(ctx context.Context, sm *scs.SessionManager, token string, user model.User) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	sm.Put(ctx, keyToken, token)
	sm.Put(ctx, keyUser, string(raw))
	return nil
}

// SignOut destroys the session synchronously. Any stored token, user
// profile and pending cancellation go with it.
func SignOut(ctx context.Context, sm *scs.SessionManager) error {
	return sm.Destroy(ctx)
}

// Token returns the stored API token, or "" for anonymous visitors.
func Token(ctx context.Context, sm *scs.SessionManager) string {
	return sm.GetString(ctx, keyToken)
}

// CurrentUser decodes the stored user profile. ok is false for
// anonymous visitors or when the stored blob cannot be decoded.
func CurrentUser(ctx context.Context, sm *scs.SessionManager) (model.User, bool) {
	raw := sm.GetString(ctx, keyUser)
	if raw == "" {
		return model.User{}, false
	}
	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		slog.Warn("session: undecodable user blob", "error", err)
		return model.User{}, false
	}
	return u, true
}

// IsAuthenticated reports whether the session holds an API token.
func IsAuthenticated(ctx context.Context, sm *scs.SessionManager) bool {
	return Token(ctx, sm) != ""
}

// PendingCancel returns the booking ID of an in-flight cancellation
// confirmation, if any.
func PendingCancel(ctx context.Context, sm *scs.SessionManager) (string, bool) {
	id := sm.GetString(ctx, keyCancelID)
	return id, id != ""
}

// SetPendingCancel records the booking awaiting a cancel confirmation.
// Only one cancellation can be pending at a time; a new one replaces it.
func SetPendingCancel(ctx context.Context, sm *scs.SessionManager, bookingID string) {
	sm.Put(ctx, keyCancelID, bookingID)
}

// ClearPendingCancel drops the pending cancellation, if any.
func ClearPendingCancel(ctx context.Context, sm *scs.SessionManager) {
	sm.Remove(ctx, keyCancelID)
}

// Lang returns the visitor's preferred language tag, or "" when none
// has been chosen yet.
func Lang(ctx context.Context, sm *scs.SessionManager) string {
	return sm.GetString(ctx, keyLang)
}

// SetLang records the visitor's preferred language tag.
func SetLang(ctx context.Context, sm *scs.SessionManager, tag string) {
	sm.Put(ctx, keyLang, tag)
}

// SetFlash stores a one-shot notice rendered on the next page view.
func SetFlash(ctx context.Context, sm *scs.SessionManager, msg, typ string) {
	sm.Put(ctx, keyFlash, msg)
	sm.Put(ctx, keyFlashTyp, typ)
}

// PopFlash consumes the pending flash notice, if any.
func PopFlash(ctx context.Context, sm *scs.SessionManager) (msg, typ string) {
	msg = sm.PopString(ctx, keyFlash)
	typ = sm.PopString(ctx, keyFlashTyp)
	if typ == "" {
		typ = "info"
	}
	return msg, typ
}
