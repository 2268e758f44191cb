// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnauthorized is wrapped into every 401 failure. Callers treat it as an
// expired or revoked credential: the session is destroyed and the user is
// sent back to the login page.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a rejection returned by the API. Message carries the server's
// `{message}` body verbatim when present; an empty Message means the caller
// should fall back to a generic localized error string.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match 401 rejections.
func (e *Error) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// decodeError builds an *Error from a non-2xx response body.
func decodeError(status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
	}
	// The body is not guaranteed to be JSON (proxies, gateways); a decode
	// failure just leaves Message empty.
	_ = json.Unmarshal(body, &payload)
	return &Error{Status: status, Message: strings.TrimSpace(payload.Message)}
}

// RejectionMessage returns the server-supplied message of an API rejection,
// or "" when err is not an *Error or carries no message.
func RejectionMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
