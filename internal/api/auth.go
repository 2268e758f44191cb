// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"fmt"

	"github.com/senjalabs/senja-web/internal/model"
)

// Login exchanges credentials for a token and the account profile.
func (c *Client) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	in := map[string]string{
		"email":    email,
		"password": password,
	}
	var out model.AuthResponse
	if err := c.postJSON(ctx, "/auth/login", in, &out); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &out, nil
}

// Register creates a new account. A successful registration is also a login:
// the response carries a fresh token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*model.AuthResponse, error) {
	in := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}
	var out model.AuthResponse
	if err := c.postJSON(ctx, "/auth/register", in, &out); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &out, nil
}
