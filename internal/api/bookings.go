// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/senjalabs/senja-web/internal/model"
)

// ListBookings fetches the authenticated user's bookings. The API scopes the
// list to the caller; no user ID is sent.
func (c *Client) ListBookings(ctx context.Context) ([]model.Booking, error) {
	var out []model.Booking
	if err := c.getJSON(ctx, "/bookings", &out); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

// CreateBooking reserves seats on an event. The server is the authority on
// capacity; the caller has already bounded seats as a UX guard, but a stale
// bound may still be rejected here.
func (c *Client) CreateBooking(ctx context.Context, eventID string, seats int) (*model.Booking, error) {
	in := map[string]any{
		"eventId": eventID,
		"seats":   seats,
	}
	var out model.Booking
	if err := c.postJSON(ctx, "/bookings", in, &out); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return &out, nil
}

// CancelBooking deletes a booking. The API answers 204 with no body.
func (c *Client) CancelBooking(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/bookings/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("cancel booking %s: %w", id, err)
	}
	return nil
}
