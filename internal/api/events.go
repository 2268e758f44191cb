// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/senjalabs/senja-web/internal/model"
)

// EventFilter narrows the event listing. Dates use YYYY-MM-DD; zero values
// are omitted from the query string. Page 0 means "let the server pick",
// which the API treats as page 1.
type EventFilter struct {
	StartDate string
	EndDate   string
	Page      int
}

// Query encodes the filter as URL query parameters.
func (f EventFilter) Query() url.Values {
	params := url.Values{}
	if f.StartDate != "" {
		params.Set("startDate", f.StartDate)
	}
	if f.EndDate != "" {
		params.Set("endDate", f.EndDate)
	}
	if f.Page > 0 {
		params.Set("page", strconv.Itoa(f.Page))
	}
	return params
}

// ListEvents fetches one page of events. Pagination in the response is
// server-authoritative and rendered as-is.
func (c *Client) ListEvents(ctx context.Context, filter EventFilter) (*model.EventPage, error) {
	path := "/events"
	if q := filter.Query().Encode(); q != "" {
		path += "?" + q
	}
	var out model.EventPage
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return &out, nil
}

// GetEvent fetches a single event by ID.
func (c *Client) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	var out model.Event
	if err := c.getJSON(ctx, "/events/"+url.PathEscape(id), &out); err != nil {
		return nil, fmt.Errorf("get event %s: %w", id, err)
	}
	return &out, nil
}

// CreateEventInput is the organizer's new-event submission.
type CreateEventInput struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Date           string `json:"date"`
	AvailableSeats int    `json:"availableSeats"`
}

// CreateEvent creates an event. Requires a credential.
func (c *Client) CreateEvent(ctx context.Context, in CreateEventInput) (*model.Event, error) {
	var out model.Event
	if err := c.postJSON(ctx, "/events", in, &out); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &out, nil
}
