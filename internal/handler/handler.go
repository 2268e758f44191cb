// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers for every page of the
// site. All business rules live in the remote events API; handlers
// validate input, call the API through the query cache, and render.
package handler

import (
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/senjalabs/senja-web/internal/api"
	"github.com/senjalabs/senja-web/internal/logging"
	"github.com/senjalabs/senja-web/internal/query"
	"github.com/senjalabs/senja-web/internal/render"
)

// Handler carries the shared dependencies of all page handlers.
type Handler struct {
	api      *api.Client
	queries  *query.Manager
	renderer *render.Renderer
	sm       *scs.SessionManager
	recent   *logging.RecentHandler
}

// New builds the Handler.
func New(client *api.Client, queries *query.Manager, renderer *render.Renderer, sm *scs.SessionManager, recent *logging.RecentHandler) *Handler {
	return &Handler{
		api:      client,
		queries:  queries,
		renderer: renderer,
		sm:       sm,
		recent:   recent,
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data render.TemplateData) {
	if err := h.renderer.Render(w, r, name, data); err != nil {
		h.serverError(w, r, err)
	}
}
