// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/senjalabs/senja-web/internal/logging"
	"github.com/senjalabs/senja-web/internal/query"
	"github.com/senjalabs/senja-web/internal/version"
)

type healthResponse struct {
	Status   string          `json:"status"`
	Version  string          `json:"version"`
	Uptime   string          `json:"uptime"`
	Cache    *query.Stats    `json:"cache,omitempty"`
	Warnings []logging.Entry `json:"recent_warnings,omitempty"`
}

var startedAt = time.Now()

// Health reports process liveness plus cache counters and the last few
// warnings. Not authenticated; keep it off the public internet.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:  "ok",
		Version: version.Version,
		Uptime:  time.Since(startedAt).Round(time.Second).String(),
	}
	if sp, ok := h.queries.Store().(query.StatsProvider); ok {
		stats := sp.Stats()
		resp.Cache = &stats
	}
	if h.recent != nil {
		resp.Warnings = h.recent.Recent()
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
