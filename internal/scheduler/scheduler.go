// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/senjalabs/senja-web/internal/api"
	"github.com/senjalabs/senja-web/internal/model"
	"github.com/senjalabs/senja-web/internal/query"
)

// sweepIdleAfter is how long a query key may go without a subscriber
// before the sweeper drops its bookkeeping.
const sweepIdleAfter = 15 * time.Minute

// Scheduler runs background maintenance for the query cache: it keeps the
// first events page warm and sweeps bookkeeping for keys nobody reads anymore.
type Scheduler struct {
	api     *api.Client
	queries *query.Manager
	cron    *cron.Cron
	logger  *slog.Logger
}

// New creates a new scheduler instance.
func New(apiClient *api.Client, queries *query.Manager, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		api:     apiClient,
		queries: queries,
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start registers the background jobs. refreshSpec is a cron spec for the
// hot-page refresh ("" disables it); the idle-key sweep always runs hourly.
func (s *Scheduler) Start(refreshSpec string) error {
	if refreshSpec != "" {
		_, err := s.cron.AddFunc(refreshSpec, func() {
			if err := s.refreshHotPage(); err != nil {
				s.logger.Error("failed to refresh events page", "error", err)
			}
		})
		if err != nil {
			return err
		}
	}

	_, err := s.cron.AddFunc("@hourly", func() {
		s.sweepIdleKeys()
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// refreshHotPage re-fetches the first unfiltered events page so anonymous
// visitors landing on / get a warm cache. The stale copy keeps serving
// readers until the fresh result lands.
func (s *Scheduler) refreshHotPage() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	filter := api.EventFilter{}
	page, err := query.Refresh(ctx, s.queries, query.EventsKey(filter),
		func(ctx context.Context) (*model.EventPage, error) {
			return s.api.ListEvents(ctx, filter)
		})
	if err != nil {
		return err
	}

	s.logger.Debug("refreshed events page", "events", len(page.Events))
	return nil
}

// sweepIdleKeys drops subscriber bookkeeping for keys with no readers.
func (s *Scheduler) sweepIdleKeys() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if swept := s.queries.SweepUnused(ctx, sweepIdleAfter); swept > 0 {
		s.logger.Info("swept idle query keys", "count", swept)
	}
}
