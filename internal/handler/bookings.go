// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/senjalabs/senja-web/internal/i18n"
	"github.com/senjalabs/senja-web/internal/middleware"
	"github.com/senjalabs/senja-web/internal/model"
	"github.com/senjalabs/senja-web/internal/query"
	"github.com/senjalabs/senja-web/internal/render"
	"github.com/senjalabs/senja-web/internal/trend"
)

// bookingListData is the Data payload of the bookings page.
type bookingListData struct {
	Bookings []model.Booking
	Trend    []trend.DayCount
	TrendMax int
}

// ListBookings renders the signed-in user's bookings with the 7-day
// activity chart.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)

	bookings, err := h.fetchBookings(r)
	if err != nil {
		h.failAPI(w, r, err, "/")
		return
	}

	days := trend.SeatsByDay(bookings, time.Now(), trendLabel(lang))

	h.render(w, r, "bookings/list", render.TemplateData{
		Title: i18n.T(lang, "bookings.title"),
		Data: bookingListData{
			Bookings: bookings,
			Trend:    days,
			TrendMax: trend.MaxSeats(days),
		},
	})
}

// fetchBookings reads the user's bookings through the cache. The key
// is scoped to the user so sessions never see each other's lists.
func (h *Handler) fetchBookings(r *http.Request) ([]model.Booking, error) {
	userID := ""
	if u := middleware.GetUser(r); u != nil {
		userID = u.ID
	}
	return query.Fetch(r.Context(), h.queries, query.BookingsKey(userID), func(ctx context.Context) ([]model.Booking, error) {
		return h.api.ListBookings(ctx)
	})
}

// trendLabel formats chart axis days per language.
func trendLabel(lang string) func(time.Time) string {
	months := map[string][]string{
		"id": {"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"},
	}
	if names, ok := months[lang]; ok {
		return func(t time.Time) string {
			return t.Format("2") + " " + names[t.Month()-1]
		}
	}
	return func(t time.Time) string { return t.Format("2 Jan") }
}
