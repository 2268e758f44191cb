// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/senjalabs/senja-web/internal/i18n"
	"github.com/senjalabs/senja-web/internal/middleware"
	"github.com/senjalabs/senja-web/internal/model"
	"github.com/senjalabs/senja-web/internal/render"
	"github.com/senjalabs/senja-web/internal/session"
)

// Cancelling a booking is a three-step flow: the list's cancel button
// arms a confirmation (stored in the session, one at a time), the
// confirmation page asks, and only an explicit yes reaches the API.
// Dismissing, or arming a different booking, returns the flow to idle.

// StartCancel arms the confirmation for one booking and shows the
// confirmation page. Arming replaces any earlier pending cancel.
func (h *Handler) StartCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	booking := h.findBooking(r, id)
	if booking == nil {
		h.notFound(w, r)
		return
	}

	session.SetPendingCancel(r.Context(), h.sm, id)

	lang := middleware.GetLang(r)
	h.render(w, r, "bookings/cancel", render.TemplateData{
		Title: i18n.T(lang, "cancel.title"),
		Data: map[string]string{
			"BookingID":  id,
			"EventTitle": booking.Event.Title,
		},
	})
}

// ConfirmCancel performs the cancellation the visitor just confirmed.
// The URL must match the pending booking; anything else means the flow
// was dismissed or superseded, and nothing is cancelled.
func (h *Handler) ConfirmCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	pending, ok := session.PendingCancel(r.Context(), h.sm)
	if !ok || pending != id {
		http.Redirect(w, r, "/bookings", http.StatusSeeOther)
		return
	}

	if err := h.api.CancelBooking(r.Context(), id); err != nil {
		session.ClearPendingCancel(r.Context(), h.sm)
		h.failAPI(w, r, err, "/bookings")
		return
	}

	session.ClearPendingCancel(r.Context(), h.sm)
	h.queries.InvalidateAfterBookingChange(r.Context())

	lang := middleware.GetLang(r)
	session.SetFlash(r.Context(), h.sm, i18n.T(lang, "cancel.done"), flashSuccess)
	http.Redirect(w, r, "/bookings", http.StatusSeeOther)
}

// DismissCancel abandons the pending confirmation and goes back to the
// list. The booking is untouched.
func (h *Handler) DismissCancel(w http.ResponseWriter, r *http.Request) {
	session.ClearPendingCancel(r.Context(), h.sm)
	http.Redirect(w, r, "/bookings", http.StatusSeeOther)
}

// findBooking looks the booking up in the user's cached list. Nil when
// it is not theirs or no longer exists.
func (h *Handler) findBooking(r *http.Request, id string) *model.Booking {
	bookings, err := h.fetchBookings(r)
	if err != nil {
		return nil
	}
	for i := range bookings {
		if bookings[i].ID == id {
			return &bookings[i]
		}
	}
	return nil
}
