// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/senjalabs/senja-web/internal/api"
	"github.com/senjalabs/senja-web/internal/forms"
	"github.com/senjalabs/senja-web/internal/i18n"
	"github.com/senjalabs/senja-web/internal/middleware"
	"github.com/senjalabs/senja-web/internal/model"
	"github.com/senjalabs/senja-web/internal/query"
	"github.com/senjalabs/senja-web/internal/render"
)

// eventListData is the Data payload of the event list page.
type eventListData struct {
	Page   model.EventPage
	Nav    PageNav
	Filter api.EventFilter
}

// filterFromQuery reads the list filters out of the URL. Bad page
// numbers fall back to the first page.
func filterFromQuery(r *http.Request) api.EventFilter {
	f := api.EventFilter{
		StartDate: r.URL.Query().Get("startDate"),
		EndDate:   r.URL.Query().Get("endDate"),
	}
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 1 {
		f.Page = p
	}
	return f
}

// ListEvents renders the home page. The list is public; the API is
// only hit when the cache has nothing for this filter combination.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	filter := filterFromQuery(r)

	page, err := query.Fetch(r.Context(), h.queries, query.EventsKey(filter), func(ctx context.Context) (*model.EventPage, error) {
		return h.api.ListEvents(ctx, filter)
	})
	if err != nil {
		h.failAPI(w, r, err, "/")
		return
	}

	h.render(w, r, "events/list", render.TemplateData{
		Title: i18n.T(lang, "events.title"),
		Data: eventListData{
			Page:   *page,
			Nav:    BuildPageNav(page.Pagination, "/", r.URL.Query()),
			Filter: filter,
		},
	})
}

// ShowEvent renders one event with its booking form.
func (h *Handler) ShowEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	event, err := h.fetchEvent(r, id)
	if err != nil {
		if apiStatus(err) == http.StatusNotFound {
			h.notFound(w, r)
			return
		}
		h.failAPI(w, r, err, "/")
		return
	}

	h.render(w, r, "events/detail", render.TemplateData{
		Title: event.Title,
		Data:  map[string]any{"Event": event},
	})
}

// BookEvent handles the seat form on the detail page. The seat count
// is checked against the seats the page was showing before the API is
// called; the API still has the final word.
func (h *Handler) BookEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.serverError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	lang := middleware.GetLang(r)

	event, err := h.fetchEvent(r, id)
	if err != nil {
		h.failAPI(w, r, err, "/")
		return
	}

	errs := forms.Booking.Validate(r.PostForm, forms.Context{MaxSeats: event.AvailableSeats})
	if !errs.Valid() {
		h.render(w, r, "events/detail", render.TemplateData{
			Title:  event.Title,
			Data:   map[string]any{"Event": event},
			Errors: errs,
			Form:   formValues(r.PostForm, "seats"),
		})
		return
	}

	if _, err := h.api.CreateBooking(r.Context(), id, forms.Seats(r.PostForm)); err != nil {
		h.failAPI(w, r, err, "/events/"+id)
		return
	}

	// Seat counts moved, so both cached families are stale now.
	h.queries.InvalidateAfterBookingChange(r.Context())

	h.render(w, r, "bookings/created", render.TemplateData{
		Title:        i18n.T(lang, "bookings.created_title"),
		RefreshAfter: 2,
		RefreshURL:   "/bookings",
	})
}

// NewEventForm renders the organizer form.
func (h *Handler) NewEventForm(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	h.render(w, r, "events/new", render.TemplateData{
		Title: i18n.T(lang, "new_event.title"),
	})
}

// CreateEvent validates the organizer form and posts it to the API.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.serverError(w, r, err)
		return
	}
	lang := middleware.GetLang(r)

	rerender := func(errs forms.Errors, banner string) {
		h.render(w, r, "events/new", render.TemplateData{
			Title:     i18n.T(lang, "new_event.title"),
			Errors:    errs,
			Form:      formValues(r.PostForm, "title", "description", "date", "availableSeats"),
			Flash:     banner,
			FlashType: flashError,
		})
	}

	if errs := forms.NewEvent.Validate(r.PostForm, forms.Context{}); !errs.Valid() {
		rerender(errs, "")
		return
	}

	seats, _ := strconv.Atoi(r.PostForm.Get("availableSeats"))
	input := api.CreateEventInput{
		Title:          r.PostForm.Get("title"),
		Description:    r.PostForm.Get("description"),
		Date:           r.PostForm.Get("date"),
		AvailableSeats: seats,
	}

	if _, err := h.api.CreateEvent(r.Context(), input); err != nil {
		if apiStatus(err) == http.StatusUnauthorized {
			h.expireSession(w, r)
			return
		}
		rerender(nil, apiErrorMessage(lang, err))
		return
	}

	h.queries.Invalidate(r.Context(), query.FamilyEvents)

	h.render(w, r, "events/created", render.TemplateData{
		Title:        i18n.T(lang, "event.created_title"),
		RefreshAfter: 2,
		RefreshURL:   "/",
	})
}

// fetchEvent reads one event through the cache.
func (h *Handler) fetchEvent(r *http.Request, id string) (*model.Event, error) {
	return query.Fetch(r.Context(), h.queries, query.EventKey(id), func(ctx context.Context) (*model.Event, error) {
		return h.api.GetEvent(ctx, id)
	})
}
