// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package forms

// The four submission schemas of the site. Message values are i18n
// keys resolved by the renderer.

var Login = Schema{
	{Name: "email", Rules: []Rule{Required("form.email_required"), Email("form.email_invalid")}},
	{Name: "password", Rules: []Rule{Required("form.password_required")}},
}

var Register = Schema{
	{Name: "name", Rules: []Rule{Required("form.name_required")}},
	{Name: "email", Rules: []Rule{Required("form.email_required"), Email("form.email_invalid")}},
	{Name: "password", Rules: []Rule{Required("form.password_required"), MinLen(6, "form.password_min")}},
}

// Booking needs Context.MaxSeats set to the event's remaining seats.
var Booking = Schema{
	{Name: "seats", Rules: []Rule{Required("form.seats_required"), MinInt(1, "form.seats_min"), MaxSeats("form.seats_max")}},
}

var NewEvent = Schema{
	{Name: "title", Rules: []Rule{Required("form.title_required")}},
	{Name: "description", Rules: []Rule{Required("form.description_required")}},
	{Name: "date", Rules: []Rule{Required("form.date_required"), FutureDate("form.date_future")}},
	{Name: "availableSeats", Rules: []Rule{Required("form.seats_required"), MinInt(1, "form.seats_min")}},
}
