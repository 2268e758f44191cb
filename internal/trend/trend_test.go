// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package trend

import (
	"testing"
	"time"

	"github.com/senjalabs/senja-web/internal/model"
)

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.Local)
}

func TestSeatsByDay(t *testing.T) {
	now := day(2026, 8, 29, 15)

	bookings := []model.Booking{
		{ID: "b1", Seats: 2, BookingDate: day(2026, 8, 29, 9)},
		{ID: "b2", Seats: 3, BookingDate: day(2026, 8, 29, 20)},
		{ID: "b3", Seats: 1, BookingDate: day(2026, 8, 27, 12)},
		{ID: "b4", Seats: 4, BookingDate: day(2026, 8, 23, 0)},  // first day of the window
		{ID: "b5", Seats: 9, BookingDate: day(2026, 8, 22, 23)}, // just outside
		{ID: "b6", Seats: 9, BookingDate: day(2026, 8, 30, 1)},  // tomorrow, outside
	}

	days := SeatsByDay(bookings, now, nil)
	if len(days) != Window {
		t.Fatalf("got %d days, want %d", len(days), Window)
	}

	wantSeats := []int{4, 0, 0, 0, 1, 0, 5}
	for i, want := range wantSeats {
		if days[i].Seats != want {
			t.Errorf("day %d (%s): seats = %d, want %d", i, days[i].Date.Format("2006-01-02"), days[i].Seats, want)
		}
	}

	if got := days[0].Date; !got.Equal(day(2026, 8, 23, 0)) {
		t.Errorf("window starts at %v", got)
	}
	if got := days[6].Date; !got.Equal(day(2026, 8, 29, 0)) {
		t.Errorf("window ends at %v", got)
	}
}

func TestSeatsByDayEmpty(t *testing.T) {
	days := SeatsByDay(nil, day(2026, 8, 29, 12), nil)
	if len(days) != Window {
		t.Fatalf("got %d days, want %d", len(days), Window)
	}
	for i, d := range days {
		if d.Seats != 0 {
			t.Errorf("day %d: seats = %d, want 0", i, d.Seats)
		}
		if d.Label == "" {
			t.Errorf("day %d: empty label", i)
		}
	}
}

func TestSeatsByDayCustomLabels(t *testing.T) {
	labels := func(t time.Time) string { return t.Format("Mon") }
	days := SeatsByDay(nil, day(2026, 8, 29, 12), labels)
	if days[6].Label != "Sat" {
		t.Errorf("label = %q, want %q", days[6].Label, "Sat")
	}
}

func TestMaxSeats(t *testing.T) {
	if got := MaxSeats(nil); got != 0 {
		t.Errorf("MaxSeats(nil) = %d", got)
	}
	days := []DayCount{{Seats: 2}, {Seats: 7}, {Seats: 3}}
	if got := MaxSeats(days); got != 7 {
		t.Errorf("MaxSeats = %d, want 7", got)
	}
}
