// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

// Package trend aggregates a user's bookings into the small activity
// chart on the bookings page.
package trend

import (
	"time"

	"github.com/senjalabs/senja-web/internal/model"
)

// Window is how far back the bookings chart looks.
const Window = 7

// DayCount is one bar of the chart.
type DayCount struct {
	// Label is the day formatted for the axis, e.g. "29 Agu".
	Label string
	// Date is the day at midnight local time.
	Date time.Time
	// Seats is the total seats booked that day.
	Seats int
}

// SeatsByDay buckets booked seats per calendar day over the last
// Window days ending at now. Days without bookings appear with zero
// seats so the chart always has a full axis. Bookings outside the
// window are ignored.
func SeatsByDay(bookings []model.Booking, now time.Time, labelFor func(time.Time) string) []DayCount {
	if labelFor == nil {
		labelFor = func(t time.Time) string { return t.Format("2 Jan") }
	}

	today := midnight(now)
	start := today.AddDate(0, 0, -(Window - 1))

	days := make([]DayCount, Window)
	index := make(map[time.Time]int, Window)
	for i := range days {
		d := start.AddDate(0, 0, i)
		days[i] = DayCount{Label: labelFor(d), Date: d}
		index[d] = i
	}

	for _, b := range bookings {
		d := midnight(b.BookingDate.In(now.Location()))
		if i, ok := index[d]; ok {
			days[i].Seats += b.Seats
		}
	}
	return days
}

// MaxSeats returns the tallest bar, for scaling. Zero when every day
// is empty.
func MaxSeats(days []DayCount) int {
	max := 0
	for _, d := range days {
		if d.Seats > max {
			max = d.Seats
		}
	}
	return max
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
