// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package query

import (
	"github.com/senjalabs/senja-web/internal/api"
)

// Cache key families. Invalidation works at family granularity since a
// booking change moves seat counts on events too.
const (
	FamilyEvents   = "events"
	FamilyBookings = "bookings"
)

// Key identifies one cached response. Family groups keys for
// invalidation; Rest distinguishes keys within the family.
type Key struct {
	Family string
	Rest   string
}

func (k Key) String() string { return k.Family + ":" + k.Rest }

// EventsKey is the key for one page of the event list. Filters are
// part of the key so each filter combination caches separately.
func EventsKey(f api.EventFilter) Key {
	return Key{Family: FamilyEvents, Rest: "list?" + f.Query().Encode()}
}

// EventKey is the key for a single event's detail.
func EventKey(id string) Key {
	return Key{Family: FamilyEvents, Rest: "detail:" + id}
}

// BookingsKey is the key for the signed-in user's booking list. The
// user ID keeps one visitor's bookings out of another's page.
func BookingsKey(userID string) Key {
	return Key{Family: FamilyBookings, Rest: "list:" + userID}
}
