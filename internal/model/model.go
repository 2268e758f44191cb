// Package model defines the data types exchanged with the remote events API.
// JSON tags mirror the API's wire format exactly (Mongo-style "_id" keys,
// embedded event documents on bookings).
package model

import "time"

// User is the authenticated account as returned by the auth endpoints.
// It is held only in the session and destroyed on logout.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResponse is the payload of a successful login or registration.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Event is a bookable event. Read-only from the client's perspective;
// AvailableSeats only changes server-side as bookings come and go.
type Event struct {
	ID             string    `json:"_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Date           time.Time `json:"date"`
	AvailableSeats int       `json:"availableSeats"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Upcoming reports whether the event date is still in the future.
func (e Event) Upcoming() bool {
	return e.Date.After(time.Now())
}

// Booking is a seat reservation owned by the authenticated user.
// The API embeds the full event document under the legacy "eventId" key.
type Booking struct {
	ID          string    `json:"_id"`
	Event       Event     `json:"eventId"`
	UserID      string    `json:"userId"`
	Seats       int       `json:"seats"`
	BookingDate time.Time `json:"bookingDate"`
}

// Pagination is the server-authoritative paging cursor echoed with every
// event listing. The client renders it verbatim and never derives page
// counts locally.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalEvents int  `json:"totalEvents"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// EventPage is one page of the event listing.
type EventPage struct {
	Events     []Event    `json:"events"`
	Pagination Pagination `json:"pagination"`
}
