package domain

import "time"

// CalendarEvent is a derived, read-only projection of a booking's date
// span for scheduling UIs. Events are built fresh on every projection and
// are never cached independently of their source booking.
type CalendarEvent struct {
	ID      string
	Title   string
	Start   time.Time
	End     time.Time
	Color   string
	Booking *Booking
}
