// Package calendar projects bookings into calendar events for scheduling
// UIs.
package calendar

import (
	"fmt"
	"iter"

	"github.com/abelyansky/travelbook/internal/domain"
)

// EventID derives the synthetic calendar event id for a booking. The
// mapping is deterministic so re-projection yields stable ids.
func EventID(bookingID string) string {
	return "booking-" + bookingID
}

// Events returns a lazy sequence of calendar events, one per booking in
// input order. The sequence is restartable and the projection is total:
// bookings with missing optional fields produce events with empty title
// segments rather than errors.
func Events(bookings []domain.Booking) iter.Seq[domain.CalendarEvent] {
	return func(yield func(domain.CalendarEvent) bool) {
		for i := range bookings {
			if !yield(Event(&bookings[i])) {
				return
			}
		}
	}
}

// EventsSlice materializes Events into a slice.
func EventsSlice(bookings []domain.Booking) []domain.CalendarEvent {
	events := make([]domain.CalendarEvent, 0, len(bookings))
	for ev := range Events(bookings) {
		events = append(events, ev)
	}
	return events
}

// Event projects a single booking. The returned event keeps a reference
// to the originating booking and copies its travel dates untouched.
func Event(b *domain.Booking) domain.CalendarEvent {
	return domain.CalendarEvent{
		ID:      EventID(b.ID),
		Title:   eventTitle(b),
		Start:   b.TravelStartDate,
		End:     b.TravelEndDate,
		Color:   domain.StatusColor(b.Status),
		Booking: b,
	}
}

func eventTitle(b *domain.Booking) string {
	return fmt.Sprintf("%s (%s)", b.TravelTitle, b.BookingReference)
}
