package calendar

import (
	"testing"
	"time"

	"github.com/abelyansky/travelbook/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sampleBookings() []domain.Booking {
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Booking{
		{
			ID:               "b-1",
			BookingReference: "TRV-001",
			Status:           domain.BookingStatusConfirmed,
			TravelTitle:      "Lisbon Getaway",
			TravelStartDate:  start,
			TravelEndDate:    start.Add(4 * 24 * time.Hour),
		},
		{
			ID:               "b-2",
			BookingReference: "TRV-002",
			Status:           domain.BookingStatusCancelled,
			TravelTitle:      "Alps Trek",
			TravelStartDate:  start.Add(10 * 24 * time.Hour),
			TravelEndDate:    start.Add(14 * 24 * time.Hour),
		},
	}
}

func TestEvents_ProjectsInOrder(t *testing.T) {
	bookings := sampleBookings()

	events := EventsSlice(bookings)

	assert.Len(t, events, 2)
	assert.Equal(t, "booking-b-1", events[0].ID)
	assert.Equal(t, "booking-b-2", events[1].ID)
	assert.Equal(t, "Lisbon Getaway (TRV-001)", events[0].Title)
	assert.Equal(t, bookings[0].TravelStartDate, events[0].Start)
	assert.Equal(t, bookings[0].TravelEndDate, events[0].End)
	assert.Equal(t, domain.StatusColor(domain.BookingStatusConfirmed), events[0].Color)
	assert.Equal(t, domain.StatusColor(domain.BookingStatusCancelled), events[1].Color)
}

func TestEvents_RoundTripKeepsBooking(t *testing.T) {
	bookings := sampleBookings()

	events := EventsSlice(bookings)

	// The event points back at the exact source entry, unmutated.
	assert.Same(t, &bookings[0], events[0].Booking)
	assert.Equal(t, "TRV-001", events[0].Booking.BookingReference)
	assert.Equal(t, domain.BookingStatusConfirmed, events[0].Booking.Status)
}

func TestEvents_Restartable(t *testing.T) {
	bookings := sampleBookings()
	seq := Events(bookings)

	var first []string
	for ev := range seq {
		first = append(first, ev.ID)
	}
	var second []string
	for ev := range seq {
		second = append(second, ev.ID)
	}

	assert.Equal(t, first, second)
}

func TestEvents_StopsEarly(t *testing.T) {
	bookings := sampleBookings()

	var seen int
	for range Events(bookings) {
		seen++
		break
	}

	assert.Equal(t, 1, seen)
}

func TestEvents_MissingOptionalFields(t *testing.T) {
	b := domain.Booking{ID: "b-3", Status: domain.BookingStatus("ON_HOLD")}

	ev := Event(&b)

	assert.Equal(t, "booking-b-3", ev.ID)
	assert.Equal(t, " ()", ev.Title)
	assert.Equal(t, domain.DefaultStatusColor, ev.Color)
}
