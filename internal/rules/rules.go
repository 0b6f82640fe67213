// Package rules holds the eligibility and day-count rules derived from a
// booking's status and dates. Everything here is a pure function of
// (booking, now): no I/O, no clock reads, so call sites stay consistent
// and testable.
package rules

import (
	"math"
	"time"

	"github.com/abelyansky/travelbook/internal/domain"
)

// ModifyLeadDays is the minimum number of days before travel start that a
// booking may still be modified.
const ModifyLeadDays = 2

// DaysUntilTravel returns the number of calendar days until the booking's
// travel start, rounding fractional days up. Negative for past travel.
func DaysUntilTravel(b *domain.Booking, now time.Time) int {
	diff := b.TravelStartDate.Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

// CanCancel reports whether the booking is still cancellable: it must be
// CONFIRMED or PAID and travel must not have started. PENDING bookings
// are not cancellable; they expire or get confirmed server-side.
func CanCancel(b *domain.Booking, now time.Time) bool {
	switch b.Status {
	case domain.BookingStatusConfirmed, domain.BookingStatusPaid:
		return DaysUntilTravel(b, now) > 0
	default:
		return false
	}
}

// CanModify reports whether the booking may still be modified: PENDING or
// CONFIRMED, with more than ModifyLeadDays days before travel.
func CanModify(b *domain.Booking, now time.Time) bool {
	switch b.Status {
	case domain.BookingStatusPending, domain.BookingStatusConfirmed:
		return DaysUntilTravel(b, now) > ModifyLeadDays
	default:
		return false
	}
}

// TotalPassengers returns the passenger count: the detailed passenger
// list wins, then the raw NumberOfPassengers, then zero.
func TotalPassengers(b *domain.Booking) int {
	if len(b.Passengers) > 0 {
		return len(b.Passengers)
	}
	if b.NumberOfPassengers > 0 {
		return b.NumberOfPassengers
	}
	return 0
}
