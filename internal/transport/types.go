package transport

import (
	"time"

	"github.com/abelyansky/travelbook/internal/domain"
)

// ListCriteria narrows, orders and pages a booking list request. Zero
// values are omitted from the query string.
type ListCriteria struct {
	Status    domain.BookingStatus
	UserID    string
	TravelID  string
	From      time.Time
	To        time.Time
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// BookingList is the paged list response shape.
type BookingList struct {
	Bookings []domain.Booking `json:"bookings"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
	Total    int              `json:"total"`
}

type CreateBookingRequest struct {
	TravelID        string             `json:"travelId"`
	TravelStartDate time.Time          `json:"travelStartDate"`
	TravelEndDate   time.Time          `json:"travelEndDate"`
	Passengers      []domain.Passenger `json:"passengers,omitempty"`
	// NumberOfPassengers is used when passenger detail is not collected.
	NumberOfPassengers int     `json:"numberOfPassengers,omitempty"`
	TotalAmount        float64 `json:"totalAmount"`
	Currency           string  `json:"currency,omitempty"`
}

// UpdateBookingRequest is a patch payload; nil fields are left untouched
// server-side. Identity fields (id, reference, booking date) cannot be
// patched.
type UpdateBookingRequest struct {
	TravelStartDate    *time.Time         `json:"travelStartDate,omitempty"`
	TravelEndDate      *time.Time         `json:"travelEndDate,omitempty"`
	Passengers         []domain.Passenger `json:"passengers,omitempty"`
	NumberOfPassengers *int               `json:"numberOfPassengers,omitempty"`
	TotalAmount        *float64           `json:"totalAmount,omitempty"`
}

// BulkResult partitions a bulk operation's ids into the ones the backend
// applied and the ones it rejected. Bulk calls never fail atomically.
type BulkResult struct {
	Succeeded []string `json:"succeeded"`
	Failed    []string `json:"failed"`
}

type AvailabilityResult struct {
	Available      bool `json:"available"`
	RemainingSeats int  `json:"remainingSeats"`
}

type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}
