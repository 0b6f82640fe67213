package domain

import (
	"strings"
	"time"
)

type PassengerType string

const (
	PassengerAdult  PassengerType = "ADULT"
	PassengerChild  PassengerType = "CHILD"
	PassengerInfant PassengerType = "INFANT"
	PassengerSenior PassengerType = "SENIOR"
)

type Passenger struct {
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Type      PassengerType `json:"type"`
	BirthDate *time.Time    `json:"birthDate,omitempty"`
}

// Pricing is the commercial breakdown of a booking. Amount is the
// currency-independent numeric value used for aggregation.
type Pricing struct {
	TotalAmount float64 `json:"totalAmount"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency,omitempty"`
}

// Booking mirrors the backend booking resource. Dates travel as ISO-8601
// strings on the wire and as time.Time here.
//
// ID, BookingReference and BookingDate are immutable once assigned; all
// other fields may be replaced by an update response. PaidAt is set once
// the status has reached PAID, CancelledAt and CancellationReason only
// when the status is CANCELLED.
type Booking struct {
	ID                 string        `json:"id"`
	BookingReference   string        `json:"bookingReference"`
	Status             BookingStatus `json:"status"`
	BookingDate        time.Time     `json:"bookingDate"`
	TravelStartDate    time.Time     `json:"travelStartDate"`
	TravelEndDate      time.Time     `json:"travelEndDate"`
	UpdatedAt          time.Time     `json:"updatedAt"`
	PaidAt             *time.Time    `json:"paidAt,omitempty"`
	CancelledAt        *time.Time    `json:"cancelledAt,omitempty"`
	CancellationReason string        `json:"cancellationReason,omitempty"`
	Pricing            Pricing       `json:"pricing"`
	PaymentID          string        `json:"paymentId,omitempty"`
	Passengers         []Passenger   `json:"passengers,omitempty"`
	NumberOfPassengers int           `json:"numberOfPassengers,omitempty"`
	TravelID           string        `json:"travelId"`
	TravelTitle        string        `json:"travelTitle,omitempty"`
}

// NormalizeReference upper-cases a human-entered booking reference.
func NormalizeReference(ref string) string {
	return strings.ToUpper(strings.TrimSpace(ref))
}

// BookingStatistics is the aggregate snapshot served by the statistics
// endpoint. It is cached as-is; the client never recomputes it locally.
type BookingStatistics struct {
	TotalBookings     int                   `json:"totalBookings"`
	TotalRevenue      float64               `json:"totalRevenue"`
	ByStatus          map[BookingStatus]int `json:"byStatus"`
	UpcomingBookings  int                   `json:"upcomingBookings"`
	CompletedBookings int                   `json:"completedBookings"`
	AveragePassengers float64               `json:"averagePassengers"`
}
