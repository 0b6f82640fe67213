package domain

import "fmt"

type BookingStatus string

const (
	BookingStatusDraft     BookingStatus = "DRAFT"
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusPaid      BookingStatus = "PAID"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusRefunded  BookingStatus = "REFUNDED"
)

// Display fallbacks for statuses the client does not know about. The
// backend may introduce new statuses ahead of client releases, so the
// lookups below never fail.
const (
	DefaultStatusColor = "#9e9e9e"
	DefaultStatusIcon  = "help"
)

func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingStatusDraft, BookingStatusPending, BookingStatusConfirmed,
		BookingStatusPaid, BookingStatusCancelled, BookingStatusCompleted,
		BookingStatusRefunded:
		return BookingStatus(s), nil
	default:
		return "", fmt.Errorf("unknown booking status: %s", s)
	}
}

// allowedTransitions describes the lifecycle as the backend enforces it.
// The client only uses this for display purposes; authority lives
// server-side and illegal transitions are rejected there.
var allowedTransitions = map[BookingStatus]map[BookingStatus]bool{
	BookingStatusDraft:     {BookingStatusPending: true},
	BookingStatusPending:   {BookingStatusConfirmed: true, BookingStatusCancelled: true},
	BookingStatusConfirmed: {BookingStatusPaid: true, BookingStatusCancelled: true},
	BookingStatusPaid:      {BookingStatusCompleted: true, BookingStatusRefunded: true},
	BookingStatusCancelled: {},
	BookingStatusCompleted: {},
	BookingStatusRefunded:  {},
}

func CanTransition(from, to BookingStatus) bool {
	m, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}

var statusColors = map[BookingStatus]string{
	BookingStatusDraft:     "#9e9e9e",
	BookingStatusPending:   "#ff9800",
	BookingStatusConfirmed: "#2196f3",
	BookingStatusPaid:      "#4caf50",
	BookingStatusCancelled: "#f44336",
	BookingStatusCompleted: "#009688",
	BookingStatusRefunded:  "#673ab7",
}

var statusIcons = map[BookingStatus]string{
	BookingStatusDraft:     "edit",
	BookingStatusPending:   "hourglass_empty",
	BookingStatusConfirmed: "check_circle",
	BookingStatusPaid:      "payments",
	BookingStatusCancelled: "cancel",
	BookingStatusCompleted: "done_all",
	BookingStatusRefunded:  "undo",
}

// StatusColor returns the display color token for a status, falling back
// to DefaultStatusColor for unmapped values.
func StatusColor(s BookingStatus) string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return DefaultStatusColor
}

// StatusIcon returns the display icon token for a status, falling back to
// DefaultStatusIcon for unmapped values.
func StatusIcon(s BookingStatus) string {
	if i, ok := statusIcons[s]; ok {
		return i
	}
	return DefaultStatusIcon
}
