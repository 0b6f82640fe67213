// Package bookings keeps a client-side projection of the remote booking
// API: an observable booking list, the currently selected booking and the
// aggregate statistics snapshot. The service is the only writer of those
// slots and patches them exclusively from confirmed server responses;
// nothing is written speculatively before a response arrives.
//
// Concurrent operations are not reordered or coalesced: two independent
// in-flight calls may complete in either order and the slot keeps the
// value of whichever response landed last.
package bookings

import (
	"context"
	"sync"
	"time"

	"github.com/abelyansky/travelbook/internal/calendar"
	"github.com/abelyansky/travelbook/internal/domain"
	"github.com/abelyansky/travelbook/internal/rules"
	"github.com/abelyansky/travelbook/internal/state"
	"github.com/abelyansky/travelbook/internal/transport"
)

// BookingAPI is the remote collaborator surface the service depends on.
// The concrete implementation lives in the transport package.
type BookingAPI interface {
	ListBookings(ctx context.Context, criteria transport.ListCriteria) (*transport.BookingList, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	GetBookingByReference(ctx context.Context, ref string) (*domain.Booking, error)
	CreateBooking(ctx context.Context, req transport.CreateBookingRequest) (*domain.Booking, error)
	UpdateBooking(ctx context.Context, id string, req transport.UpdateBookingRequest) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, id string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id, reason string) (*domain.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
	LinkPayment(ctx context.Context, id, paymentID string) (*domain.Booking, error)
	BulkUpdateStatus(ctx context.Context, ids []string, status domain.BookingStatus) (*transport.BulkResult, error)
	BulkCancel(ctx context.Context, ids []string, reason string) (*transport.BulkResult, error)
	ListUserBookings(ctx context.Context, userID string) (*transport.BookingList, error)
	ListTravelBookings(ctx context.Context, travelID string) (*transport.BookingList, error)
	ListUpcomingBookings(ctx context.Context) (*transport.BookingList, error)
	ListPastBookings(ctx context.Context) (*transport.BookingList, error)
	ListBookingsByStatus(ctx context.Context, status domain.BookingStatus) (*transport.BookingList, error)
	ListPendingBookings(ctx context.Context) (*transport.BookingList, error)
	SearchBookings(ctx context.Context, query string) (*transport.BookingList, error)
	GetStatistics(ctx context.Context) (*domain.BookingStatistics, error)
	ListCalendarRange(ctx context.Context, from, to time.Time) (*transport.BookingList, error)
	CheckAvailability(ctx context.Context, travelID string, passengers int) (*transport.AvailabilityResult, error)
	ValidateBooking(ctx context.Context, req transport.CreateBookingRequest) (*transport.ValidationResult, error)
}

// BookingUseCase is the surface the dashboard layer consumes.
type BookingUseCase interface {
	Bookings() []domain.Booking
	SelectedBooking() *domain.Booking
	Statistics() *domain.BookingStatistics
	List(ctx context.Context, criteria transport.ListCriteria) ([]domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByReference(ctx context.Context, ref string) (*domain.Booking, error)
	Create(ctx context.Context, req transport.CreateBookingRequest) (*domain.Booking, error)
	Update(ctx context.Context, id string, req transport.UpdateBookingRequest) (*domain.Booking, error)
	Confirm(ctx context.Context, id string) (*domain.Booking, error)
	Cancel(ctx context.Context, id, reason string) (*domain.Booking, error)
	Delete(ctx context.Context, id string) error
	LinkPayment(ctx context.Context, id, paymentID string) (*domain.Booking, error)
	BulkUpdateStatus(ctx context.Context, ids []string, status domain.BookingStatus) (*transport.BulkResult, error)
	BulkCancel(ctx context.Context, ids []string, reason string) (*transport.BulkResult, error)
	RefreshStatistics(ctx context.Context) (*domain.BookingStatistics, error)
	CalendarEvents() []domain.CalendarEvent
	GetDaysUntilTravel(b *domain.Booking) int
	CanCancelBooking(b *domain.Booking) bool
	CanModifyBooking(b *domain.Booking) bool
	GetTotalPassengers(b *domain.Booking) int
	StatusColor(status domain.BookingStatus) string
	StatusIcon(status domain.BookingStatus) string
}

type Service struct {
	api BookingAPI

	// mu serializes cache writes so a single mutation's list and
	// selected updates land together; readers of one slot never see a
	// torn value, Snapshot gives a cross-slot consistent read.
	mu       sync.Mutex
	list     *state.Holder[[]domain.Booking]
	selected *state.Holder[*domain.Booking]
	stats    *state.Holder[*domain.BookingStatistics]

	now func() time.Time
}

type ServiceOption func(*Service)

// WithClock replaces the time source used by the eligibility helpers.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// WithSubscriberBuffer sets the per-subscriber channel depth on all three
// cache slots.
func WithSubscriberBuffer(n int) ServiceOption {
	return func(s *Service) {
		s.list = state.NewHolder[[]domain.Booking](nil, n)
		s.selected = state.NewHolder[*domain.Booking](nil, n)
		s.stats = state.NewHolder[*domain.BookingStatistics](nil, n)
	}
}

func NewService(api BookingAPI, opts ...ServiceOption) *Service {
	s := &Service{
		api:      api,
		list:     state.NewHolder[[]domain.Booking](nil, 0),
		selected: state.NewHolder[*domain.Booking](nil, 0),
		stats:    state.NewHolder[*domain.BookingStatistics](nil, 0),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bookings returns the current cached list. Callers must treat it as
// read-only; mutations go through the service operations.
func (s *Service) Bookings() []domain.Booking {
	return s.list.Get()
}

// SelectedBooking returns the current selection, or nil when empty.
func (s *Service) SelectedBooking() *domain.Booking {
	return s.selected.Get()
}

// Statistics returns the cached aggregate snapshot, or nil when none has
// been fetched yet.
func (s *Service) Statistics() *domain.BookingStatistics {
	return s.stats.Get()
}

// Snapshot returns the list and selection as one consistent pair.
func (s *Service) Snapshot() ([]domain.Booking, *domain.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Get(), s.selected.Get()
}

func (s *Service) SubscribeBookings() (<-chan []domain.Booking, func()) {
	return s.list.Subscribe()
}

func (s *Service) SubscribeSelected() (<-chan *domain.Booking, func()) {
	return s.selected.Subscribe()
}

func (s *Service) SubscribeStatistics() (<-chan *domain.BookingStatistics, func()) {
	return s.stats.Subscribe()
}

// List fetches bookings matching criteria and replaces the list slot.
func (s *Service) List(ctx context.Context, criteria transport.ListCriteria) ([]domain.Booking, error) {
	resp, err := s.api.ListBookings(ctx, criteria)
	if err != nil {
		return nil, err
	}
	s.setList(resp.Bookings)
	return resp.Bookings, nil
}

// GetByID fetches a single booking and replaces the selection.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := s.api.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	s.setSelected(b)
	return b, nil
}

// GetByReference fetches by human-readable reference and replaces the
// selection.
func (s *Service) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	b, err := s.api.GetBookingByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	s.setSelected(b)
	return b, nil
}

// Create posts a new booking. On success the server's booking is
// prepended to the list and becomes the selection; on failure the cache
// is untouched.
func (s *Service) Create(ctx context.Context, req transport.CreateBookingRequest) (*domain.Booking, error) {
	b, err := s.api.CreateBooking(ctx, req)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.list.Set(append([]domain.Booking{*b}, s.list.Get()...))
	s.selected.Set(b)
	s.mu.Unlock()
	return b, nil
}

// Update patches a booking and replaces the matching list entry and the
// selection (when it holds the same id) with the server's response.
func (s *Service) Update(ctx context.Context, id string, req transport.UpdateBookingRequest) (*domain.Booking, error) {
	b, err := s.api.UpdateBooking(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.replace(b)
	return b, nil
}

// Confirm transitions a booking to CONFIRMED server-side and patches the
// cache from the response.
func (s *Service) Confirm(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := s.api.ConfirmBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	s.replace(b)
	return b, nil
}

// Cancel cancels a booking with a reason and patches the cache from the
// response.
func (s *Service) Cancel(ctx context.Context, id, reason string) (*domain.Booking, error) {
	b, err := s.api.CancelBooking(ctx, id, reason)
	if err != nil {
		return nil, err
	}
	s.replace(b)
	return b, nil
}

// Delete removes a booking remotely, drops it from the list and clears
// the selection if it pointed at the deleted booking.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteBooking(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	current := s.list.Get()
	next := make([]domain.Booking, 0, len(current))
	for _, b := range current {
		if b.ID != id {
			next = append(next, b)
		}
	}
	s.list.Set(next)
	if sel := s.selected.Get(); sel != nil && sel.ID == id {
		s.selected.Set(nil)
	}
	s.mu.Unlock()
	return nil
}

// LinkPayment attaches a payment to a booking and patches the cache from
// the response.
func (s *Service) LinkPayment(ctx context.Context, id, paymentID string) (*domain.Booking, error) {
	b, err := s.api.LinkPayment(ctx, id, paymentID)
	if err != nil {
		return nil, err
	}
	s.replace(b)
	return b, nil
}

// BulkUpdateStatus applies a status to many bookings at once. The result
// partitions ids into succeeded and failed; the cache is deliberately not
// patched, callers re-List to reconcile.
func (s *Service) BulkUpdateStatus(ctx context.Context, ids []string, status domain.BookingStatus) (*transport.BulkResult, error) {
	return s.api.BulkUpdateStatus(ctx, ids, status)
}

// BulkCancel cancels many bookings at once. Same cache contract as
// BulkUpdateStatus.
func (s *Service) BulkCancel(ctx context.Context, ids []string, reason string) (*transport.BulkResult, error) {
	return s.api.BulkCancel(ctx, ids, reason)
}

// ListByUser and the read variants below are list-shaped fetches: each
// replaces the list slot with the server's response, like List.

func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.listVia(func() (*transport.BookingList, error) {
		return s.api.ListUserBookings(ctx, userID)
	})
}

func (s *Service) ListByTravel(ctx context.Context, travelID string) ([]domain.Booking, error) {
	return s.listVia(func() (*transport.BookingList, error) {
		return s.api.ListTravelBookings(ctx, travelID)
	})
}

func (s *Service) ListUpcoming(ctx context.Context) ([]domain.Booking, error) {
	return s.listVia(func() (*transport.BookingList, error) {
		return s.api.ListUpcomingBookings(ctx)
	})
}

func (s *Service) ListPast(ctx context.Context) ([]domain.Booking, error) {
	return s.listVia(func() (*transport.BookingList, error) {
		return s.api.ListPastBookings(ctx)
	})
}

func (s *Service) ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	return s.listVia(func() (*transport.BookingList, error) {
		return s.api.ListBookingsByStatus(ctx, status)
	})
}

func (s *Service) ListPending(ctx context.Context) ([]domain.Booking, error) {
	return s.listVia(func() (*transport.BookingList, error) {
		return s.api.ListPendingBookings(ctx)
	})
}

func (s *Service) Search(ctx context.Context, query string) ([]domain.Booking, error) {
	return s.listVia(func() (*transport.BookingList, error) {
		return s.api.SearchBookings(ctx, query)
	})
}

// RefreshStatistics fetches the aggregate snapshot into the statistics
// slot.
func (s *Service) RefreshStatistics(ctx context.Context) (*domain.BookingStatistics, error) {
	stats, err := s.api.GetStatistics(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.stats.Set(stats)
	s.mu.Unlock()
	return stats, nil
}

// CalendarRange fetches bookings overlapping [from, to] and projects them
// to calendar events without touching the cache.
func (s *Service) CalendarRange(ctx context.Context, from, to time.Time) ([]domain.CalendarEvent, error) {
	resp, err := s.api.ListCalendarRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return calendar.EventsSlice(resp.Bookings), nil
}

// CalendarEvents projects the currently cached list. No I/O.
func (s *Service) CalendarEvents() []domain.CalendarEvent {
	return calendar.EventsSlice(s.list.Get())
}

// CheckAvailability is a pass-through with no cache effect.
func (s *Service) CheckAvailability(ctx context.Context, travelID string, passengers int) (*transport.AvailabilityResult, error) {
	return s.api.CheckAvailability(ctx, travelID, passengers)
}

// Validate is a pass-through with no cache effect.
func (s *Service) Validate(ctx context.Context, req transport.CreateBookingRequest) (*transport.ValidationResult, error) {
	return s.api.ValidateBooking(ctx, req)
}

// Derived read helpers; all delegate to the rules and domain packages and
// perform no I/O.

func (s *Service) GetDaysUntilTravel(b *domain.Booking) int {
	return rules.DaysUntilTravel(b, s.now())
}

func (s *Service) CanCancelBooking(b *domain.Booking) bool {
	return rules.CanCancel(b, s.now())
}

func (s *Service) CanModifyBooking(b *domain.Booking) bool {
	return rules.CanModify(b, s.now())
}

func (s *Service) GetTotalPassengers(b *domain.Booking) int {
	return rules.TotalPassengers(b)
}

func (s *Service) StatusColor(status domain.BookingStatus) string {
	return domain.StatusColor(status)
}

func (s *Service) StatusIcon(status domain.BookingStatus) string {
	return domain.StatusIcon(status)
}

func (s *Service) listVia(fetch func() (*transport.BookingList, error)) ([]domain.Booking, error) {
	resp, err := fetch()
	if err != nil {
		return nil, err
	}
	s.setList(resp.Bookings)
	return resp.Bookings, nil
}

func (s *Service) setList(bookings []domain.Booking) {
	s.mu.Lock()
	s.list.Set(bookings)
	s.mu.Unlock()
}

func (s *Service) setSelected(b *domain.Booking) {
	s.mu.Lock()
	s.selected.Set(b)
	s.mu.Unlock()
}

var _ BookingUseCase = (*Service)(nil)
var _ BookingAPI = (*transport.Client)(nil)

// replace swaps the matching list entry and the selection for the
// server's version of the booking. Both slots are written under one lock
// hold so other writers never observe half of a mutation. Entries other
// than the matching one are left untouched.
func (s *Service) replace(b *domain.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.list.Get()
	replaced := false
	next := make([]domain.Booking, len(current))
	for i, entry := range current {
		if entry.ID == b.ID {
			next[i] = *b
			replaced = true
		} else {
			next[i] = entry
		}
	}
	if replaced {
		s.list.Set(next)
	}
	if sel := s.selected.Get(); sel != nil && sel.ID == b.ID {
		s.selected.Set(b)
	}
}
