package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abelyansky/travelbook/internal/calendar"
	"github.com/abelyansky/travelbook/internal/domain"
	"github.com/abelyansky/travelbook/internal/rules"
	"github.com/abelyansky/travelbook/internal/transport"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookingUseCase is a mock implementation of bookings.BookingUseCase.
type MockBookingUseCase struct {
	mock.Mock
	now time.Time
}

func (m *MockBookingUseCase) Bookings() []domain.Booking {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Booking)
}

func (m *MockBookingUseCase) SelectedBooking() *domain.Booking {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Booking)
}

func (m *MockBookingUseCase) Statistics() *domain.BookingStatistics {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.BookingStatistics)
}

func (m *MockBookingUseCase) List(ctx context.Context, criteria transport.ListCriteria) ([]domain.Booking, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Create(ctx context.Context, req transport.CreateBookingRequest) (*domain.Booking, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Update(ctx context.Context, id string, req transport.UpdateBookingRequest) (*domain.Booking, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Confirm(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Cancel(ctx context.Context, id, reason string) (*domain.Booking, error) {
	args := m.Called(ctx, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingUseCase) LinkPayment(ctx context.Context, id, paymentID string) (*domain.Booking, error) {
	args := m.Called(ctx, id, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) BulkUpdateStatus(ctx context.Context, ids []string, status domain.BookingStatus) (*transport.BulkResult, error) {
	args := m.Called(ctx, ids, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transport.BulkResult), args.Error(1)
}

func (m *MockBookingUseCase) BulkCancel(ctx context.Context, ids []string, reason string) (*transport.BulkResult, error) {
	args := m.Called(ctx, ids, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transport.BulkResult), args.Error(1)
}

func (m *MockBookingUseCase) RefreshStatistics(ctx context.Context) (*domain.BookingStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingStatistics), args.Error(1)
}

func (m *MockBookingUseCase) CalendarEvents() []domain.CalendarEvent {
	args := m.Called()
	return args.Get(0).([]domain.CalendarEvent)
}

func (m *MockBookingUseCase) GetDaysUntilTravel(b *domain.Booking) int {
	return rules.DaysUntilTravel(b, m.now)
}

func (m *MockBookingUseCase) CanCancelBooking(b *domain.Booking) bool {
	return rules.CanCancel(b, m.now)
}

func (m *MockBookingUseCase) CanModifyBooking(b *domain.Booking) bool {
	return rules.CanModify(b, m.now)
}

func (m *MockBookingUseCase) GetTotalPassengers(b *domain.Booking) int {
	return rules.TotalPassengers(b)
}

func (m *MockBookingUseCase) StatusColor(status domain.BookingStatus) string {
	return domain.StatusColor(status)
}

func (m *MockBookingUseCase) StatusIcon(status domain.BookingStatus) string {
	return domain.StatusIcon(status)
}

func handlerBooking(id string, status domain.BookingStatus, now time.Time) domain.Booking {
	start := now.Add(7 * 24 * time.Hour)
	return domain.Booking{
		ID:               id,
		BookingReference: "TRV-" + id,
		Status:           status,
		TravelStartDate:  start,
		TravelEndDate:    start.Add(3 * 24 * time.Hour),
		Pricing:          domain.Pricing{TotalAmount: 500, Amount: 500},
		TravelTitle:      "Lisbon Getaway",
	}
}

func TestBookingHandler_list(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	mockService := &MockBookingUseCase{now: now}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/bookings", nil)

	cached := []domain.Booking{handlerBooking("A", domain.BookingStatusConfirmed, now)}
	mockService.On("Bookings").Return(cached)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Bookings []bookingResponse `json:"bookings"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Bookings, 1)
	assert.Equal(t, "A", response.Bookings[0].ID)
	assert.Equal(t, 7, response.Bookings[0].DaysUntilTravel)
	assert.True(t, response.Bookings[0].CanCancel)
	assert.Equal(t, domain.StatusColor(domain.BookingStatusConfirmed), response.Bookings[0].StatusColor)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	mockService := &MockBookingUseCase{now: now}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(createBookingRequest{
		TravelID:           "t-1",
		TravelStartDate:    now.Add(7 * 24 * time.Hour),
		TravelEndDate:      now.Add(10 * 24 * time.Hour),
		NumberOfPassengers: 2,
		TotalAmount:        500,
	})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	created := handlerBooking("NEW", domain.BookingStatusPending, now)
	mockService.On("Create", c.Request.Context(), mock.AnythingOfType("transport.CreateBookingRequest")).
		Return(&created, nil).Once()

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "NEW", response.ID)
	assert.Equal(t, string(domain.BookingStatusPending), response.Status)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	mockService := &MockBookingUseCase{now: now}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(cancelBookingRequest{Reason: "weather"})
	c.Request = httptest.NewRequest("POST", "/bookings/A/cancel", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "A"}}

	cancelled := handlerBooking("A", domain.BookingStatusCancelled, now)
	cancelled.CancellationReason = "weather"
	mockService.On("Cancel", c.Request.Context(), "A", "weather").Return(&cancelled, nil).Once()

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, string(domain.BookingStatusCancelled), response.Status)
	assert.Equal(t, "weather", response.CancellationReason)
	assert.False(t, response.CanCancel)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_remove_PropagatesRemoteStatus(t *testing.T) {
	mockService := &MockBookingUseCase{now: time.Now()}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("DELETE", "/bookings/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	mockService.On("Delete", c.Request.Context(), "missing").
		Return(&transport.APIError{StatusCode: http.StatusNotFound, Message: "booking not found"}).Once()

	handler.remove(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_calendar(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	mockService := &MockBookingUseCase{now: now}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/bookings/calendar", nil)

	b := handlerBooking("A", domain.BookingStatusPaid, now)
	mockService.On("CalendarEvents").Return(calendar.EventsSlice([]domain.Booking{b})).Once()

	handler.calendar(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Events []calendarEventResponse `json:"events"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Events, 1)
	assert.Equal(t, "booking-A", response.Events[0].ID)
	assert.Equal(t, "A", response.Events[0].BookingID)
	assert.Equal(t, domain.StatusColor(domain.BookingStatusPaid), response.Events[0].Color)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_bulkCancel(t *testing.T) {
	mockService := &MockBookingUseCase{now: time.Now()}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(bulkCancelRequest{BookingIDs: []string{"A", "B"}, Reason: "overbooked"})
	c.Request = httptest.NewRequest("POST", "/bookings/bulk/cancel", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("BulkCancel", c.Request.Context(), []string{"A", "B"}, "overbooked").
		Return(&transport.BulkResult{Succeeded: []string{"A"}, Failed: []string{"B"}}, nil).Once()

	handler.bulkCancel(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Succeeded []string `json:"succeeded"`
		Failed    []string `json:"failed"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, []string{"A"}, response.Succeeded)
	assert.Equal(t, []string{"B"}, response.Failed)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_statistics_UsesCache(t *testing.T) {
	mockService := &MockBookingUseCase{now: time.Now()}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/bookings/statistics", nil)

	stats := &domain.BookingStatistics{TotalBookings: 3, TotalRevenue: 1500}
	mockService.On("Statistics").Return(stats).Once()

	handler.statistics(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response domain.BookingStatistics
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 3, response.TotalBookings)

	// No RefreshStatistics call was made for a warm cache.
	mockService.AssertExpectations(t)
}
