package api

import (
	"net/http"
	"time"

	"github.com/abelyansky/travelbook/internal/domain"
	"github.com/abelyansky/travelbook/internal/service/bookings"
	"github.com/abelyansky/travelbook/internal/transport"
	"github.com/gin-gonic/gin"
)

// BookingHandler re-exposes the synchronized booking cache over a local
// HTTP surface for dashboard consumers. Reads serve the cached slots;
// mutations pass through the service, which patches the cache from the
// backend's responses.
type BookingHandler struct {
	service bookings.BookingUseCase
}

type createBookingRequest struct {
	TravelID           string             `json:"travel_id"`
	TravelStartDate    time.Time          `json:"travel_start_date"`
	TravelEndDate      time.Time          `json:"travel_end_date"`
	Passengers         []domain.Passenger `json:"passengers"`
	NumberOfPassengers int                `json:"number_of_passengers"`
	TotalAmount        float64            `json:"total_amount"`
	Currency           string             `json:"currency"`
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

type linkPaymentRequest struct {
	PaymentID string `json:"payment_id"`
}

type bulkStatusRequest struct {
	BookingIDs []string `json:"booking_ids"`
	Status     string   `json:"status"`
}

type bulkCancelRequest struct {
	BookingIDs []string `json:"booking_ids"`
	Reason     string   `json:"reason"`
}

type bookingResponse struct {
	ID                 string  `json:"id"`
	BookingReference   string  `json:"booking_reference"`
	Status             string  `json:"status"`
	StatusColor        string  `json:"status_color"`
	StatusIcon         string  `json:"status_icon"`
	TravelTitle        string  `json:"travel_title"`
	TravelStartDate    string  `json:"travel_start_date"`
	TravelEndDate      string  `json:"travel_end_date"`
	TotalAmount        float64 `json:"total_amount"`
	TotalPassengers    int     `json:"total_passengers"`
	DaysUntilTravel    int     `json:"days_until_travel"`
	CanCancel          bool    `json:"can_cancel"`
	CanModify          bool    `json:"can_modify"`
	CancellationReason string  `json:"cancellation_reason,omitempty"`
}

type calendarEventResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Color     string `json:"color"`
	BookingID string `json:"booking_id"`
}

func NewBookingHandler(service bookings.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.POST("/", h.create)
	router.GET("/calendar", h.calendar)
	router.GET("/statistics", h.statistics)
	router.POST("/bulk/update-status", h.bulkUpdateStatus)
	router.POST("/bulk/cancel", h.bulkCancel)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.remove)
	router.POST("/:id/confirm", h.confirm)
	router.POST("/:id/cancel", h.cancel)
	router.POST("/:id/payment", h.linkPayment)
}

// list serves the cached booking list; ?refresh=true re-fetches from the
// backend first.
func (h *BookingHandler) list(c *gin.Context) {
	if c.Query("refresh") == "true" {
		if _, err := h.service.List(c.Request.Context(), transport.ListCriteria{}); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
	}

	cached := h.service.Bookings()
	out := make([]bookingResponse, 0, len(cached))
	for i := range cached {
		out = append(out, h.toResponse(&cached[i]))
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out})
}

func (h *BookingHandler) get(c *gin.Context) {
	booking, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.toResponse(booking))
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.service.Create(c.Request.Context(), transport.CreateBookingRequest{
		TravelID:           req.TravelID,
		TravelStartDate:    req.TravelStartDate,
		TravelEndDate:      req.TravelEndDate,
		Passengers:         req.Passengers,
		NumberOfPassengers: req.NumberOfPassengers,
		TotalAmount:        req.TotalAmount,
		Currency:           req.Currency,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, h.toResponse(booking))
}

func (h *BookingHandler) update(c *gin.Context) {
	var req transport.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.toResponse(booking))
}

func (h *BookingHandler) confirm(c *gin.Context) {
	booking, err := h.service.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.toResponse(booking))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.service.Cancel(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.toResponse(booking))
}

func (h *BookingHandler) remove(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) linkPayment(c *gin.Context) {
	var req linkPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.service.LinkPayment(c.Request.Context(), c.Param("id"), req.PaymentID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.toResponse(booking))
}

func (h *BookingHandler) bulkUpdateStatus(c *gin.Context) {
	var req bulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.BulkUpdateStatus(c.Request.Context(), req.BookingIDs, status)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"succeeded": result.Succeeded, "failed": result.Failed})
}

func (h *BookingHandler) bulkCancel(c *gin.Context) {
	var req bulkCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.BulkCancel(c.Request.Context(), req.BookingIDs, req.Reason)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"succeeded": result.Succeeded, "failed": result.Failed})
}

func (h *BookingHandler) calendar(c *gin.Context) {
	events := h.service.CalendarEvents()
	out := make([]calendarEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, calendarEventResponse{
			ID:        ev.ID,
			Title:     ev.Title,
			Start:     ev.Start.Format(time.RFC3339),
			End:       ev.End.Format(time.RFC3339),
			Color:     ev.Color,
			BookingID: ev.Booking.ID,
		})
	}
	c.JSON(http.StatusOK, gin.H{"events": out})
}

func (h *BookingHandler) statistics(c *gin.Context) {
	stats := h.service.Statistics()
	if stats == nil || c.Query("refresh") == "true" {
		refreshed, err := h.service.RefreshStatistics(c.Request.Context())
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		stats = refreshed
	}
	c.JSON(http.StatusOK, stats)
}

func (h *BookingHandler) toResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:                 b.ID,
		BookingReference:   b.BookingReference,
		Status:             string(b.Status),
		StatusColor:        h.service.StatusColor(b.Status),
		StatusIcon:         h.service.StatusIcon(b.Status),
		TravelTitle:        b.TravelTitle,
		TravelStartDate:    b.TravelStartDate.Format(time.RFC3339),
		TravelEndDate:      b.TravelEndDate.Format(time.RFC3339),
		TotalAmount:        b.Pricing.TotalAmount,
		TotalPassengers:    h.service.GetTotalPassengers(b),
		DaysUntilTravel:    h.service.GetDaysUntilTravel(b),
		CanCancel:          h.service.CanCancelBooking(b),
		CanModify:          h.service.CanModifyBooking(b),
		CancellationReason: b.CancellationReason,
	}
}

// statusFor maps backend failures onto the local surface: remote API
// errors keep their status, anything else is a bad gateway.
func statusFor(err error) int {
	if apiErr, ok := err.(*transport.APIError); ok {
		return apiErr.StatusCode
	}
	return http.StatusBadGateway
}
