// Package transport implements the REST client for the remote booking
// backend. It owns the wire encoding (JSON, ISO-8601 dates) and the error
// taxonomy; it performs no caching and no retries. Retry and timeout
// policy beyond the plain http.Client timeout belongs to callers.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/abelyansky/travelbook/config"
	"github.com/abelyansky/travelbook/internal/domain"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("booking api: %d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(cfg config.APIConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout()},
	}
}

func (c *Client) ListBookings(ctx context.Context, criteria ListCriteria) (*BookingList, error) {
	var list BookingList
	if err := c.do(ctx, http.MethodGet, "/bookings", criteria.query(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	if err := c.do(ctx, http.MethodGet, "/bookings/"+url.PathEscape(id), nil, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) GetBookingByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	ref = domain.NormalizeReference(ref)
	var b domain.Booking
	if err := c.do(ctx, http.MethodGet, "/bookings/reference/"+url.PathEscape(ref), nil, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	var b domain.Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", nil, req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) UpdateBooking(ctx context.Context, id string, req UpdateBookingRequest) (*domain.Booking, error) {
	var b domain.Booking
	if err := c.do(ctx, http.MethodPut, "/bookings/"+url.PathEscape(id), nil, req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) ConfirmBooking(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	if err := c.do(ctx, http.MethodPost, "/bookings/"+url.PathEscape(id)+"/confirm", nil, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) CancelBooking(ctx context.Context, id, reason string) (*domain.Booking, error) {
	body := map[string]string{"reason": reason}
	var b domain.Booking
	if err := c.do(ctx, http.MethodPost, "/bookings/"+url.PathEscape(id)+"/cancel", nil, body, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/bookings/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) LinkPayment(ctx context.Context, id, paymentID string) (*domain.Booking, error) {
	body := map[string]string{"paymentId": paymentID}
	var b domain.Booking
	if err := c.do(ctx, http.MethodPost, "/bookings/"+url.PathEscape(id)+"/payment", nil, body, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) BulkUpdateStatus(ctx context.Context, ids []string, status domain.BookingStatus) (*BulkResult, error) {
	body := map[string]any{"bookingIds": ids, "status": status}
	var resp struct {
		Updated []string `json:"updated"`
		Failed  []string `json:"failed"`
	}
	if err := c.do(ctx, http.MethodPost, "/bookings/bulk/update-status", nil, body, &resp); err != nil {
		return nil, err
	}
	return &BulkResult{Succeeded: resp.Updated, Failed: resp.Failed}, nil
}

func (c *Client) BulkCancel(ctx context.Context, ids []string, reason string) (*BulkResult, error) {
	body := map[string]any{"bookingIds": ids, "reason": reason}
	var resp struct {
		Cancelled []string `json:"cancelled"`
		Failed    []string `json:"failed"`
	}
	if err := c.do(ctx, http.MethodPost, "/bookings/bulk/cancel", nil, body, &resp); err != nil {
		return nil, err
	}
	return &BulkResult{Succeeded: resp.Cancelled, Failed: resp.Failed}, nil
}

func (c *Client) ListUserBookings(ctx context.Context, userID string) (*BookingList, error) {
	var list BookingList
	if err := c.do(ctx, http.MethodGet, "/bookings/user/"+url.PathEscape(userID), nil, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) ListTravelBookings(ctx context.Context, travelID string) (*BookingList, error) {
	var list BookingList
	if err := c.do(ctx, http.MethodGet, "/bookings/travel/"+url.PathEscape(travelID), nil, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) ListUpcomingBookings(ctx context.Context) (*BookingList, error) {
	var list BookingList
	if err := c.do(ctx, http.MethodGet, "/bookings/upcoming", nil, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) ListPastBookings(ctx context.Context) (*BookingList, error) {
	var list BookingList
	if err := c.do(ctx, http.MethodGet, "/bookings/past", nil, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) ListBookingsByStatus(ctx context.Context, status domain.BookingStatus) (*BookingList, error) {
	var list BookingList
	if err := c.do(ctx, http.MethodGet, "/bookings/status/"+url.PathEscape(string(status)), nil, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) ListPendingBookings(ctx context.Context) (*BookingList, error) {
	var list BookingList
	if err := c.do(ctx, http.MethodGet, "/bookings/pending", nil, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) SearchBookings(ctx context.Context, query string) (*BookingList, error) {
	q := url.Values{"q": []string{query}}
	var list BookingList
	if err := c.do(ctx, http.MethodGet, "/bookings/search", q, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) GetStatistics(ctx context.Context) (*domain.BookingStatistics, error) {
	var stats domain.BookingStatistics
	if err := c.do(ctx, http.MethodGet, "/bookings/statistics", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) ListCalendarRange(ctx context.Context, from, to time.Time) (*BookingList, error) {
	q := url.Values{
		"from": []string{from.Format(time.RFC3339)},
		"to":   []string{to.Format(time.RFC3339)},
	}
	var list BookingList
	if err := c.do(ctx, http.MethodGet, "/bookings/calendar", q, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) CheckAvailability(ctx context.Context, travelID string, passengers int) (*AvailabilityResult, error) {
	body := map[string]any{"travelId": travelID, "passengers": passengers}
	var res AvailabilityResult
	if err := c.do(ctx, http.MethodPost, "/bookings/check-availability", nil, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ValidateBooking(ctx context.Context, req CreateBookingRequest) (*ValidationResult, error) {
	var res ValidationResult
	if err := c.do(ctx, http.MethodPost, "/bookings/validate", nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("booking api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(data))
}

func (c ListCriteria) query() url.Values {
	q := url.Values{}
	if c.Status != "" {
		q.Set("status", string(c.Status))
	}
	if c.UserID != "" {
		q.Set("userId", c.UserID)
	}
	if c.TravelID != "" {
		q.Set("travelId", c.TravelID)
	}
	if !c.From.IsZero() {
		q.Set("from", c.From.Format(time.RFC3339))
	}
	if !c.To.IsZero() {
		q.Set("to", c.To.Format(time.RFC3339))
	}
	if c.SortBy != "" {
		q.Set("sortBy", c.SortBy)
		if c.SortOrder != "" {
			q.Set("sortOrder", c.SortOrder)
		}
	}
	if c.Page > 0 {
		q.Set("page", strconv.Itoa(c.Page))
	}
	if c.Limit > 0 {
		q.Set("limit", strconv.Itoa(c.Limit))
	}
	if len(q) == 0 {
		return nil
	}
	return q
}
