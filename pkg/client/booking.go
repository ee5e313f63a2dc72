package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"oxibook/pkg/model"
)

// BookingClient is the typed consumer surface of the booking record
// store, used by sibling services and UI glue code.
type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseURL string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseURL),
	}
}

// Scope restricts a record fetch to one owner dimension. Zero value
// means "all records" (admin scope).
type Scope struct {
	UserID   string
	VendorID string
	Address  string
}

func (s Scope) query() url.Values {
	q := url.Values{}
	if s.UserID != "" {
		q.Set("user_id", s.UserID)
	}
	if s.VendorID != "" {
		q.Set("vendor_id", s.VendorID)
	}
	if s.Address != "" {
		q.Set("address", s.Address)
	}
	return q
}

func (c *BookingClient) Create(ctx context.Context, payload *model.BookingCreate, idempotencyKey string) (*Response, error) {
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers["Idempotency-Key"] = idempotencyKey
	}
	return c.httpClient.POSTWithHeaders(ctx, "/api/v1/bookings", payload, headers)
}

func (c *BookingClient) GetByID(ctx context.Context, bookingID string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/bookings/id/"+url.PathEscape(bookingID))
}

func (c *BookingClient) List(ctx context.Context, scope Scope, limit int, offset int64) (*Response, error) {
	q := scope.query()
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))
	return c.httpClient.GET(ctx, "/api/v1/bookings?"+q.Encode())
}

// View fetches a classified booking list: view is upcoming, cancelled
// or history; ownerID applies the end-user history restriction.
func (c *BookingClient) View(ctx context.Context, view string, scope Scope, ownerID string) (*Response, error) {
	q := scope.query()
	q.Set("view", view)
	if ownerID != "" {
		q.Set("owner_id", ownerID)
	}
	return c.httpClient.GET(ctx, "/api/v1/bookings/view?"+q.Encode())
}

func (c *BookingClient) Cancel(ctx context.Context, bookingID string) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/bookings/id/"+url.PathEscape(bookingID)+"/cancel", nil)
}

func (c *BookingClient) Complete(ctx context.Context, bookingID string) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/bookings/id/"+url.PathEscape(bookingID)+"/complete", nil)
}

func (c *BookingClient) Reschedule(ctx context.Context, bookingID string, body *model.BookingReschedule) (*Response, error) {
	return c.httpClient.PATCH(ctx, "/api/v1/bookings/id/"+url.PathEscape(bookingID), body)
}

func (c *BookingClient) DecodeBooking(resp *Response) (*model.BookingRecord, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode booking wrapper:\n%s\n%w", resp.ToString(), err)
	}

	var booking model.BookingRecord
	if err := json.Unmarshal(wrapper.Data, &booking); err != nil {
		return nil, fmt.Errorf("could not decode booking json:\n%s\n%w", resp.ToString(), err)
	}
	return &booking, nil
}

func (c *BookingClient) DecodeBookings(resp *Response) ([]*model.BookingRecord, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode booking list wrapper:\n%s\n%w", resp.ToString(), err)
	}

	var bookings []*model.BookingRecord
	if err := json.Unmarshal(wrapper.Data, &bookings); err != nil {
		return nil, fmt.Errorf("could not decode booking list:\n%s\n%w", resp.ToString(), err)
	}
	return bookings, nil
}
