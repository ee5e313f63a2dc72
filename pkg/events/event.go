package events

import "time"

// Event types emitted on the booking lifecycle topic.
const (
	TypeBookingCreated     = "booking.created"
	TypeBookingCancelled   = "booking.cancelled"
	TypeBookingCompleted   = "booking.completed"
	TypeBookingRescheduled = "booking.rescheduled"
)

// Header keys shared with downstream consumers (notifications,
// analytics).
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"
)

// BookingEvent is the payload published for every lifecycle
// transition. AppointmentAt is the combined instant; zero when the
// stored date/time pair did not parse.
type BookingEvent struct {
	BookingID     string    `json:"booking_id"`
	UserID        string    `json:"user_id"`
	VendorID      string    `json:"vendor_id"`
	ServiceType   string    `json:"service_type"`
	Status        string    `json:"status"`
	AppointmentAt time.Time `json:"appointment_at,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
