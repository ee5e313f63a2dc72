package model

import (
	"time"
)

// Service types the booking backend currently serves.
const (
	ServiceClinic = "Oxi Clinic"
	ServiceWheel  = "Oxi Wheel"
)

// BookingRecord is the canonical record shape shared by the user,
// vendor and admin views. Status holds the raw backend string; use
// lifecycle.Normalize before comparing it, never the raw value.
type BookingRecord struct {
	BookingID       string    `json:"booking_id" bson:"booking_id" validate:"required"`
	UserID          string    `json:"user_id" bson:"user_id" validate:"required"`
	VendorID        string    `json:"vendor_id" bson:"vendor_id" validate:"required"`
	ServiceType     string    `json:"service_type" bson:"service_type" validate:"required,servicetype"`
	AppointmentDate string    `json:"appointment_date" bson:"appointment_date" validate:"required,apptdate"`
	AppointmentTime string    `json:"appointment_time" bson:"appointment_time" validate:"required,appttime"`
	Status          string    `json:"booking_status" bson:"booking_status"`
	Name            string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Address         string    `json:"address" bson:"address" validate:"required,min=2,max=300"`
	PhoneNumber     string    `json:"phone_number,omitempty" bson:"phone_number,omitempty" validate:"omitempty,e164"`
	Email           string    `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	ServicePrice    string    `json:"service_price,omitempty" bson:"service_price,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
}

// BookingCreate is the creation payload handed over after payment
// capture. The booking ID and initial status are assigned server-side.
type BookingCreate struct {
	UserID          string `json:"user_id" validate:"required"`
	VendorID        string `json:"vendor_id" validate:"required"`
	ServiceType     string `json:"service_type" validate:"required,servicetype"`
	AppointmentDate string `json:"appointment_date" validate:"required,apptdate"`
	AppointmentTime string `json:"appointment_time" validate:"required,appttime"`
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Address         string `json:"address" validate:"required,min=2,max=300"`
	PhoneNumber     string `json:"phone_number,omitempty" validate:"omitempty,e164"`
	Email           string `json:"email,omitempty" validate:"omitempty,email"`
	ServicePrice    string `json:"service_price,omitempty"`
}

// BookingReschedule carries the new appointment slot for an existing
// booking. Both fields are required; a reschedule always moves the
// full instant.
type BookingReschedule struct {
	AppointmentDate string `json:"appointment_date" validate:"required,apptdate"`
	AppointmentTime string `json:"appointment_time" validate:"required,appttime"`
}
