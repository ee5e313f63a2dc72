package validator

import (
	"errors"
	"testing"

	"oxibook/pkg/logger"
	"oxibook/pkg/model"
)

func newTestValidator() *BookingValidator {
	log := logger.New(logger.Config{Level: "error", Service: "test"})
	return NewBookingValidator(log)
}

func validCreate() *model.BookingCreate {
	return &model.BookingCreate{
		UserID:          "U-1001",
		VendorID:        "V-2002",
		ServiceType:     model.ServiceClinic,
		AppointmentDate: "2024-06-15",
		AppointmentTime: "10:30:00",
		Name:            "Asha Rao",
		Address:         "12 Lake View Road",
		PhoneNumber:     "+919876543210",
		Email:           "asha@example.com",
		ServicePrice:    "499",
	}
}

func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*model.BookingCreate)
		wantField string // empty means valid
	}{
		{
			name:   "valid 24h payload",
			mutate: func(p *model.BookingCreate) {},
		},
		{
			name:   "valid 12h time",
			mutate: func(p *model.BookingCreate) { p.AppointmentTime = "2:30 PM" },
		},
		{
			name:   "optional contact fields may be empty",
			mutate: func(p *model.BookingCreate) { p.PhoneNumber = ""; p.Email = "" },
		},
		{
			name:      "missing user id",
			mutate:    func(p *model.BookingCreate) { p.UserID = "" },
			wantField: "UserID",
		},
		{
			name:      "unknown service type",
			mutate:    func(p *model.BookingCreate) { p.ServiceType = "Oxi Spa" },
			wantField: "ServiceType",
		},
		{
			name:      "bad date format",
			mutate:    func(p *model.BookingCreate) { p.AppointmentDate = "15/06/2024" },
			wantField: "AppointmentDate",
		},
		{
			name:      "time out of range",
			mutate:    func(p *model.BookingCreate) { p.AppointmentTime = "25:99" },
			wantField: "AppointmentTime",
		},
		{
			name:      "time in neither grammar",
			mutate:    func(p *model.BookingCreate) { p.AppointmentTime = "half past two" },
			wantField: "AppointmentTime",
		},
		{
			name:      "phone not E164",
			mutate:    func(p *model.BookingCreate) { p.PhoneNumber = "98765" },
			wantField: "PhoneNumber",
		},
		{
			name:      "bad email",
			mutate:    func(p *model.BookingCreate) { p.Email = "not-an-email" },
			wantField: "Email",
		},
		{
			name:      "name too short",
			mutate:    func(p *model.BookingCreate) { p.Name = "A" },
			wantField: "Name",
		},
	}

	v := newTestValidator()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validCreate()
			tt.mutate(payload)

			err := v.ValidateCreate(payload)

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateCreate() unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("ValidateCreate() expected error on %s", tt.wantField)
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %T", err)
			}

			found := false
			for _, ve := range verrs {
				if ve.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected a %s error, got %v", tt.wantField, verrs)
			}
		})
	}
}

func TestValidateReschedule(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateReschedule(&model.BookingReschedule{
		AppointmentDate: "2024-07-01",
		AppointmentTime: "9:00 AM",
	}); err != nil {
		t.Fatalf("valid reschedule rejected: %v", err)
	}

	err := v.ValidateReschedule(&model.BookingReschedule{
		AppointmentDate: "2024-07-01",
	})
	if err == nil {
		t.Fatalf("reschedule without a time must fail")
	}
}
