package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"oxibook/pkg/lifecycle"
	"oxibook/pkg/logger"
	"oxibook/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	registrations := map[string]validator.Func{
		"apptdate":    validateAppointmentDate,
		"appttime":    validateAppointmentTime,
		"servicetype": validateServiceType,
	}
	for tag, fn := range registrations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatal("Failed to register booking validator", "tag", tag, "error", err)
		}
	}

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func validateAppointmentDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

// validateAppointmentTime accepts both grammars the lifecycle parser
// accepts: "HH:MM[:SS]" and "hh:mm AM/PM". Anchoring on a fixed date
// keeps a single parsing authority instead of a second regex set.
func validateAppointmentTime(fl validator.FieldLevel) bool {
	_, err := lifecycle.ParseInstant("2000-01-01", fl.Field().String(), time.UTC)
	return err == nil
}

func validateServiceType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case model.ServiceClinic, model.ServiceWheel:
		return true
	default:
		return false
	}
}

func (v *BookingValidator) ValidateCreate(payload *model.BookingCreate) error {
	return v.run(payload)
}

func (v *BookingValidator) ValidateRecord(record *model.BookingRecord) error {
	return v.run(record)
}

func (v *BookingValidator) ValidateReschedule(update *model.BookingReschedule) error {
	return v.run(update)
}

func (v *BookingValidator) run(target any) error {
	if err := v.validate.Struct(target); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +919876543210)", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "apptdate":
			message = fmt.Sprintf("%s must be a YYYY-MM-DD date", err.Field())
		case "appttime":
			message = fmt.Sprintf("%s must be HH:MM[:SS] or hh:mm AM/PM", err.Field())
		case "servicetype":
			message = fmt.Sprintf("%s must be %q or %q", err.Field(), model.ServiceClinic, model.ServiceWheel)
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
