package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	bookingserrors "oxibook/internal/bookings/errors"
	"oxibook/internal/bookings/repository"
	"oxibook/internal/bookings/validator"
	"oxibook/pkg/config"
	apperrors "oxibook/pkg/errors"
	"oxibook/pkg/events"
	"oxibook/pkg/lifecycle"
	"oxibook/pkg/model"
	"oxibook/pkg/sanitizer"
)

type BookingService interface {
	Create(ctx context.Context, payload *model.BookingCreate) (*model.BookingRecord, error)
	GetByID(ctx context.Context, bookingID string) (*model.BookingRecord, error)
	List(ctx context.Context, scope repository.Scope, limit int, offset int64) ([]*model.BookingRecord, int64, error)
	ClassifiedView(ctx context.Context, scope repository.Scope, view lifecycle.View, ownerID string, now time.Time) (lifecycle.Result, error)
	Cancel(ctx context.Context, bookingID string) (*model.BookingRecord, error)
	Complete(ctx context.Context, bookingID string) (*model.BookingRecord, error)
	Reschedule(ctx context.Context, bookingID string, update *model.BookingReschedule) (*model.BookingRecord, error)
}

type bookingService struct {
	repo       repository.BookingRepository
	validator  *validator.BookingValidator
	normalizer *lifecycle.Normalizer
	publisher  *events.Publisher
	cfg        *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	bookingValidator *validator.BookingValidator,
	publisher *events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:       repo,
		validator:  bookingValidator,
		normalizer: lifecycle.NewNormalizer(cfg.Log, lifecycle.Status(cfg.UnknownStatusFallback)),
		publisher:  publisher,
		cfg:        cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, payload *model.BookingCreate) (*model.BookingRecord, error) {
	s.sanitizeCreate(payload)

	if err := s.validator.ValidateCreate(payload); err != nil {
		s.cfg.Log.Warn("Booking creation validation failed", "error", err)
		return nil, validationError(err)
	}

	// The tag validators check each field alone; the combined pair
	// must also form a real instant before it enters the store.
	instant, err := lifecycle.ParseInstant(payload.AppointmentDate, payload.AppointmentTime, s.cfg.BookingTimezone)
	if err != nil {
		return nil, apperrors.Validation("Appointment date and time do not combine into a valid instant", map[string]any{
			"appointment_date": payload.AppointmentDate,
			"appointment_time": payload.AppointmentTime,
		})
	}

	record := &model.BookingRecord{
		BookingID:       newBookingID(),
		UserID:          payload.UserID,
		VendorID:        payload.VendorID,
		ServiceType:     payload.ServiceType,
		AppointmentDate: payload.AppointmentDate,
		AppointmentTime: payload.AppointmentTime,
		Status:          string(lifecycle.StatusUpcoming),
		Name:            payload.Name,
		Address:         payload.Address,
		PhoneNumber:     payload.PhoneNumber,
		Email:           payload.Email,
		ServicePrice:    payload.ServicePrice,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		if errors.Is(err, bookingserrors.ErrDuplicateID) {
			return nil, apperrors.Conflict("Booking ID collision, retry the request")
		}
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.publisher.Publish(ctx, events.TypeBookingCreated, s.event(record, instant))

	s.cfg.Log.Info("Booking created",
		"booking_id", record.BookingID,
		"user_id", record.UserID,
		"vendor_id", record.VendorID,
		"service_type", record.ServiceType,
		"appointment_at", instant,
	)
	return record, nil
}

func (s *bookingService) GetByID(ctx context.Context, bookingID string) (*model.BookingRecord, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	record, err := s.repo.FindByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", bookingID)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return record, nil
}

func (s *bookingService) List(ctx context.Context, scope repository.Scope, limit int, offset int64) ([]*model.BookingRecord, int64, error) {
	var count int64
	var records []*model.BookingRecord
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByScope(ctx, scope)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		records, errFind = s.repo.FindByScope(ctx, scope, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return records, count, nil
}

// ClassifiedView fetches the full scope snapshot and classifies it for
// the requested view. Classification is pure over the snapshot;
// concurrent fetches simply race to the latest snapshot.
func (s *bookingService) ClassifiedView(ctx context.Context, scope repository.Scope, view lifecycle.View, ownerID string, now time.Time) (lifecycle.Result, error) {
	records, err := s.repo.FindByScope(ctx, scope, 0, 0)
	if err != nil {
		s.cfg.Log.Error("Failed to fetch bookings for classification", "error", err)
		return lifecycle.Result{}, apperrors.Internal("Failed to retrieve bookings", err)
	}

	s.applyStatusFallback(records)

	result := lifecycle.Classify(records, now, view, ownerID, s.cfg.BookingTimezone)

	if result.Displayable < result.Total {
		s.cfg.Log.Warn("Bookings excluded from time-ordered views",
			"view", string(view),
			"total", result.Total,
			"displayable", result.Displayable,
		)
	}
	return result, nil
}

func (s *bookingService) Cancel(ctx context.Context, bookingID string) (*model.BookingRecord, error) {
	return s.transition(ctx, bookingID, lifecycle.StatusCancelled, events.TypeBookingCancelled)
}

func (s *bookingService) Complete(ctx context.Context, bookingID string) (*model.BookingRecord, error) {
	return s.transition(ctx, bookingID, lifecycle.StatusCompleted, events.TypeBookingCompleted)
}

func (s *bookingService) transition(ctx context.Context, bookingID string, to lifecycle.Status, eventType string) (*model.BookingRecord, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	record, err := s.repo.UpdateStatus(ctx, bookingID, string(to))
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", bookingID)
		}
		if errors.Is(err, bookingserrors.ErrTerminal) {
			return nil, apperrors.Conflict("Booking is already cancelled or completed, re-fetch and re-classify")
		}
		s.cfg.Log.Error("Failed to update booking status", "booking_id", bookingID, "error", err)
		return nil, apperrors.Internal("Failed to update booking status", err)
	}

	instant, _ := lifecycle.ParseInstant(record.AppointmentDate, record.AppointmentTime, s.cfg.BookingTimezone)
	s.publisher.Publish(ctx, eventType, s.event(record, instant))

	s.cfg.Log.Info("Booking status updated",
		"booking_id", bookingID,
		"status", string(to),
	)
	return record, nil
}

func (s *bookingService) Reschedule(ctx context.Context, bookingID string, update *model.BookingReschedule) (*model.BookingRecord, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	if err := s.validator.ValidateReschedule(update); err != nil {
		s.cfg.Log.Warn("Reschedule validation failed", "booking_id", bookingID, "error", err)
		return nil, validationError(err)
	}

	instant, err := lifecycle.ParseInstant(update.AppointmentDate, update.AppointmentTime, s.cfg.BookingTimezone)
	if err != nil {
		return nil, apperrors.Validation("Appointment date and time do not combine into a valid instant", map[string]any{
			"appointment_date": update.AppointmentDate,
			"appointment_time": update.AppointmentTime,
		})
	}

	record, err := s.repo.Reschedule(ctx, bookingID, update.AppointmentDate, update.AppointmentTime)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", bookingID)
		}
		if errors.Is(err, bookingserrors.ErrTerminal) {
			return nil, apperrors.Conflict("Booking is already cancelled or completed, re-fetch and re-classify")
		}
		s.cfg.Log.Error("Failed to reschedule booking", "booking_id", bookingID, "error", err)
		return nil, apperrors.Internal("Failed to reschedule booking", err)
	}

	s.publisher.Publish(ctx, events.TypeBookingRescheduled, s.event(record, instant))

	s.cfg.Log.Info("Booking rescheduled",
		"booking_id", bookingID,
		"appointment_at", instant,
	)
	return record, nil
}

// --- Helpers ---

func (s *bookingService) sanitizeCreate(payload *model.BookingCreate) {
	payload.Name = sanitizer.SanitizeDisplayField(payload.Name)
	payload.Address = sanitizer.SanitizeDisplayField(payload.Address)
	payload.PhoneNumber = sanitizer.SanitizePhone(payload.PhoneNumber)
	payload.Email = sanitizer.SanitizeEmail(payload.Email)
}

// applyStatusFallback rewrites raw statuses outside the known
// vocabulary to the configured fallback, logging each one. Recognized
// values pass through untouched so the classifier stays the single
// mapping authority.
func (s *bookingService) applyStatusFallback(records []*model.BookingRecord) {
	for i, record := range records {
		if record == nil {
			continue
		}
		fallback := s.normalizer.Normalize(record.Status)
		if fallback == lifecycle.Normalize(record.Status) {
			continue
		}
		clone := *record
		clone.Status = string(fallback)
		records[i] = &clone
	}
}

func (s *bookingService) event(record *model.BookingRecord, instant time.Time) events.BookingEvent {
	return events.BookingEvent{
		BookingID:     record.BookingID,
		UserID:        record.UserID,
		VendorID:      record.VendorID,
		ServiceType:   record.ServiceType,
		Status:        record.Status,
		AppointmentAt: instant,
	}
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]map[string]string, 0, len(verrs))
		for _, ve := range verrs {
			fields = append(fields, map[string]string{
				"field":   ve.Field,
				"message": ve.Message,
			})
		}
		return apperrors.Validation("Booking validation failed", map[string]any{"fields": fields})
	}
	return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
}

func newBookingID() string {
	return fmt.Sprintf("OXI-%s", uuid.NewString())
}
