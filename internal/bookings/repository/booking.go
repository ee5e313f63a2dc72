package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingserrors "oxibook/internal/bookings/errors"
	"oxibook/pkg/config"
	"oxibook/pkg/model"
)

const (
	CollectionName = "Bookings"
)

// terminalStatuses are the raw values that end a booking's lifecycle.
// Matched with case-insensitive collation, legacy records carry
// "Cancel"/"CANCELLED" spellings.
var terminalStatuses = bson.A{"cancel", "cancelled", "completed"}

var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// Scope restricts queries to one owner dimension; the zero value is
// the admin "all records" scope.
type Scope struct {
	UserID   string
	VendorID string
	Address  string
}

func (s Scope) filter() bson.M {
	filter := bson.M{}
	if s.UserID != "" {
		filter["user_id"] = s.UserID
	}
	if s.VendorID != "" {
		filter["vendor_id"] = s.VendorID
	}
	if s.Address != "" {
		filter["address"] = s.Address
	}
	return filter
}

type BookingRepository interface {
	Create(ctx context.Context, record *model.BookingRecord) error
	FindByBookingID(ctx context.Context, bookingID string) (*model.BookingRecord, error)
	FindByScope(ctx context.Context, scope Scope, limit int, offset int64) ([]*model.BookingRecord, error)
	CountByScope(ctx context.Context, scope Scope) (int64, error)
	UpdateStatus(ctx context.Context, bookingID string, newStatus string) (*model.BookingRecord, error)
	Reschedule(ctx context.Context, bookingID string, date string, timeOfDay string) (*model.BookingRecord, error)
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithTimeout(ctx, time.Until(deadline))
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, record *model.BookingRecord) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	record.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", bookingserrors.ErrDuplicateID, record.BookingID)
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *mongoBookingRepository) FindByBookingID(ctx context.Context, bookingID string) (*model.BookingRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var record model.BookingRecord
	err := r.collection.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &record, nil
}

func (r *mongoBookingRepository) FindByScope(ctx context.Context, scope Scope, limit int, offset int64) ([]*model.BookingRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	// Appointment date/time live as mixed-format strings; instant
	// ordering is the classifier's job. Creation order keeps paging
	// stable.
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit)).SetSkip(offset)
	}

	cursor, err := r.collection.Find(ctx, scope.filter(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*model.BookingRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return records, nil
}

func (r *mongoBookingRepository) CountByScope(ctx context.Context, scope Scope) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, scope.filter())
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// UpdateStatus transitions a booking unless it already reached a
// terminal state. The guard and the write are a single document
// operation, so two racing mutations cannot both win.
func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, bookingID string, newStatus string) (*model.BookingRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"booking_id":     bookingID,
		"booking_status": bson.M{"$nin": terminalStatuses},
	}
	update := bson.M{"$set": bson.M{"booking_status": newStatus}}

	opts := options.FindOneAndUpdate().
		SetCollation(caseInsensitive).
		SetReturnDocument(options.After)

	var record model.BookingRecord
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&record)
	if err == nil {
		return &record, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	return nil, r.classifyGuardMiss(ctx, bookingID)
}

// Reschedule moves the appointment slot; terminal bookings cannot be
// rescheduled.
func (r *mongoBookingRepository) Reschedule(ctx context.Context, bookingID string, date string, timeOfDay string) (*model.BookingRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"booking_id":     bookingID,
		"booking_status": bson.M{"$nin": terminalStatuses},
	}
	update := bson.M{"$set": bson.M{
		"appointment_date": date,
		"appointment_time": timeOfDay,
	}}

	opts := options.FindOneAndUpdate().
		SetCollation(caseInsensitive).
		SetReturnDocument(options.After)

	var record model.BookingRecord
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&record)
	if err == nil {
		return &record, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to reschedule booking: %w", err)
	}

	return nil, r.classifyGuardMiss(ctx, bookingID)
}

// classifyGuardMiss distinguishes "no such booking" from "booking is
// terminal" after a guarded write matched nothing.
func (r *mongoBookingRepository) classifyGuardMiss(ctx context.Context, bookingID string) error {
	err := r.collection.FindOne(ctx, bson.M{"booking_id": bookingID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return bookingserrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check booking existence: %w", err)
	}
	return bookingserrors.ErrTerminal
}
