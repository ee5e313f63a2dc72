package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"oxibook/internal/bookings/repository"
	"oxibook/internal/migrations/validators"
	"oxibook/pkg/logger"
)

const migrationTimeout = 30 * time.Second

// Migrate creates the Bookings collection with its schema validator
// and indexes. Safe to run repeatedly; an existing collection only
// gets its validator refreshed.
func Migrate(ctx context.Context, client *mongo.Client, databaseName string, log *logger.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, migrationTimeout)
	defer cancel()

	db := client.Database(databaseName)

	if err := ensureCollection(ctx, db, log); err != nil {
		return err
	}
	if err := ensureIndexes(ctx, db, log); err != nil {
		return err
	}

	log.Info("Migration complete", "database", databaseName, "collection", repository.CollectionName)
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": repository.CollectionName})
	if err != nil {
		return fmt.Errorf("listing collections: %w", err)
	}

	if len(names) == 0 {
		opts := options.CreateCollection().SetValidator(validators.BookingSchema())
		if err := db.CreateCollection(ctx, repository.CollectionName, opts); err != nil {
			return fmt.Errorf("creating collection %s: %w", repository.CollectionName, err)
		}
		log.Info("Collection created", "collection", repository.CollectionName)
		return nil
	}

	// collMod keeps validators in sync on already-provisioned
	// environments.
	cmd := bson.D{
		{Key: "collMod", Value: repository.CollectionName},
		{Key: "validator", Value: validators.BookingSchema()},
		{Key: "validationLevel", Value: "moderate"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return fmt.Errorf("updating validator for %s: %w", repository.CollectionName, err)
	}
	log.Info("Collection validator refreshed", "collection", repository.CollectionName)
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "booking_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_booking_id"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("user_created"),
		},
		{
			Keys:    bson.D{{Key: "vendor_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("vendor_created"),
		},
		{
			Keys:    bson.D{{Key: "address", Value: 1}},
			Options: options.Index().SetName("address"),
		},
	}

	created, err := db.Collection(repository.CollectionName).Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	log.Info("Indexes ensured", "collection", repository.CollectionName, "indexes", created)
	return nil
}
