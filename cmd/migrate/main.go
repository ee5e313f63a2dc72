package main

import (
	"context"

	migrations "oxibook/internal/migrations/mongo"
	"oxibook/pkg/config"
)

func main() {
	cfg := config.Load("migrate")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	if err := migrations.Migrate(context.Background(), cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
}
