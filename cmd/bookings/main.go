package main

import (
	"oxibook/internal/bookings/handler"
	"oxibook/internal/bookings/repository"
	"oxibook/internal/bookings/service"
	"oxibook/internal/bookings/validator"
	"oxibook/pkg/app"
	"oxibook/pkg/config"
	"oxibook/pkg/events"
)

const serviceName = "bookings"

func main() {
	cfg := config.Load(serviceName)
	cfg.SetMongo()

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, serviceName, cfg.Log)

	repo := repository.NewMongoBookingRepository(cfg)
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	svc := service.NewBookingService(repo, bookingValidator, publisher, cfg)

	application := app.New(cfg,
		handler.NewBookingHandler(svc, cfg.Log),
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
	)
	application.OnShutdown(publisher.Close)

	application.Run()
}
