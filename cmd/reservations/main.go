package main

import (
	"roomly/internal/reservations/conflict"
	"roomly/internal/reservations/events"
	"roomly/internal/reservations/handler"
	"roomly/internal/reservations/repository"
	"roomly/internal/reservations/service"
	"roomly/internal/reservations/validator"
	"roomly/pkg/app"
	"roomly/pkg/config"
	"roomly/pkg/kafka"
	kafka_config "roomly/pkg/kafka/config"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Reservations service")

	publisher := initPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	reservationService := initServices(cfg, publisher)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewReservationHandler(reservationService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher events.Publisher) service.ReservationService {
	repo := repository.NewMongoReservationRepository(cfg)
	detector := conflict.NewDetector(repo, cfg.Location, cfg.Log)
	formValidator := validator.NewFormValidator(cfg)
	reservationService := service.NewReservationService(repo, detector, formValidator, publisher, cfg)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService
}

func initPublisher(cfg *config.Config) events.Publisher {
	kafkaCfg := kafka_config.Load()
	if !kafkaCfg.Enabled {
		cfg.Log.Info("Event publishing disabled")
		return events.NopPublisher{}
	}

	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.EventTopic, kafkaCfg.DLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Event publishing enabled",
		"brokers", kafkaCfg.Brokers,
		"topic", kafkaCfg.EventTopic,
	)
	return events.NewKafkaPublisher(producer, ServiceName, cfg.Log)
}
