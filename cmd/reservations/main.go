package main

import (
	propertieshandler "innkeep/internal/properties/handler"
	propertiesrepo "innkeep/internal/properties/repository"
	propertiesservice "innkeep/internal/properties/service"
	propertiesvalidator "innkeep/internal/properties/validator"
	"innkeep/internal/reservations/handler"
	"innkeep/internal/reservations/repository"
	"innkeep/internal/reservations/service"
	"innkeep/internal/reservations/validator"
	"innkeep/pkg/app"
	"innkeep/pkg/config"
	"innkeep/pkg/events"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Reservations service")

	publisher := initPublisher(cfg)

	reservationStore := repository.NewMongoReservationStore(cfg)
	roomLocker := repository.NewMongoRoomLocker(cfg)
	propertyStore := propertiesrepo.NewMongoPropertyStore(cfg)
	roomStore := propertiesrepo.NewMongoRoomStore(cfg)

	propertyValidator := propertiesvalidator.NewPropertyValidator(cfg.Log)
	reservationValidator := validator.NewReservationValidator(cfg.Log)

	reservationService := service.NewReservationService(
		reservationStore,
		roomLocker,
		roomStore,
		propertyStore,
		reservationValidator,
		publisher,
		cfg,
	)
	calendarService := service.NewCalendarService(reservationStore, roomStore, propertyStore, cfg)
	propertyService := propertiesservice.NewPropertyService(propertyStore, roomStore, propertyValidator, cfg)
	roomService := propertiesservice.NewRoomService(roomStore, propertyStore, reservationStore, propertyValidator, cfg)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewHealthHandler(cfg.Client, cfg.Log),
		handler.NewReservationHandler(reservationService, cfg.Log, cfg.MaxListLimit),
		handler.NewCalendarHandler(calendarService, cfg.Log),
		propertieshandler.NewPropertyHandler(propertyService, cfg.Log),
		propertieshandler.NewRoomHandler(roomService, cfg.Log),
	)
	serverApp.OnShutdown(func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
		cfg.GracefulShutdown()
	})
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("No Kafka brokers configured, reservation events disabled")
		return events.NopPublisher{}
	}

	publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event publisher", "error", err)
	}
	cfg.Log.Info("Reservation events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	return publisher
}
