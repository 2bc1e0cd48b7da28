package main

import (
	"github.com/prometheus/client_golang/prometheus"

	"roomly/internal/admissions/events"
	"roomly/internal/admissions/handler"
	"roomly/internal/admissions/repository"
	"roomly/internal/admissions/service"
	"roomly/internal/metrics"
	"roomly/pkg/app"
	"roomly/pkg/config"
	kafkaconfig "roomly/pkg/kafka/config"
)

const ServiceName = "admissions"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Admissions service")

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	publisher := initPublisher(cfg)
	defer publisher.Close()

	admissionService := initServices(cfg, publisher, collector)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewBookingHandler(admissionService, cfg.Log),
		handler.NewHealthHandler(cfg),
		metrics.Handler(registry),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher events.Publisher, collector *metrics.Collector) service.AdmissionService {
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	admissionService := service.FromConfig(cfg, bookingRepo, publisher, collector)

	cfg.Log.Info("Admission service initialized", "database", cfg.MongoDatabaseName)
	return admissionService
}

// initPublisher builds the Kafka publisher when brokers are configured and
// falls back to a no-op otherwise, so the service runs without a broker.
func initPublisher(cfg *config.Config) events.Publisher {
	if cfg.KafkaBrokers == "" {
		cfg.Log.Info("No Kafka brokers configured, committed events will not be published")
		return events.Nop{}
	}

	publisher, err := events.NewKafkaPublisher(kafkaconfig.Load(), cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka publisher", "error", err)
	}
	cfg.Log.Info("Kafka publisher initialized", "topic", events.TopicBookingCommitted)
	return publisher
}
