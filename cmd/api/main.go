package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/swifttrack/tracking-service/internal/api/handlers"
	"github.com/swifttrack/tracking-service/internal/application"
	"github.com/swifttrack/tracking-service/internal/infrastructure/events"
	mongoRepo "github.com/swifttrack/tracking-service/internal/infrastructure/mongodb"
	"github.com/swifttrack/tracking-service/internal/ui"
	"github.com/swifttrack/tracking-service/pkg/cloudevents"
	"github.com/swifttrack/tracking-service/pkg/kafka"
	"github.com/swifttrack/tracking-service/pkg/logging"
	"github.com/swifttrack/tracking-service/pkg/metrics"
	"github.com/swifttrack/tracking-service/pkg/middleware"
	"github.com/swifttrack/tracking-service/pkg/mongodb"
)

const serviceName = "tracking-service"

func main() {
	if err := run(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	config := loadConfig()

	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting tracking-service API")

	m := metrics.New(metrics.DefaultConfig(serviceName))

	mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	defer mongoClient.Close(ctx)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	kafkaProducer := kafka.NewProducer(config.Kafka)
	producer := kafka.NewCircuitBreakerProducer(kafkaProducer, m, logger)
	defer producer.Close()
	logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)

	eventFactory := cloudevents.NewEventFactory(cloudevents.SourceTracking)
	publisher := events.NewKafkaEventPublisher(producer, eventFactory, logger)

	db := mongoClient.Database()
	shipmentRepo := mongoRepo.NewShipmentRepository(db, m, logger)
	hub := mongoRepo.NewHub(m)

	// Live subscription: the watcher republishes the full collection on
	// every change for the lifetime of the process.
	watcherCtx, stopWatcher := context.WithCancel(ctx)
	defer stopWatcher()
	watcher := mongoRepo.NewWatcher(db, shipmentRepo, hub, m, logger)
	go watcher.Run(watcherCtx)
	logger.Info("Change stream watcher started")

	trackingService := application.NewTrackingApplicationService(shipmentRepo, publisher, m, logger)

	controller := ui.NewController(trackingService, logger)
	snapshots := hub.Subscribe()
	defer hub.Unsubscribe(snapshots)
	go func() {
		for snapshot := range snapshots {
			controller.ApplySnapshot(snapshot)
		}
	}()

	router := gin.New()
	middleware.Setup(router, middleware.DefaultConfig(serviceName, logger.Logger))
	router.Use(middleware.MetricsMiddleware(m))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return mongoClient.HealthCheck(ctx)
	}))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	apiV1 := router.Group("/api/v1")

	shipmentHandlers := handlers.NewShipmentHandlers(trackingService, logger)
	shipmentHandlers.RegisterRoutes(apiV1)

	streamHandlers := handlers.NewStreamHandlers(hub, logger)
	streamHandlers.RegisterRoutes(apiV1)

	appHandlers := handlers.NewAppHandlers(controller, hub, logger)
	appHandlers.RegisterRoutes(apiV1, router.Group("/app"))

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-signalCh:
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	stopWatcher()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
	return nil
}

// Config holds application configuration
type Config struct {
	ServerAddr string
	MongoDB    *mongodb.Config
	Kafka      *kafka.Config
}

func loadConfig() *Config {
	mongoConfig := mongodb.DefaultConfig()
	mongoConfig.URI = getEnv("MONGODB_URI", "mongodb://localhost:27017")
	mongoConfig.Database = getEnv("MONGODB_DATABASE", "swifttrack")
	mongoConfig.ReplicaSet = getEnv("MONGODB_REPLICA_SET", "")

	kafkaConfig := kafka.DefaultConfig()
	kafkaConfig.Brokers = strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8020"),
		MongoDB:    mongoConfig,
		Kafka:      kafkaConfig,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
