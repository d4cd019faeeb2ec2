package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"lalastore/internal/config"
	"lalastore/internal/database"
	"lalastore/internal/handlers"
	"lalastore/internal/middleware"
	"lalastore/internal/repositories"
	"lalastore/internal/services"
	"lalastore/pkg/events"
	"lalastore/pkg/idempotency"
	"lalastore/pkg/kafka"
	"lalastore/pkg/metrics"
	"lalastore/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, cleanup, err := newApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer cleanup()

	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// newApp wires the database, event publishers, idempotency store and handlers
// into a Fiber app. The returned cleanup releases every acquired resource.
func newApp(cfg *config.Config) (*fiber.App, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Printf("Error during cleanup: %v", err)
			}
		}
	}

	db, err := database.Open(database.Options{
		Driver:       cfg.DatabaseDriver,
		DSN:          cfg.DatabaseDSN,
		MaxOpenConns: cfg.DatabaseMaxOpenConns,
	})
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, sqlDB.Close)

	if err := database.Migrate(db); err != nil {
		cleanup()
		return nil, nil, err
	}
	if cfg.SeedData {
		if err := database.Seed(context.Background(), db); err != nil {
			cleanup()
			return nil, nil, err
		}
	}
	store := repositories.NewGORMStore(db)

	var publishers events.Publishers
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.RabbitMQExchange})
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, mqClient.Close)
		publishers = append(publishers, mqClient)

		log.Println("Starting RabbitMQ consumer for order events...")
		if err := mqClient.ConsumeOrderEvents(rabbitmq.HandleOrderMessage); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	kafkaPublisher, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	switch {
	case errors.Is(err, kafka.ErrDisabled):
	case err != nil:
		cleanup()
		return nil, nil, err
	default:
		log.Printf("Publishing order events to Kafka topic %s", cfg.KafkaTopic)
		closers = append(closers, kafkaPublisher.Close)
		publishers = append(publishers, kafkaPublisher)
	}

	var idemStore idempotency.Store = idempotency.NewMemoryStore()
	if cfg.RedisURL != "" {
		redisStore, err := idempotency.NewRedisStore(context.Background(), cfg.RedisURL)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, redisStore.Close)
		idemStore = redisStore
	}

	serverMetrics := metrics.NewServerMetrics("api")

	var publisher events.Publisher
	if len(publishers) > 0 {
		publisher = publishers
	}

	repos := store.Repositories()
	productService := services.NewProductService(repos.Products)
	cartService := services.NewCartService(repos.Carts, repos.Products)
	orderService := services.NewOrderService(store, publisher, serverMetrics)
	authService := services.NewAuthService(repos.Users)

	app := fiber.New()

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(middleware.Metrics(serverMetrics))

	app.Get("/metrics", adaptor.HTTPHandler(serverMetrics.Handler()))

	api := app.Group("/api")
	handlers.NewHealthHandler(store).RegisterRoutes(api)
	handlers.NewProductHandler(productService).RegisterRoutes(api)
	handlers.NewCartHandler(cartService).RegisterRoutes(api)
	handlers.NewOrderHandler(orderService, middleware.Idempotency(idemStore, cfg.IdempotencyTTL, handlers.OrderUserScope)).RegisterRoutes(api)
	handlers.NewAuthHandler(authService).RegisterRoutes(api)

	return app, cleanup, nil
}
