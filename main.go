package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"

	"undian/internal/auth"
	"undian/internal/export"
	"undian/internal/handlers"
	"undian/internal/identity"
	"undian/internal/middleware"
	"undian/internal/models"
	"undian/internal/services"
	"undian/internal/storage"
	"undian/internal/store"
	"undian/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	// Viper reads from environment variables with sensible local defaults.
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_DSN", "undian.db")
	viper.SetDefault("JWT_SECRET", "undian_dev_secret")
	viper.SetDefault("PASSWORD_SCHEME", "legacy")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables event publishing
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Storage & Record Store ---
	backend, err := storage.Open(viper.GetString("DATABASE_DRIVER"), viper.GetString("DATABASE_DSN"))
	if err != nil {
		log.Fatalf("Failed to open storage backend: %v", err)
	}
	recordStore := store.New(backend)

	// --- Auth ---
	hasher := identity.HasherFor(viper.GetString("PASSWORD_SCHEME"))
	if err := auth.EnsureSuperAdmin(recordStore, hasher); err != nil {
		log.Fatalf("Failed to seed super admin: %v", err)
	}

	// Admin sessions live in the durable backend and survive restarts; kasir
	// sessions live in memory and die with the process.
	adminSessions := auth.NewAdminSessionService(recordStore, backend, hasher)
	kasirSessions := auth.NewKasirSessionService(recordStore, storage.NewMemoryBackend(), hasher)
	gate := auth.Gate{Admin: adminSessions, Kasir: kasirSessions}
	issuer := auth.NewTokenIssuer(viper.GetString("JWT_SECRET"))

	// --- RabbitMQ (optional) ---
	var mqClient *rabbitmq.Client
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			log.Printf("RabbitMQ unavailable, events disabled: %v", err)
			mqClient = nil
		} else {
			defer mqClient.Close()
			// Log-only consumer; real downstream consumers (receipt printing,
			// notifications) run as their own processes.
			if consumerErr := mqClient.ConsumeEvents(func(msg amqp.Delivery) error {
				log.Printf("Received %s event (Tag: %d): %s", msg.Type, msg.DeliveryTag, string(msg.Body))
				return nil
			}); consumerErr != nil {
				log.Printf("Failed to start event consumer: %v", consumerErr)
			}
		}
	}

	// --- Services ---
	// services.EventPublisher is satisfied by *rabbitmq.Client; a typed nil
	// inside the interface would defeat the nil checks, hence the indirection.
	var events services.EventPublisher
	if mqClient != nil {
		events = mqClient
	}
	txnService := services.NewTransactionService(recordStore, events)
	exportBuilder := export.NewBuilder(recordStore)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(adminSessions, kasirSessions, issuer, recordStore, hasher)
	txnHandler := handlers.NewTransactionHandler(txnService)
	customerHandler := handlers.NewCustomerHandler(recordStore)
	voucherHandler := handlers.NewVoucherHandler(recordStore, exportBuilder)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	// Admin console: durable session, full visibility.
	adminGroup := apiV1.Group("/admin", middleware.Protected(gate, issuer, models.RoleAdmin))
	authHandler.RegisterUserRoutes(adminGroup)
	customerHandler.RegisterRoutes(adminGroup)
	txnHandler.RegisterRoutes(adminGroup)
	txnHandler.RegisterStatsRoute(adminGroup)
	voucherHandler.RegisterRoutes(adminGroup)

	// Kasir terminal: ephemeral session, scoped to the assigned toko.
	kasirGroup := apiV1.Group("/kasir", middleware.Protected(gate, issuer, models.RoleKasir))
	txnHandler.RegisterRoutes(kasirGroup)
	voucherHandler.RegisterRoutes(kasirGroup)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
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
