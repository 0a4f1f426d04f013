package main

import (
	"log"
	"os"

	"github.com/AlvinAbiero/online-marketplace/config"
	"github.com/AlvinAbiero/online-marketplace/handlers"
	"github.com/AlvinAbiero/online-marketplace/internal/fanout"
	gql "github.com/AlvinAbiero/online-marketplace/internal/graphql"
	"github.com/AlvinAbiero/online-marketplace/internal/marketplace"
	"github.com/AlvinAbiero/online-marketplace/internal/payment"
	"github.com/AlvinAbiero/online-marketplace/internal/ws"
	"github.com/AlvinAbiero/online-marketplace/middleware"
	"github.com/AlvinAbiero/online-marketplace/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	cfg := config.LoadConfig()

	db, err := gorm.Open(mysql.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := config.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	if os.Getenv("SEED") == "true" {
		config.SeedUsers(db)
	}

	gateway, err := payment.NewPayPalGateway(cfg.PayPalClientID, cfg.PayPalSecret, cfg.PayPalMode)
	if err != nil {
		log.Fatal("Failed to configure payment gateway:", err)
	}

	bus := fanout.New()
	svc := marketplace.NewService(db, gateway, bus, cfg.ClientURL)

	hub := ws.NewHub()
	bus.RegisterSink(hub)
	go hub.Run()

	schema, err := gql.NewSchema(svc, bus)
	if err != nil {
		log.Fatal("Failed to build GraphQL schema:", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "Online Marketplace",
		ServerHeader: "Online Marketplace Server/1.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Default 500 statuscode
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"

			// Retrieve the custom statuscode if it's a *fiber.Error
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}

			return c.Status(code).JSON(models.ErrorResponse(msg, nil))
		},
	})

	middleware.SetupMiddleware(app)

	// Health Check Endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(models.SuccessResponse("API is healthy", nil))
	})

	// GraphQL queries and mutations
	app.Post("/graphql", middleware.Authenticate(db), gql.Handler(schema))

	// GraphQL subscriptions over websocket
	app.Get("/graphql/ws", gql.SubscriptionUpgrade, gql.SubscriptionHandler(schema, svc))

	// Realtime event channel
	socketHandler := handlers.NewSocketHandler(hub, svc)
	app.Get("/ws", socketHandler.UpgradeMiddleware, socketHandler.Handler())

	log.Printf("🚀 Server starting on host %s in port %s mode", cfg.HOST, cfg.AppPort)

	if err := app.Listen(cfg.HOST + ":" + cfg.AppPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
