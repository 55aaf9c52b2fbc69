package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mkbpilot/mkb-api/internal/config"
	"github.com/mkbpilot/mkb-api/internal/database"
	"github.com/mkbpilot/mkb-api/internal/handlers"
	"github.com/mkbpilot/mkb-api/internal/pdf"
	"github.com/mkbpilot/mkb-api/internal/realtime"
	"github.com/mkbpilot/mkb-api/internal/routes"
	"github.com/mkbpilot/mkb-api/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	defer logger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}
	if err := database.Seed(db); err != nil {
		logger.Fatal("database seed failed", zap.Error(err))
	}

	feed, err := realtime.NewFeed(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}

	push := services.NewPushService(context.Background(), db, cfg.FCMServiceAccount, logger)
	notifSvc := services.NewNotificationService(db, feed, push, logger)
	accessSvc := services.NewAccessService(db, notifSvc, logger)
	emailSvc := services.NewEmailService(db, services.NewSendGridSender(cfg.SendGridAPIKey), cfg, logger)
	images := services.NewImageStore(cfg, logger)
	generator := pdf.NewGenerator(logger)

	app := fiber.New()

	routes.Setup(app, routes.Handlers{
		Auth:          handlers.NewAuthHandler(db),
		Notifications: handlers.NewNotificationHandler(notifSvc),
		Poles:         handlers.NewPoleHandler(db, accessSvc),
		Users:         handlers.NewUserHandler(db, accessSvc),
		Contacts:      handlers.NewContactHandler(db),
		Vehicles:      handlers.NewVehicleHandler(db, images),
		Documents:     handlers.NewDocumentHandler(generator, emailSvc),
		WS:            handlers.NewWSHandler(feed, logger),
		Access:        accessSvc,
	})

	go handleShutdown(app, feed, logger)

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func handleShutdown(app *fiber.App, feed *realtime.Feed, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logger.Info("shutdown signal received", zap.String("signal", sig.String()))

	if err := app.Shutdown(); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	if err := feed.Close(); err != nil {
		logger.Error("feed close error", zap.Error(err))
	}
}
