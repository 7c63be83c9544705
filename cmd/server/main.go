package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecofoods/ecofoods-backend/config"
	"github.com/ecofoods/ecofoods-backend/internal/app/controller"
	"github.com/ecofoods/ecofoods-backend/internal/app/repository"
	"github.com/ecofoods/ecofoods-backend/internal/app/service"
	"github.com/ecofoods/ecofoods-backend/internal/db"
	"github.com/ecofoods/ecofoods-backend/internal/events"
	"github.com/ecofoods/ecofoods-backend/internal/middleware"
	"github.com/ecofoods/ecofoods-backend/internal/router"
	"github.com/ecofoods/ecofoods-backend/internal/scheduler"
	"github.com/ecofoods/ecofoods-backend/internal/storage"
	"github.com/ecofoods/ecofoods-backend/internal/websocket"
	"github.com/ecofoods/ecofoods-backend/pkg/logger"
	"github.com/ecofoods/ecofoods-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Server.LogFormat,
		EnableColor: cfg.Server.LogFormat == "console",
	})

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", err)
	}

	logger.Info("Starting EcoFoods Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if err := db.SeedCategories(db.GetDB()); err != nil {
		logger.Warn("Failed to seed categories", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := redis.Init(&cfg.Redis); err != nil {
		// logout revocation degrades to a no-op
		logger.Warn("Redis unavailable, token revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer redis.Close()

	publisher := events.New(cfg.Kafka)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", err)
		}
	}()

	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	gormDB := db.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	imageRepo := repository.NewImageRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)
	deliveryRepo := repository.NewDeliveryRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)
	chatRepo := repository.NewChatRepository(gormDB)

	// Services
	authService := service.NewAuthService(gormDB, userRepo, imageRepo, cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	productService := service.NewProductService(gormDB, productRepo, imageRepo, userRepo)
	categoryService := service.NewCategoryService(gormDB, categoryRepo, productRepo, imageRepo)
	orderService := service.NewOrderService(gormDB, orderRepo, productRepo, userRepo, publisher)
	deliveryService := service.NewDeliveryService(deliveryRepo, orderRepo, publisher)
	reviewService := service.NewReviewService(gormDB, reviewRepo, productRepo, imageRepo)
	chatService := service.NewChatService(chatRepo, userRepo, hub)
	reminderService := service.NewReminderService(deliveryRepo, orderRepo, hub, publisher)
	hub.SetPeerResolver(chatService.ResolvePeer)

	// Controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService)
	categoryController := controller.NewCategoryController(categoryService)
	orderController := controller.NewOrderController(orderService)
	deliveryController := controller.NewDeliveryController(deliveryService)
	reviewController := controller.NewReviewController(reviewService)
	chatController := controller.NewChatController(chatService, hub, websocket.NewUpgrader(cfg.CORS.AllowedOrigins))
	uploadController := controller.NewUploadController(storage.NewS3Storage(cfg.S3))

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, userRepo)

	r := router.NewRouter(
		authController,
		productController,
		categoryController,
		orderController,
		deliveryController,
		reviewController,
		chatController,
		uploadController,
		authMiddleware,
		cfg,
	)

	reminders := scheduler.NewDeliveryReminderScheduler(
		reminderService,
		cfg.Scheduler.DeliveryReminderSpec,
		cfg.Scheduler.DeliveryReminderLead,
	)
	if err := reminders.Start(); err != nil {
		logger.Fatal("Failed to start delivery reminder scheduler", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	reminders.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
