package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/stationgate/api/audit"
	"github.com/stationgate/api/config"
	"github.com/stationgate/api/controller"
	"github.com/stationgate/api/db"
	logger "github.com/stationgate/api/logging"
	"github.com/stationgate/api/router"
	"github.com/stationgate/api/service"
	"github.com/stationgate/api/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize the relational store
	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.CloseDB()

	// Initialize Redis
	if err := db.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Initialize services and utilities
	validationUtil := util.NewValidationUtil()
	cacheService := util.NewCacheService()
	notificationService := util.NewNotificationService()
	auditRepository, err := audit.NewElasticsearchRepository(config.GetString("elasticsearch.url"))
	if err != nil {
		logger.Fatal("Failed to initialize audit repository", zap.Error(err))
	}
	auditService := audit.NewService(auditRepository)

	// Initialize services
	services, err := service.InitializeServices(
		db.DB,
		auditService,
		validationUtil,
		cacheService,
		notificationService,
		eventBus,
	)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	// Warm the caches before the first consumer asks
	if err := services.Directory.Load(ctx, false); err != nil {
		logger.Warn("Initial station directory load failed", zap.Error(err))
	}
	if err := services.Modules.Load(ctx, false); err != nil {
		logger.Warn("Initial module permission load failed", zap.Error(err))
	}

	// Mutations in other portal processes force-refresh this one
	db.SubscribeDirectoryChanged(ctx, func(entity string) {
		logger.Debug("Cross-process change signal", zap.String("entity", entity))
		switch entity {
		case "station":
			if err := services.Directory.Load(ctx, true); err != nil {
				logger.Warn("Cross-process directory refresh failed", zap.Error(err))
			}
		case "module_permission":
			if err := services.Modules.Load(ctx, true); err != nil {
				logger.Warn("Cross-process registry refresh failed", zap.Error(err))
			}
		}
	})

	// Initialize controllers and routes
	controllers := controller.InitializeControllers(services, auditService)
	engine := router.SetupRouter(controllers, 100, time.Minute) // 100 requests per minute

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engine,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
