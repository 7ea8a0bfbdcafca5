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

	"github.com/Darkelvar/transaction-processor/internal/domain/usecase/ingestion"
	"github.com/Darkelvar/transaction-processor/internal/domain/usecase/report"
	transactionUseCase "github.com/Darkelvar/transaction-processor/internal/domain/usecase/transaction"

	"github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/api/handler"
	"github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/api/routes"
	"github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/auth"
	"github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/database"
	"github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/database/migration"
	"github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/logger"
	"github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/repository"
	"github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/task/inmemory"
	timeProvider "github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/time"
	"github.com/Darkelvar/transaction-processor/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)

	// Initialize time provider
	tp := timeProvider.NewRealTimeProvider()

	// Connect to the database
	dbConfig := cfg.Database.ToDatabaseConfig(cfg.Logger.Level)
	if err := dbConfig.Validate(); err != nil {
		appLogger.Error("Invalid database configuration", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	dbManager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer dbManager.Close()

	// Run migrations
	migrationMgr := migration.NewMigrationManager(dbManager.DB(), appLogger, tp)
	if err := migrationMgr.MigrateAll(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Initialize repositories
	transactionRepo := repository.NewTransactionRepository(dbManager.DB(), dbManager.GetErrorMapper(), appLogger)

	// Initialize use cases
	transactionService := transactionUseCase.NewService(transactionRepo, tp, appLogger)
	ingestionService := ingestion.NewService(transactionRepo, tp, appLogger)
	rateTable := report.NewRateTable(cfg.Exchange.Rates, cfg.Exchange.DefaultRate)
	reportService := report.NewService(transactionRepo, rateTable, appLogger)

	// Token service for the credential and bearer flows
	tokenService := auth.NewTokenService(auth.Config{
		Username:  cfg.Auth.Username,
		Password:  cfg.Auth.Password,
		SecretKey: cfg.Auth.SecretKey,
		TokenTTL:  time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute,
	}, tp)

	// Start the background ingestion workers
	taskStore := inmemory.NewStore()
	taskQueue := inmemory.NewQueue(cfg.Task.QueueSize, taskStore, ingestionService.ProcessBatch, tp, appLogger)
	queueCtx, queueCancel := context.WithCancel(context.Background())
	defer queueCancel()
	taskQueue.Start(queueCtx, cfg.Task.Workers)

	// Initialize API handlers
	authHandler := handler.NewAuthHandler(tokenService, appLogger)
	transactionHandler := handler.NewTransactionHandler(transactionService, taskQueue, appLogger)
	taskHandler := handler.NewTaskHandler(taskStore, appLogger)
	reportHandler := handler.NewReportHandler(reportService, appLogger)

	// Initialize Gin router
	router := gin.New()

	// Setup middlewares
	routes.SetupMiddlewares(router, appLogger)

	// Setup routes
	routes.SetupRoutes(router, tokenService, authHandler, transactionHandler, taskHandler, reportHandler, appLogger)

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	// Create a deadline to wait for
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Shutdown the server first so no new batches arrive
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	// Let in-flight ingestion batches finish
	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Task.StopTimeout)*time.Second)
	defer stopCancel()
	if err := taskQueue.Stop(stopCtx); err != nil {
		appLogger.Error("Task queue forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}
