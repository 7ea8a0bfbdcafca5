package routes

import (
	coreport "github.com/Darkelvar/transaction-processor/internal/domain/port/core"
	"github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/api/handler"
	"github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/api/middleware"
	"github.com/Darkelvar/transaction-processor/internal/infrastructure/adapter/auth"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	tokens *auth.TokenService,
	authHandler *handler.AuthHandler,
	transactionHandler *handler.TransactionHandler,
	taskHandler *handler.TaskHandler,
	reportHandler *handler.ReportHandler,
	logger coreport.Logger,
) {
	// POST /auth/token
	router.POST("/auth/token", authHandler.Token)

	requireBearer := middleware.RequireBearer(tokens, logger)

	transactionRoutes := router.Group("/transactions", requireBearer)
	{
		// POST /transactions/upload
		transactionRoutes.POST("/upload", transactionHandler.Upload)

		// POST /transactions/
		transactionRoutes.POST("/", transactionHandler.Create)

		// GET /transactions/
		transactionRoutes.GET("/", transactionHandler.List)

		// GET /transactions/:id
		transactionRoutes.GET("/:id", transactionHandler.GetByID)
	}

	taskRoutes := router.Group("/tasks", requireBearer)
	{
		// GET /tasks/:task_id
		taskRoutes.GET("/:task_id", taskHandler.GetStatus)
	}

	reportRoutes := router.Group("/reports", requireBearer)
	{
		// GET /reports/customer-summary/:customer_id
		reportRoutes.GET("/customer-summary/:customer_id", reportHandler.CustomerSummary)

		// GET /reports/product-summary/:product_id
		reportRoutes.GET("/product-summary/:product_id", reportHandler.ProductSummary)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	// Apply middlewares in the correct order
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
}
