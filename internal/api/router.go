package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Tushar365/orderapp/internal/api/handlers"
	"github.com/Tushar365/orderapp/internal/api/middleware"
	"github.com/Tushar365/orderapp/internal/config"
	"github.com/Tushar365/orderapp/internal/drive"
	"github.com/Tushar365/orderapp/internal/repository"
	"github.com/Tushar365/orderapp/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(
	cfg *config.Config,
	repos *repository.Repositories,
	svc *service.OrderService,
	reconciler *service.SheetReconciler,
	uploader drive.Uploader,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Pharmacy Order API",
			"endpoints": []string{
				"GET /health",
				"POST /v1/orders",
				"POST /v1/orders/quick",
				"GET /v1/orders/:id",
				"POST /v1/prescriptions",
				"POST /v1/sync-sheet",
				"GET /v1/admin/orders",
				"POST /v1/admin/orders/:id/status",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Order submission (idempotent on Idempotency-Key)
		orderRoutes := v1.Group("")
		orderRoutes.Use(middleware.IdempotencyMiddleware(repos, logger))
		{
			orderRoutes.POST("/orders", handlers.HandleSubmitOrder(svc, repos, logger))
			orderRoutes.POST("/orders/quick", handlers.HandleQuickOrder(svc, repos, logger))
		}

		v1.GET("/orders/:id", handlers.HandleGetOrder(svc, logger))
		v1.POST("/prescriptions", handlers.HandleUploadPrescription(uploader, svc, logger))
		v1.POST("/sync-sheet", handlers.HandleSyncSheet(reconciler, cfg.SyncSecret, logger))

		// Admin routes (require the admin API key)
		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(middleware.AdminAuthMiddleware(cfg.API.AdminKeyHash, logger))
		{
			adminRoutes.GET("/orders", handlers.HandleListOrders(repos, logger))
			adminRoutes.POST("/orders/:id/status", handlers.HandleUpdateStatus(svc, logger))
		}
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
