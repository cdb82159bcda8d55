package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"paybridge/internal/handler"
	"paybridge/internal/middleware"
	"paybridge/internal/provider"
	"paybridge/internal/repository"
)

// Setup configures all routes for the Echo server.
func Setup(
	e *echo.Echo,
	db *gorm.DB,
	prov *provider.Provider,
	logger *zap.Logger,
	apiKey string,
	deduper middleware.NotificationDeduper,
) {
	// Global middleware
	e.Use(echomw.Recover())
	e.Use(middleware.CORS())

	orders := repository.NewOrderRepository(db)

	checkoutHandler := handler.NewCheckoutHandler(orders, prov, logger)
	webhookHandler := handler.NewWebhookHandler(orders, prov, logger)
	adminHandler := handler.NewAdminHandler(orders, prov, logger)

	// Checkout entry point
	e.POST("/checkout", checkoutHandler.Checkout)

	// Gateway webhook (deduplicated by PSP reference)
	paymentGroup := e.Group("/payment")
	paymentGroup.Use(middleware.WebhookDedup(deduper))
	paymentGroup.POST("/adyen/webhook", webhookHandler.HandleNotification)

	// Admin API with auth middleware
	apiGroup := e.Group("/api", middleware.APIAuth(apiKey))
	apiGroup.GET("/orders", adminHandler.ListOrders)
	apiGroup.GET("/orders/:id", adminHandler.GetOrder)
	apiGroup.POST("/orders/:id/capture", adminHandler.Capture)
	apiGroup.POST("/orders/:id/cancel", adminHandler.Cancel)
	apiGroup.POST("/orders/:id/refund", adminHandler.Refund)
	apiGroup.GET("/orders/:id/status", adminHandler.Status)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
}
