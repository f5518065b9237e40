// Package router wires HTTP middleware and routes into a gin engine.
package router

import (
	"github.com/emart/backend/internal/infrastructure/auth"
	"github.com/emart/backend/internal/interfaces/http/handler"
	"github.com/emart/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	System    *handler.SystemHandler
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Inventory *handler.InventoryHandler
	Product   *handler.ProductHandler
	Category  *handler.CategoryHandler
	Supplier  *handler.SupplierHandler
	Invoice   *handler.InvoiceHandler
	Alert     *handler.AlertHandler
	Import    *handler.ImportHandler
	Report    *handler.ReportHandler
}

// Config holds everything needed to assemble the engine
type Config struct {
	Logger           *zap.Logger
	JWTService       *auth.JWTService
	TokenBlacklist   auth.TokenBlacklist
	AllowedOrigins   []string
	TelemetryEnabled bool
	ServiceName      string
	Handlers         Handlers
}

// authSkipPaths lists routes reachable without a token
var authSkipPaths = []string{
	"/health",
	"/ready",
	"/api/v1/auth/login",
	"/api/v1/auth/refresh",
}

// New assembles the gin engine with middleware and all API routes
func New(cfg Config) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(cfg.Logger))
	engine.Use(middleware.Recovery(cfg.Logger))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowedOrigins: cfg.AllowedOrigins,
	}))
	if cfg.TelemetryEnabled {
		engine.Use(otelgin.Middleware(cfg.ServiceName))
	}

	h := cfg.Handlers

	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService:     cfg.JWTService,
		TokenBlacklist: cfg.TokenBlacklist,
		SkipPaths:      authSkipPaths,
		Logger:         cfg.Logger,
	}))

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", h.Auth.Logout)
	}

	users := api.Group("/users")
	{
		users.POST("", h.User.Create)
		users.GET("", h.User.List)
		users.GET("/me", h.User.Me)
		users.PUT("/me/password", h.User.ChangePassword)
		users.GET("/:id", h.User.Get)
		users.DELETE("/:id", h.User.Deactivate)
	}

	inventory := api.Group("/inventory")
	{
		inventory.GET("", h.Inventory.List)
		inventory.POST("/transfer", h.Inventory.Transfer)
		inventory.POST("/adjust", h.Inventory.Adjust)
		inventory.GET("/:id", h.Inventory.Get)
		inventory.PUT("/:id", h.Inventory.Update)
	}
	api.GET("/stock-movements", h.Inventory.ListMovements)

	products := api.Group("/products")
	{
		products.POST("", h.Product.Create)
		products.GET("", h.Product.List)
		products.GET("/barcode/:barcode", h.Product.GetByBarcode)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Deactivate)
		products.POST("/:id/activate", h.Product.Activate)
	}

	categories := api.Group("/categories")
	{
		categories.POST("", h.Category.Create)
		categories.GET("", h.Category.List)
		categories.GET("/:id", h.Category.Get)
		categories.PUT("/:id", h.Category.Update)
		categories.DELETE("/:id", h.Category.Deactivate)
	}

	suppliers := api.Group("/suppliers")
	{
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("", h.Supplier.List)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", h.Supplier.Deactivate)
	}

	invoices := api.Group("/invoices")
	{
		invoices.POST("", h.Invoice.Create)
		invoices.GET("", h.Invoice.List)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.POST("/:id/payments", h.Invoice.RecordPayment)
	}

	alerts := api.Group("/alerts")
	{
		alerts.GET("", h.Alert.ListUnresolved)
		alerts.POST("/:id/read", h.Alert.MarkRead)
		alerts.POST("/:id/resolve", h.Alert.Resolve)
	}

	imports := api.Group("/imports")
	{
		imports.POST("", h.Import.Upload)
		imports.GET("", h.Import.List)
		imports.GET("/:id", h.Import.Get)
		imports.POST("/:id/approve", middleware.RequireReviewer(), h.Import.Approve)
		imports.POST("/:id/reject", middleware.RequireReviewer(), h.Import.Reject)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/dashboard", h.Report.Dashboard)
		reports.GET("/stock-distribution", h.Report.StockDistribution)
		reports.GET("/movement-summary", h.Report.MovementSummary)
	}

	return engine
}
