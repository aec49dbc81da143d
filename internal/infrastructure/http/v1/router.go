// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockbook/internal/domain/auth"
	"stockbook/internal/infrastructure/http/v1/handlers"
	"stockbook/internal/infrastructure/http/v1/middleware"
	"stockbook/pkg/logger"
)

// RouterConfig holds everything the router needs. Handlers are built
// by the caller; the router only wires routes and middleware.
type RouterConfig struct {
	Logger       *logger.Logger
	JWTValidator middleware.JWTValidator

	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler

	Warehouses *handlers.WarehouseHandler
	Locations  *handlers.LocationHandler
	Items      *handlers.ItemHandler
	Categories *handlers.CategoryHandler

	Receipts  *handlers.ReceiptHandler
	Writeoffs *handlers.WriteoffHandler
	Movements *handlers.MovementHandler

	Stock *handlers.StockHandler
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Order matters: recovery outermost, errors rendered last.
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	health := router.Group("/health")
	{
		health.GET("/live", cfg.Health.Health)
		health.GET("/ready", cfg.Health.Ready)
	}

	api := router.Group("/api/v1")

	// Public auth endpoints.
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", cfg.Auth.Login)
		authGroup.POST("/refresh", cfg.Auth.Refresh)
	}

	// Everything else requires a valid token.
	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.JWTValidator))

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.POST("/register",
			middleware.RequireRole(auth.RoleAdmin), cfg.Auth.Register)
		protectedAuth.POST("/logout", cfg.Auth.Logout)
		protectedAuth.GET("/me", cfg.Auth.Me)
	}

	registerCatalogRoutes(protected, cfg)
	registerDocumentRoutes(protected, cfg)
	registerStockRoutes(protected, cfg)

	return router
}

// writers guards mutating catalog and document endpoints.
func writers() gin.HandlerFunc {
	return middleware.RequireRole(auth.RoleAdmin, auth.RoleManager)
}

func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	warehouses := rg.Group("/warehouses")
	{
		warehouses.GET("", cfg.Warehouses.List)
		warehouses.GET("/:id", cfg.Warehouses.Get)
		warehouses.GET("/:id/locations", cfg.Locations.ListByWarehouse)
		warehouses.POST("", writers(), cfg.Warehouses.Create)
		warehouses.PUT("/:id", writers(), cfg.Warehouses.Update)
		warehouses.DELETE("/:id", writers(), cfg.Warehouses.Delete)
		warehouses.POST("/:id/deletion-mark", writers(), cfg.Warehouses.SetDeletionMark)
	}

	locations := rg.Group("/locations")
	{
		locations.GET("", cfg.Locations.List)
		locations.GET("/:id", cfg.Locations.Get)
		locations.POST("", writers(), cfg.Locations.Create)
		locations.PUT("/:id", writers(), cfg.Locations.Update)
		locations.DELETE("/:id", writers(), cfg.Locations.Delete)
		locations.POST("/:id/deletion-mark", writers(), cfg.Locations.SetDeletionMark)
	}

	items := rg.Group("/items")
	{
		items.GET("", cfg.Items.List)
		items.GET("/barcode/:barcode", cfg.Items.GetByBarcode)
		items.GET("/:id", cfg.Items.Get)
		items.POST("", writers(), cfg.Items.Create)
		items.PUT("/:id", writers(), cfg.Items.Update)
		items.DELETE("/:id", writers(), cfg.Items.Delete)
		items.POST("/:id/deletion-mark", writers(), cfg.Items.SetDeletionMark)
	}

	categories := rg.Group("/categories")
	{
		categories.GET("", cfg.Categories.List)
		categories.GET("/children", cfg.Categories.GetChildren)
		categories.GET("/:id", cfg.Categories.Get)
		categories.POST("", writers(), cfg.Categories.Create)
		categories.PUT("/:id", writers(), cfg.Categories.Update)
		categories.DELETE("/:id", writers(), cfg.Categories.Delete)
		categories.POST("/:id/deletion-mark", writers(), cfg.Categories.SetDeletionMark)
	}
}

func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	receipts := rg.Group("/receipts")
	{
		receipts.GET("", cfg.Receipts.List)
		receipts.GET("/:id", cfg.Receipts.Get)
		receipts.POST("", writers(), cfg.Receipts.Create)
		receipts.PUT("/:id", writers(), cfg.Receipts.Update)
		receipts.DELETE("/:id", writers(), cfg.Receipts.Delete)
		receipts.POST("/:id/post", writers(), cfg.Receipts.Post)
		receipts.POST("/:id/cancel", writers(), cfg.Receipts.Cancel)
	}

	writeoffs := rg.Group("/writeoffs")
	{
		writeoffs.GET("", cfg.Writeoffs.List)
		writeoffs.GET("/:id", cfg.Writeoffs.Get)
		writeoffs.POST("", writers(), cfg.Writeoffs.Create)
		writeoffs.PUT("/:id", writers(), cfg.Writeoffs.Update)
		writeoffs.DELETE("/:id", writers(), cfg.Writeoffs.Delete)
		writeoffs.POST("/:id/post", writers(), cfg.Writeoffs.Post)
		writeoffs.POST("/:id/cancel", writers(), cfg.Writeoffs.Cancel)
	}

	movements := rg.Group("/movements")
	{
		movements.GET("", cfg.Movements.List)
		movements.GET("/:id", cfg.Movements.Get)
		movements.POST("", writers(), cfg.Movements.Create)
		movements.PUT("/:id", writers(), cfg.Movements.Update)
		movements.DELETE("/:id", writers(), cfg.Movements.Delete)
		movements.POST("/:id/post", writers(), cfg.Movements.Post)
		movements.POST("/:id/cancel", writers(), cfg.Movements.Cancel)
	}
}

func registerStockRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	stock := rg.Group("/stock")
	{
		stock.GET("/cell", cfg.Stock.GetCell)
		stock.GET("/warehouses/:id", cfg.Stock.GetWarehouseStock)
		stock.GET("/items/:id", cfg.Stock.GetItemStock)
		stock.GET("/history", cfg.Stock.GetHistory)
		stock.GET("/documents/:id/movements", cfg.Stock.GetDocumentMovements)
		stock.GET("/low", cfg.Stock.GetLowStock)
		stock.GET("/turnover", cfg.Stock.GetTurnover)
	}
}
