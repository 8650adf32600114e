package v1

import (
	"github.com/gin-gonic/gin"

	"autoparts/internal/domain/adjustment"
	"autoparts/internal/domain/auth"
	"autoparts/internal/domain/catalogs/brand"
	"autoparts/internal/domain/catalogs/client"
	"autoparts/internal/domain/catalogs/country"
	"autoparts/internal/domain/catalogs/currency"
	"autoparts/internal/domain/catalogs/warehouse"
	"autoparts/internal/domain/inventory"
	"autoparts/internal/domain/reports"
	"autoparts/internal/domain/sales"
	"autoparts/internal/infrastructure/http/v1/handlers"
	"autoparts/internal/infrastructure/http/v1/middleware"
	"autoparts/internal/infrastructure/metrics"
	"autoparts/pkg/logger"
)

// Services are the domain services the API exposes. The router does not
// care which store backs them.
type Services struct {
	Warehouses *warehouse.Service
	Countries  *country.Service
	Brands     *brand.Service
	Clients    *client.Service
	Currency   *currency.Service

	Products *inventory.ProductService
	Arrivals *inventory.ArrivalService
	Sales    *sales.SaleService
	Payments *sales.PaymentService

	Reports *reports.Service
	Journal *adjustment.Journal
}

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator checks staff tokens. Nil disables authentication and
	// every request acts as a local administrator.
	JWTValidator middleware.JWTValidator

	// Metrics, when set, instruments requests and serves /metrics
	Metrics *metrics.Metrics

	// DB is probed by /health/ready. Nil for the in-memory store.
	DB handlers.Pinger

	Version  string
	Services Services
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
	}
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := router.Group("/api/v1")
	if cfg.JWTValidator != nil {
		api.Use(middleware.Auth(cfg.JWTValidator))
	} else {
		api.Use(middleware.LocalAdmin())
	}

	base := handlers.NewBaseHandler()
	registerCatalogRoutes(api, base, cfg.Services)
	registerInventoryRoutes(api, base, cfg.Services)
	registerSalesRoutes(api, base, cfg.Services)
	registerReportRoutes(api, base, cfg.Services)

	return router
}

// registerCatalogRoutes registers reference data and currency endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, svc Services) {
	read, write := auth.PermCatalogRead, auth.PermCatalogWrite

	RegisterCatalogRoutes(rg.Group("/warehouses"), handlers.NewWarehouseHandler(base, svc.Warehouses), read, write)
	RegisterCatalogRoutes(rg.Group("/countries"), handlers.NewCountryHandler(base, svc.Countries), read, write)
	RegisterCatalogRoutes(rg.Group("/brands"), handlers.NewBrandHandler(base, svc.Brands), read, write)
	RegisterCatalogRoutes(rg.Group("/clients"), handlers.NewClientHandler(base, svc.Clients), read, write)

	// Selecting a display currency affects every user, so it shares the
	// rate write permission rather than the catalog one.
	currencyHandler := handlers.NewCurrencyHandler(base, svc.Currency)
	rates := rg.Group("/currency-rates")
	RegisterCatalogRoutes(rates, currencyHandler, read, auth.PermCurrencyWrite)
	rates.POST("/select", middleware.RequirePermission(auth.PermCurrencyWrite), currencyHandler.Select)
}

// registerInventoryRoutes registers product and arrival endpoints.
func registerInventoryRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, svc Services) {
	read := middleware.RequirePermission(auth.PermStockRead)
	write := middleware.RequirePermission(auth.PermStockWrite)

	productHandler := handlers.NewProductHandler(base, svc.Products)
	products := rg.Group("/products")
	{
		products.GET("", read, productHandler.List)
		products.GET("/:id", read, productHandler.Get)
		products.PATCH("/:id", write, productHandler.Update)
	}

	arrivalHandler := handlers.NewArrivalHandler(base, svc.Arrivals)
	arrivals := rg.Group("/arrivals")
	{
		arrivals.GET("", read, arrivalHandler.List)
		arrivals.POST("", write, arrivalHandler.Create)
		arrivals.GET("/:id", read, arrivalHandler.Get)
		arrivals.PUT("/:id", write, arrivalHandler.Update)
		arrivals.DELETE("/:id", write, arrivalHandler.Delete)
		arrivals.POST("/:id/lines", write, arrivalHandler.AddLine)
		arrivals.PUT("/:id/lines/:lineId", write, arrivalHandler.UpdateLine)
		arrivals.DELETE("/:id/lines/:lineId", write, arrivalHandler.DeleteLine)
	}
}

// registerSalesRoutes registers sale and payment endpoints.
func registerSalesRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, svc Services) {
	read := middleware.RequirePermission(auth.PermSalesRead)
	write := middleware.RequirePermission(auth.PermSalesWrite)

	saleHandler := handlers.NewSaleHandler(base, svc.Sales, svc.Currency)
	salesGroup := rg.Group("/sales")
	{
		salesGroup.GET("", read, saleHandler.List)
		salesGroup.POST("", write, saleHandler.Create)
		salesGroup.GET("/:id", read, saleHandler.Get)
		salesGroup.DELETE("/:id", write, saleHandler.Delete)
		salesGroup.PUT("/:id/client", write, saleHandler.ReassignClient)
		salesGroup.POST("/:id/items", write, saleHandler.AddItem)
		salesGroup.PUT("/:id/items/:itemId", write, saleHandler.UpdateItem)
		salesGroup.DELETE("/:id/items/:itemId", write, saleHandler.DeleteItem)
	}

	payWrite := middleware.RequirePermission(auth.PermPaymentsWrite)
	paymentHandler := handlers.NewPaymentHandler(base, svc.Payments)
	payments := rg.Group("/payments")
	{
		payments.GET("", read, paymentHandler.List)
		payments.POST("", payWrite, paymentHandler.Create)
		payments.GET("/:id", read, paymentHandler.Get)
		payments.PUT("/:id", payWrite, paymentHandler.Update)
		payments.DELETE("/:id", payWrite, paymentHandler.Delete)
	}
}

// registerReportRoutes registers analytics, export and audit endpoints.
func registerReportRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, svc Services) {
	read := middleware.RequirePermission(auth.PermReportsRead)

	reportHandler := handlers.NewReportsHandler(base, svc.Reports)
	reportsGroup := rg.Group("/reports")
	{
		reportsGroup.GET("/inventory", read, reportHandler.GetInventory)
		reportsGroup.GET("/unsold", read, reportHandler.GetUnsold)
		reportsGroup.GET("/sales", read, reportHandler.GetSales)
		reportsGroup.GET("/profit", read, reportHandler.GetProfit)
	}
	rg.GET("/sale-items/export", read, reportHandler.ExportSaleItems)

	adjustmentHandler := handlers.NewAdjustmentHandler(base, svc.Journal)
	rg.GET("/adjustments", middleware.RequirePermission(auth.PermAuditRead), adjustmentHandler.List)
}
