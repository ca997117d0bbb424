package main

import (
	"net/http"

	"catalog-service/internal/handler"
	mid "catalog-service/internal/middleware"
	"catalog-service/internal/model"
	"catalog-service/pkg/config"
	"catalog-service/pkg/database"
	"catalog-service/pkg/jwtutil"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Just log a warning, don't fail if .env file is not found
		// This allows the service to run in environments where env vars are set differently
		// such as production environments with proper environment configuration
		// The fallback values will be used in case env vars are not set
	}

	// Load configuration
	appConfig, err := config.Load("catalog-service")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting catalog-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Handler defaults (destination fallback, page size)
	handler.Initialize(appConfig)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Routes
	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public storefront routes - no auth, destination comes from the
	// userCountry cookie
	storefront := e.Group("/api/storefront")
	storefront.GET("/products", handler.ListProducts)
	storefront.GET("/products/by-ids", handler.ProductsByIds)
	storefront.GET("/products/featured", handler.FeaturedProducts)
	storefront.GET("/products/main-info/:id", handler.GetProductMainInfo)
	storefront.GET("/products/:productSlug/:variantSlug", handler.GetProductPage)
	storefront.POST("/shipping/fee", handler.QuoteShippingFee)
	storefront.GET("/shipping/delivery/:storeId/:countryId", handler.GetDeliveryDetails)
	storefront.GET("/stores/:storeUrl/products", handler.ListStoreProducts)
	storefront.GET("/stores/:storeUrl/shipping", handler.GetStoreDefaultShipping)
	storefront.GET("/categories", handler.ListCategories)
	storefront.GET("/categories/:id/subcategories", handler.ListCategorySubCategories)
	storefront.GET("/offer-tags", handler.ListOfferTags)
	storefront.GET("/countries", handler.ListCountries)

	// Seller routes - JWT auth plus SELLER role, ownership checked per store
	sellerAPI := e.Group("/api/seller", mid.AuthMiddleware, mid.RequireRole(model.RoleSeller))
	sellerAPI.POST("/stores/:storeUrl/products", handler.UpsertProduct)
	sellerAPI.DELETE("/products/:id", handler.DeleteProduct)
	sellerAPI.PUT("/stores/:storeUrl/shipping", handler.UpdateStoreDefaultShipping)
	sellerAPI.GET("/stores/:storeUrl/shipping/rates", handler.ListStoreShippingRates)
	sellerAPI.POST("/stores/:storeUrl/shipping/rates", handler.UpsertStoreShippingRate)

	// Admin routes - JWT auth plus ADMIN role
	adminAPI := e.Group("/api/admin", mid.AuthMiddleware, mid.RequireRole(model.RoleAdmin))
	adminAPI.POST("/categories", handler.UpsertCategory)
	adminAPI.GET("/categories/:id", handler.GetCategory)
	adminAPI.DELETE("/categories/:id", handler.DeleteCategory)
	adminAPI.POST("/subcategories", handler.UpsertSubCategory)
	adminAPI.GET("/subcategories", handler.ListSubCategories)
	adminAPI.GET("/subcategories/:id", handler.GetSubCategory)
	adminAPI.DELETE("/subcategories/:id", handler.DeleteSubCategory)
	adminAPI.POST("/offer-tags", handler.UpsertOfferTag)
	adminAPI.GET("/offer-tags/:id", handler.GetOfferTag)
	adminAPI.DELETE("/offer-tags/:id", handler.DeleteOfferTag)
	adminAPI.POST("/countries/seed", handler.SeedCountries)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
