package handler

import (
	"errors"
	"net/http"

	"catalog-service/internal/model"
	"catalog-service/pkg/database"
	"catalog-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultShippingRequest defines the structure for store default shipping updates
type DefaultShippingRequest struct {
	DefaultShippingService              string  `json:"default_shipping_service"`
	DefaultShippingFeePerItem           float64 `json:"default_shipping_fee_per_item"`
	DefaultShippingFeeForAdditionalItem float64 `json:"default_shipping_fee_for_additional_item"`
	DefaultShippingFeePerKg             float64 `json:"default_shipping_fee_per_kg"`
	DefaultShippingFeeFixed             float64 `json:"default_shipping_fee_fixed"`
	DefaultDeliveryTimeMin              int     `json:"default_delivery_time_min"`
	DefaultDeliveryTimeMax              int     `json:"default_delivery_time_max"`
	ReturnPolicy                        string  `json:"return_policy"`
}

// ShippingRateRequest defines the structure for per-country rate upserts
type ShippingRateRequest struct {
	CountryID                    uint    `json:"country_id" validate:"required"`
	ShippingService              string  `json:"shipping_service"`
	ShippingFeePerItem           float64 `json:"shipping_fee_per_item"`
	ShippingFeeForAdditionalItem float64 `json:"shipping_fee_for_additional_item"`
	ShippingFeePerKg             float64 `json:"shipping_fee_per_kg"`
	ShippingFeeFixed             float64 `json:"shipping_fee_fixed"`
	DeliveryTimeMin              int     `json:"delivery_time_min"`
	DeliveryTimeMax              int     `json:"delivery_time_max"`
	ReturnPolicy                 string  `json:"return_policy"`
}

// CountryShippingRate pairs a country with the store's rate for it, null
// when the store has no override for that country
type CountryShippingRate struct {
	CountryID    uint                `json:"country_id"`
	CountryName  string              `json:"country_name"`
	ShippingRate *model.ShippingRate `json:"shipping_rate"`
}

// GetStoreDefaultShipping retrieves a store's default shipping configuration
func GetStoreDefaultShipping(c echo.Context) error {
	log := logger.FromContext(c)
	storeURL := c.Param("storeUrl")

	var store model.Store
	err := database.GetDB().Where("url = ?", storeURL).First(&store).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn("Store not found", zap.String("store_url", storeURL))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "store not found"})
	}
	if err != nil {
		log.Error("Failed to load store", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve store"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"default_shipping_service":                 store.DefaultShippingService,
		"default_shipping_fee_per_item":            store.DefaultShippingFeePerItem,
		"default_shipping_fee_for_additional_item": store.DefaultShippingFeeForAdditionalItem,
		"default_shipping_fee_per_kg":              store.DefaultShippingFeePerKg,
		"default_shipping_fee_fixed":               store.DefaultShippingFeeFixed,
		"default_delivery_time_min":                store.DefaultDeliveryTimeMin,
		"default_delivery_time_max":                store.DefaultDeliveryTimeMax,
		"return_policy":                            store.ReturnPolicy,
	})
}

// UpdateStoreDefaultShipping updates a store's default shipping
// configuration. The caller must own the store.
func UpdateStoreDefaultShipping(c echo.Context) error {
	log := logger.FromContext(c)
	storeURL := c.Param("storeUrl")
	log.Info("Updating store default shipping", zap.String("store_url", storeURL))

	var req DefaultShippingRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	store, err := storeOwnedBy(c, storeURL)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn("Store not found or not owned by caller", zap.String("store_url", storeURL))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "make sure you have permission to update this store"})
	}
	if err != nil {
		log.Error("Failed to resolve store", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve store"})
	}

	store.DefaultShippingService = req.DefaultShippingService
	store.DefaultShippingFeePerItem = req.DefaultShippingFeePerItem
	store.DefaultShippingFeeForAdditionalItem = req.DefaultShippingFeeForAdditionalItem
	store.DefaultShippingFeePerKg = req.DefaultShippingFeePerKg
	store.DefaultShippingFeeFixed = req.DefaultShippingFeeFixed
	store.DefaultDeliveryTimeMin = req.DefaultDeliveryTimeMin
	store.DefaultDeliveryTimeMax = req.DefaultDeliveryTimeMax
	store.ReturnPolicy = req.ReturnPolicy

	if err := database.GetDB().Save(store).Error; err != nil {
		log.Error("Failed to update store shipping defaults", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update store"})
	}

	log.Info("Store default shipping updated", zap.Uint("store_id", store.ID))
	return c.JSON(http.StatusOK, store)
}

// ListStoreShippingRates retrieves every country paired with the store's
// rate for it. Countries without an override carry a null rate.
func ListStoreShippingRates(c echo.Context) error {
	log := logger.FromContext(c)
	storeURL := c.Param("storeUrl")

	store, err := storeOwnedBy(c, storeURL)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn("Store not found or not owned by caller", zap.String("store_url", storeURL))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "make sure you have permission to update this store"})
	}
	if err != nil {
		log.Error("Failed to resolve store", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve store"})
	}

	db := database.GetDB()

	var countries []model.Country
	if err := db.Order("name ASC").Find(&countries).Error; err != nil {
		log.Error("Failed to list countries", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve countries"})
	}

	var rates []model.ShippingRate
	if err := db.Where("store_id = ?", store.ID).Find(&rates).Error; err != nil {
		log.Error("Failed to list shipping rates", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve shipping rates"})
	}

	rateByCountry := make(map[uint]*model.ShippingRate, len(rates))
	for i := range rates {
		rateByCountry[rates[i].CountryID] = &rates[i]
	}

	result := make([]CountryShippingRate, 0, len(countries))
	for _, country := range countries {
		result = append(result, CountryShippingRate{
			CountryID:    country.ID,
			CountryName:  country.Name,
			ShippingRate: rateByCountry[country.ID],
		})
	}

	log.Info("Store shipping rates retrieved",
		zap.Uint("store_id", store.ID),
		zap.Int("countries", len(countries)),
		zap.Int("overrides", len(rates)))
	return c.JSON(http.StatusOK, result)
}

// UpsertStoreShippingRate creates or updates the store's rate for one
// country. The rate is unique per (store, country).
func UpsertStoreShippingRate(c echo.Context) error {
	log := logger.FromContext(c)
	storeURL := c.Param("storeUrl")
	log.Info("Upserting shipping rate", zap.String("store_url", storeURL))

	var req ShippingRateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.CountryID == 0 {
		log.Warn("Missing country id in shipping rate")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "country_id is required"})
	}

	store, err := storeOwnedBy(c, storeURL)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn("Store not found or not owned by caller", zap.String("store_url", storeURL))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "make sure you have permission to update this store"})
	}
	if err != nil {
		log.Error("Failed to resolve store", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve store"})
	}

	db := database.GetDB()

	rate := model.ShippingRate{StoreID: store.ID, CountryID: req.CountryID}
	err = db.Where("store_id = ? AND country_id = ?", store.ID, req.CountryID).First(&rate).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("Failed to load shipping rate", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save shipping rate"})
	}

	rate.ShippingService = req.ShippingService
	rate.ShippingFeePerItem = req.ShippingFeePerItem
	rate.ShippingFeeForAdditionalItem = req.ShippingFeeForAdditionalItem
	rate.ShippingFeePerKg = req.ShippingFeePerKg
	rate.ShippingFeeFixed = req.ShippingFeeFixed
	rate.DeliveryTimeMin = req.DeliveryTimeMin
	rate.DeliveryTimeMax = req.DeliveryTimeMax
	rate.ReturnPolicy = req.ReturnPolicy

	if err := db.Save(&rate).Error; err != nil {
		log.Error("Failed to save shipping rate",
			zap.Uint("country_id", req.CountryID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save shipping rate"})
	}

	log.Info("Shipping rate saved",
		zap.Uint("store_id", store.ID),
		zap.Uint("country_id", rate.CountryID),
		zap.Uint("rate_id", rate.ID))
	return c.JSON(http.StatusOK, rate)
}
