package handler

import (
	"errors"
	"net/http"

	"catalog-service/internal/model"
	"catalog-service/internal/shipping"
	"catalog-service/pkg/database"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ShippingFeeRequest defines the structure for shipping fee quote requests
type ShippingFeeRequest struct {
	ProductID   uint               `json:"product_id" validate:"required"`
	VariantID   uint               `json:"variant_id" validate:"required"`
	Quantity    int                `json:"quantity" validate:"required,gte=1"`
	UserCountry *model.UserCountry `json:"country,omitempty"`
}

// QuoteShippingFee handles shipping fee quotes for a product variant and
// quantity. An unknown destination blocks the quote with a clear message
// rather than quoting zero.
func QuoteShippingFee(c echo.Context) error {
	log := logger.FromContext(c)

	var req ShippingFeeRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.ProductID == 0 || req.VariantID == 0 {
		log.Warn("Missing product or variant id in fee quote")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id and variant_id are required"})
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	db := database.GetDB()

	var product model.Product
	err := db.
		Preload("Store").
		Preload("FreeShipping.EligibleCountries").
		First(&product, req.ProductID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn("Product not found for fee quote", zap.Uint("product_id", req.ProductID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}
	if err != nil {
		log.Error("Failed to load product for fee quote", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute shipping fee"})
	}

	var variant model.ProductVariant
	err = db.Where("id = ? AND product_id = ?", req.VariantID, product.ID).First(&variant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn("Variant not found for fee quote", zap.Uint("variant_id", req.VariantID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "variant not found"})
	}
	if err != nil {
		log.Error("Failed to load variant for fee quote", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute shipping fee"})
	}

	country := userCountryFromCookie(c)
	if req.UserCountry != nil {
		country = *req.UserCountry
	}

	fee, err := shipping.Fee(db, product.ShippingFeeMethod, country, &product.Store,
		product.FreeShipping, variant.Weight, req.Quantity)
	if errors.Is(err, shipping.ErrCountryNotSupported) {
		log.Warn("Shipping unavailable for destination",
			zap.String("country_name", country.Name),
			zap.String("country_code", country.Code))
		prometheus.RecordShippingQuote(string(product.ShippingFeeMethod), "unsupported_country")
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "shipping unavailable to this destination",
		})
	}
	if err != nil {
		log.Error("Failed to compute shipping fee", zap.Error(err))
		prometheus.RecordShippingQuote(string(product.ShippingFeeMethod), "error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute shipping fee"})
	}

	prometheus.RecordShippingQuote(string(product.ShippingFeeMethod), "ok")
	log.Info("Shipping fee quoted",
		zap.Uint("product_id", product.ID),
		zap.Uint("variant_id", variant.ID),
		zap.Int("quantity", req.Quantity),
		zap.Float64("fee", fee))
	return c.JSON(http.StatusOK, echo.Map{
		"shipping_fee_method": product.ShippingFeeMethod,
		"fee":                 fee,
		"quantity":            req.Quantity,
	})
}

// GetDeliveryDetails handles the delivery summary for a store and country,
// used by cart and checkout surfaces
func GetDeliveryDetails(c echo.Context) error {
	log := logger.FromContext(c)

	storeID, err := parseUintParam(c, "storeId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid store id"})
	}
	countryID, err := parseUintParam(c, "countryId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid country id"})
	}

	details, err := shipping.GetDeliveryDetails(database.GetDB(), storeID, countryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "store not found"})
	}
	if err != nil {
		log.Error("Failed to resolve delivery details", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve delivery details"})
	}

	return c.JSON(http.StatusOK, details)
}
