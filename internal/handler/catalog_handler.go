package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"catalog-service/internal/catalog"
	"catalog-service/internal/model"
	"catalog-service/pkg/config"
	"catalog-service/pkg/database"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var appCfg *config.Config

// Initialize stores the application configuration for the handlers
func Initialize(cfg *config.Config) {
	appCfg = cfg
}

// userCountryFromCookie parses the visitor's country cookie, falling back to
// the configured default country when the cookie is absent or malformed
func userCountryFromCookie(c echo.Context) model.UserCountry {
	fallback := model.UserCountry{
		Name: appCfg.Store.DefaultCountryName,
		Code: appCfg.Store.DefaultCountryCode,
	}

	cookie, err := c.Cookie("userCountry")
	if err != nil {
		return fallback
	}

	var country model.UserCountry
	if err := json.Unmarshal([]byte(cookie.Value), &country); err != nil {
		return fallback
	}
	if country.Name == "" || country.Code == "" {
		return fallback
	}
	return country
}

// ListProducts handles the storefront catalog listing with filters, sorting
// and pagination. Query failures degrade to an empty product list with an
// error indicator instead of failing the page.
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Listing catalog products")

	filters := catalog.Filters{
		Store:       c.QueryParam("store"),
		Category:    c.QueryParam("category"),
		SubCategory: c.QueryParam("subCategory"),
		Offer:       c.QueryParam("offer"),
		Search:      c.QueryParam("search"),
	}
	if sizes := c.QueryParams()["size"]; len(sizes) > 0 {
		filters.Sizes = sizes
	}
	if colors := c.QueryParams()["color"]; len(colors) > 0 {
		filters.Colors = colors
	}
	if v := c.QueryParam("productId"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			filters.ProductID = uint(id)
		}
	}
	if v := c.QueryParam("minPrice"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			filters.MinPrice = &price
		}
	}
	if v := c.QueryParam("maxPrice"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			filters.MaxPrice = &price
		}
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))
	if pageSize < 1 {
		pageSize = appCfg.Store.PageSize
	}
	sortBy := catalog.SortOrder(c.QueryParam("sortBy"))

	result, err := catalog.QueryProducts(database.GetDB(), filters, sortBy, page, pageSize)
	if err != nil {
		log.Error("Catalog query failed", zap.Error(err))
		prometheus.RecordCatalogQuery("error")
		// Degrade to an empty listing with an explicit error indicator
		return c.JSON(http.StatusOK, echo.Map{
			"products":     []catalog.ProductCard{},
			"total_pages":  0,
			"current_page": page,
			"page_size":    pageSize,
			"total_count":  0,
			"error":        "failed to retrieve products",
		})
	}

	prometheus.RecordCatalogQuery("ok")
	log.Info("Catalog products retrieved",
		zap.Int("count", len(result.Products)),
		zap.Int64("total_count", result.TotalCount),
		zap.Int("page", result.CurrentPage))
	return c.JSON(http.StatusOK, result)
}

// ProductsByIds handles card lookups for an explicit list of variant ids
func ProductsByIds(c echo.Context) error {
	log := logger.FromContext(c)

	var ids []uint
	for _, raw := range strings.Split(c.QueryParam("ids"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			log.Warn("Invalid id in ids parameter", zap.String("value", raw))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id: " + raw})
		}
		ids = append(ids, uint(id))
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))

	result, err := catalog.QueryProductsByIds(database.GetDB(), ids, page, pageSize)
	if errors.Is(err, catalog.ErrNoIDs) {
		log.Warn("Products-by-ids called without ids")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide ids"})
	}
	if err != nil {
		log.Error("Products-by-ids query failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve products"})
	}

	log.Info("Products retrieved by ids", zap.Int("count", len(result.Products)))
	return c.JSON(http.StatusOK, result)
}

// FeaturedProducts handles the random product sample for the home page
func FeaturedProducts(c echo.Context) error {
	log := logger.FromContext(c)

	n, _ := strconv.Atoi(c.QueryParam("count"))
	cards, err := catalog.FeaturedProducts(database.GetDB(), n)
	if err != nil {
		log.Error("Featured products sample failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve products"})
	}

	log.Info("Featured products sampled", zap.Int("count", len(cards)))
	return c.JSON(http.StatusOK, cards)
}

// GetProductPage handles the full product page for a product/variant slug
// pair. Each page view increments the product's view counter once per
// distinct viewer, gated by a per-product cookie.
func GetProductPage(c echo.Context) error {
	log := logger.FromContext(c)
	productSlug := c.Param("productSlug")
	variantSlug := c.Param("variantSlug")
	log.Info("Loading product page",
		zap.String("product_slug", productSlug),
		zap.String("variant_slug", variantSlug))

	userID, _ := c.Get("user_id").(string)

	viewer := catalog.Viewer{
		UserID:  userID,
		Country: userCountryFromCookie(c),
	}

	viewedCookieName := "viewedProduct_" + productSlug
	if _, err := c.Cookie(viewedCookieName); err == nil {
		viewer.AlreadyViewed = true
	}

	page, err := catalog.ProductPageData(database.GetDB(), productSlug, variantSlug, viewer)
	if err != nil {
		log.Error("Failed to load product page",
			zap.String("product_slug", productSlug),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load product"})
	}
	if page == nil {
		log.Warn("Product or variant not found",
			zap.String("product_slug", productSlug),
			zap.String("variant_slug", variantSlug))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	if !viewer.AlreadyViewed {
		c.SetCookie(&http.Cookie{
			Name:    viewedCookieName,
			Value:   "1",
			Path:    "/",
			Expires: time.Now().Add(24 * time.Hour),
		})
		prometheus.RecordProductView(fmt.Sprint(page.ProductID))
	}

	log.Info("Product page loaded",
		zap.Uint("product_id", page.ProductID),
		zap.Uint("variant_id", page.VariantID))
	return c.JSON(http.StatusOK, page)
}
