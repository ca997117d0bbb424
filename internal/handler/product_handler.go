package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"catalog-service/internal/catalog"
	"catalog-service/internal/model"
	"catalog-service/pkg/database"
	"catalog-service/pkg/logger"
	"catalog-service/pkg/slugutil"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// parseUintParam parses a numeric path parameter
func parseUintParam(c echo.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

// SizeRequest is one price point of a variant
type SizeRequest struct {
	Size     string  `json:"size" validate:"required"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Quantity int     `json:"quantity"`
	Discount float64 `json:"discount" validate:"gte=0,lte=100"`
}

// ImageRequest is one gallery image of a variant
type ImageRequest struct {
	URL string `json:"url" validate:"required"`
}

// SpecRequest is one name/value specification entry
type SpecRequest struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value"`
}

// QuestionRequest is one curated Q&A entry
type QuestionRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer"`
}

// ProductRequest defines the structure for product+variant upsert requests
type ProductRequest struct {
	ProductID              uint                    `json:"product_id"`
	VariantID              uint                    `json:"variant_id"`
	Name                   string                  `json:"name" validate:"required"`
	Description            string                  `json:"description"`
	Brand                  string                  `json:"brand"`
	CategoryID             uint                    `json:"category_id" validate:"required"`
	SubCategoryID          uint                    `json:"sub_category_id" validate:"required"`
	OfferTagID             *uint                   `json:"offer_tag_id,omitempty"`
	ShippingFeeMethod      model.ShippingFeeMethod `json:"shipping_fee_method"`
	VariantName            string                  `json:"variant_name" validate:"required"`
	VariantDescription     string                  `json:"variant_description"`
	VariantImage           string                  `json:"variant_image"`
	SKU                    string                  `json:"sku"`
	Weight                 float64                 `json:"weight"`
	Keywords               []string                `json:"keywords"`
	IsSale                 bool                    `json:"is_sale"`
	SaleEndDate            *time.Time              `json:"sale_end_date,omitempty"`
	Images                 []ImageRequest          `json:"images" validate:"required,min=1"`
	Colors                 []string                `json:"colors"`
	Sizes                  []SizeRequest           `json:"sizes" validate:"required,min=1"`
	ProductSpecs           []SpecRequest           `json:"product_specs"`
	VariantSpecs           []SpecRequest           `json:"variant_specs"`
	Questions              []QuestionRequest       `json:"questions"`
	FreeShippingCountryIDs []uint                  `json:"free_shipping_country_ids"`
}

// storeOwnedBy resolves a store URL and checks the caller owns it
func storeOwnedBy(c echo.Context, storeURL string) (*model.Store, error) {
	userID, _ := c.Get("user_id").(string)
	var store model.Store
	err := database.GetDB().Where("url = ? AND user_id = ?", storeURL, userID).First(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// UpsertProduct handles creating a product with its first variant, or adding
// a new variant to an existing product
func UpsertProduct(c echo.Context) error {
	log := logger.FromContext(c)
	storeURL := c.Param("storeUrl")
	log.Info("Upserting product", zap.String("store_url", storeURL))

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Name == "" || req.VariantName == "" || len(req.Sizes) == 0 || len(req.Images) == 0 {
		log.Warn("Incomplete product data")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, variant name, sizes and images are required"})
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

	// Adding a variant to an existing product
	if req.ProductID != 0 {
		var product model.Product
		err := db.Where("id = ? AND store_id = ?", req.ProductID, store.ID).First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Product not found in store", zap.Uint("product_id", req.ProductID))
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
		}
		if err != nil {
			log.Error("Failed to load product", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load product"})
		}

		variant, err := buildVariant(db, &req)
		if err != nil {
			log.Error("Failed to build variant", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create variant"})
		}
		variant.ProductID = product.ID

		if err := db.Create(variant).Error; err != nil {
			log.Error("Failed to create variant", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create variant"})
		}

		prometheus.RecordProductOperation("create_variant")
		log.Info("Variant created",
			zap.Uint("product_id", product.ID),
			zap.Uint("variant_id", variant.ID),
			zap.String("variant_slug", variant.Slug))
		return c.JSON(http.StatusCreated, variant)
	}

	// Creating a new product with its first variant
	productSlug, err := slugutil.Unique(db, "products", req.Name)
	if err != nil {
		log.Error("Failed to generate product slug", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create product"})
	}

	variant, err := buildVariant(db, &req)
	if err != nil {
		log.Error("Failed to build variant", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create product"})
	}

	product := model.Product{
		Slug:              productSlug,
		Name:              req.Name,
		Description:       req.Description,
		Brand:             req.Brand,
		CategoryID:        req.CategoryID,
		SubCategoryID:     req.SubCategoryID,
		OfferTagID:        req.OfferTagID,
		StoreID:           store.ID,
		ShippingFeeMethod: req.ShippingFeeMethod,
		Variants:          []model.ProductVariant{*variant},
	}
	if product.ShippingFeeMethod == "" {
		product.ShippingFeeMethod = model.ShippingFeeItem
	}
	for _, spec := range req.ProductSpecs {
		product.Specs = append(product.Specs, model.ProductSpec{Name: spec.Name, Value: spec.Value})
	}
	for _, q := range req.Questions {
		product.Questions = append(product.Questions, model.ProductQuestion{Question: q.Question, Answer: q.Answer})
	}
	if len(req.FreeShippingCountryIDs) > 0 {
		freeShipping := &model.FreeShipping{}
		for _, countryID := range req.FreeShippingCountryIDs {
			freeShipping.EligibleCountries = append(freeShipping.EligibleCountries,
				model.FreeShippingCountry{CountryID: countryID})
		}
		product.FreeShipping = freeShipping
	}

	if err := db.Create(&product).Error; err != nil {
		log.Error("Failed to create product",
			zap.String("name", req.Name),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create product"})
	}

	prometheus.RecordProductOperation("create")
	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("slug", product.Slug),
		zap.String("name", product.Name))
	return c.JSON(http.StatusCreated, product)
}

// buildVariant assembles a variant with its nested records from the request
func buildVariant(db *gorm.DB, req *ProductRequest) (*model.ProductVariant, error) {
	variantSlug, err := slugutil.Unique(db, "product_variants", req.VariantName)
	if err != nil {
		return nil, err
	}

	variant := &model.ProductVariant{
		Slug:               variantSlug,
		VariantName:        req.VariantName,
		VariantDescription: req.VariantDescription,
		VariantImage:       req.VariantImage,
		SKU:                req.SKU,
		Weight:             req.Weight,
		Keywords:           strings.Join(req.Keywords, ","),
		IsSale:             req.IsSale,
		SaleEndDate:        req.SaleEndDate,
	}
	for i, img := range req.Images {
		variant.Images = append(variant.Images, model.ProductImage{URL: img.URL, Order: i})
	}
	for _, color := range req.Colors {
		variant.Colors = append(variant.Colors, model.Color{Name: color})
	}
	for _, size := range req.Sizes {
		variant.Sizes = append(variant.Sizes, model.Size{
			Size:     size.Size,
			Price:    size.Price,
			Quantity: size.Quantity,
			Discount: size.Discount,
		})
	}
	for _, spec := range req.VariantSpecs {
		variant.Specs = append(variant.Specs, model.VariantSpec{Name: spec.Name, Value: spec.Value})
	}
	return variant, nil
}

// ListStoreProducts handles the seller dashboard product listing
func ListStoreProducts(c echo.Context) error {
	log := logger.FromContext(c)
	storeURL := c.Param("storeUrl")
	log.Info("Listing store products", zap.String("store_url", storeURL))

	products, err := catalog.StoreProducts(database.GetDB(), storeURL)
	if errors.Is(err, catalog.ErrStoreNotFound) {
		log.Warn("Store not found", zap.String("store_url", storeURL))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "store not found"})
	}
	if err != nil {
		log.Error("Failed to list store products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve products"})
	}

	log.Info("Store products retrieved",
		zap.String("store_url", storeURL),
		zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// GetProductMainInfo handles retrieving the editable core of a product
func GetProductMainInfo(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	info, err := catalog.ProductMainInfo(database.GetDB(), id)
	if err != nil {
		log.Error("Failed to load product main info", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve product"})
	}
	if info == nil {
		log.Warn("Product not found", zap.Uint("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	return c.JSON(http.StatusOK, info)
}

// DeleteProduct handles deleting a product (soft delete)
func DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	log.Info("Deleting product", zap.Uint("product_id", id))

	result := database.GetDB().Delete(&model.Product{}, id)
	if result.Error != nil {
		log.Error("Failed to delete product",
			zap.Uint("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete product"})
	}
	if result.RowsAffected == 0 {
		log.Warn("Product not found for deletion", zap.Uint("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	prometheus.RecordProductOperation("delete")
	log.Info("Product deleted",
		zap.Uint("product_id", id),
		zap.Int64("rows_affected", result.RowsAffected))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}
