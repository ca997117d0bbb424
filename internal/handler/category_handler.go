package handler

import (
	"net/http"

	"catalog-service/internal/model"
	"catalog-service/pkg/database"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CategoryRequest defines the structure for category creation/update requests
type CategoryRequest struct {
	ID       uint   `json:"id"`
	Name     string `json:"name" validate:"required"`
	URL      string `json:"url" validate:"required"`
	Image    string `json:"image"`
	Featured bool   `json:"featured"`
}

// UpsertCategory handles creating or updating a category. Name and URL must
// stay unique across categories.
func UpsertCategory(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Upserting category")

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Name == "" || req.URL == "" {
		log.Warn("Incomplete category data")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and url are required"})
	}

	db := database.GetDB()

	// Reject a different category holding the same name or URL
	var existing model.Category
	err := db.Where("(name = ? OR url = ?) AND id <> ?", req.Name, req.URL, req.ID).First(&existing).Error
	if err == nil {
		message := "A category with the same URL already exists"
		if existing.Name == req.Name {
			message = "A category with the same name already exists"
		}
		log.Warn("Category conflict", zap.String("name", req.Name), zap.String("url", req.URL))
		return c.JSON(http.StatusConflict, echo.Map{"error": message})
	}

	category := model.Category{
		ID:       req.ID,
		Name:     req.Name,
		URL:      req.URL,
		Image:    req.Image,
		Featured: req.Featured,
	}
	if err := db.Save(&category).Error; err != nil {
		log.Error("Failed to upsert category", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to save category"})
	}

	prometheus.RecordCategoryOperation("upsert")
	log.Info("Category saved",
		zap.Uint("category_id", category.ID),
		zap.String("name", category.Name))
	return c.JSON(http.StatusOK, category)
}

// ListCategories retrieves all categories, most recently updated first
func ListCategories(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Listing categories")

	var categories []model.Category
	result := database.GetDB().Order("updated_at DESC").Find(&categories)
	if result.Error != nil {
		log.Error("Failed to retrieve categories", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve categories"})
	}

	log.Info("Categories retrieved", zap.Int("count", len(categories)))
	return c.JSON(http.StatusOK, categories)
}

// GetCategory retrieves a specific category by ID
func GetCategory(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	var category model.Category
	result := database.GetDB().First(&category, id)
	if result.Error != nil {
		log.Warn("Category not found", zap.Uint("category_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Category not found"})
	}

	return c.JSON(http.StatusOK, category)
}

// ListCategorySubCategories retrieves the subcategories of one category
func ListCategorySubCategories(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	var subCategories []model.SubCategory
	result := database.GetDB().
		Where("category_id = ?", id).
		Order("updated_at DESC").
		Find(&subCategories)
	if result.Error != nil {
		log.Error("Failed to retrieve subcategories",
			zap.Uint("category_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve subcategories"})
	}

	return c.JSON(http.StatusOK, subCategories)
}

// DeleteCategory handles deleting a category (soft delete)
func DeleteCategory(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}
	log.Info("Deleting category", zap.Uint("category_id", id))

	result := database.GetDB().Delete(&model.Category{}, id)
	if result.Error != nil {
		log.Error("Failed to delete category",
			zap.Uint("category_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete category"})
	}
	if result.RowsAffected == 0 {
		log.Warn("Category not found for deletion", zap.Uint("category_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Category not found"})
	}

	prometheus.RecordCategoryOperation("delete")
	log.Info("Category deleted", zap.Uint("category_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Category deleted successfully"})
}
