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

// SubCategoryRequest defines the structure for subcategory creation/update requests
type SubCategoryRequest struct {
	ID         uint   `json:"id"`
	CategoryID uint   `json:"category_id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	URL        string `json:"url" validate:"required"`
	Image      string `json:"image"`
	Featured   bool   `json:"featured"`
}

// UpsertSubCategory handles creating or updating a subcategory
func UpsertSubCategory(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Upserting subcategory")

	var req SubCategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Name == "" || req.URL == "" || req.CategoryID == 0 {
		log.Warn("Incomplete subcategory data")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, url and category_id are required"})
	}

	db := database.GetDB()

	var existing model.SubCategory
	err := db.Where("(name = ? OR url = ?) AND id <> ?", req.Name, req.URL, req.ID).First(&existing).Error
	if err == nil {
		message := "A subcategory with the same URL already exists"
		if existing.Name == req.Name {
			message = "A subcategory with the same name already exists"
		}
		log.Warn("Subcategory conflict", zap.String("name", req.Name), zap.String("url", req.URL))
		return c.JSON(http.StatusConflict, echo.Map{"error": message})
	}

	subCategory := model.SubCategory{
		ID:         req.ID,
		CategoryID: req.CategoryID,
		Name:       req.Name,
		URL:        req.URL,
		Image:      req.Image,
		Featured:   req.Featured,
	}
	if err := db.Save(&subCategory).Error; err != nil {
		log.Error("Failed to upsert subcategory", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to save subcategory"})
	}

	prometheus.RecordCategoryOperation("upsert_subcategory")
	log.Info("Subcategory saved",
		zap.Uint("sub_category_id", subCategory.ID),
		zap.String("name", subCategory.Name))
	return c.JSON(http.StatusOK, subCategory)
}

// ListSubCategories retrieves all subcategories, most recently updated first
func ListSubCategories(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Listing subcategories")

	var subCategories []model.SubCategory
	result := database.GetDB().Order("updated_at DESC").Find(&subCategories)
	if result.Error != nil {
		log.Error("Failed to retrieve subcategories", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve subcategories"})
	}

	log.Info("Subcategories retrieved", zap.Int("count", len(subCategories)))
	return c.JSON(http.StatusOK, subCategories)
}

// GetSubCategory retrieves a specific subcategory by ID
func GetSubCategory(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid subcategory id"})
	}

	var subCategory model.SubCategory
	result := database.GetDB().First(&subCategory, id)
	if result.Error != nil {
		log.Warn("Subcategory not found", zap.Uint("sub_category_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Subcategory not found"})
	}

	return c.JSON(http.StatusOK, subCategory)
}

// DeleteSubCategory handles deleting a subcategory (soft delete)
func DeleteSubCategory(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid subcategory id"})
	}
	log.Info("Deleting subcategory", zap.Uint("sub_category_id", id))

	result := database.GetDB().Delete(&model.SubCategory{}, id)
	if result.Error != nil {
		log.Error("Failed to delete subcategory",
			zap.Uint("sub_category_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete subcategory"})
	}
	if result.RowsAffected == 0 {
		log.Warn("Subcategory not found for deletion", zap.Uint("sub_category_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Subcategory not found"})
	}

	prometheus.RecordCategoryOperation("delete_subcategory")
	log.Info("Subcategory deleted", zap.Uint("sub_category_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Subcategory deleted successfully"})
}
