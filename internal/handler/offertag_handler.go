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

// OfferTagRequest defines the structure for offer tag creation/update requests
type OfferTagRequest struct {
	ID   uint   `json:"id"`
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required"`
}

// UpsertOfferTag handles creating or updating an offer tag
func UpsertOfferTag(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Upserting offer tag")

	var req OfferTagRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Name == "" || req.URL == "" {
		log.Warn("Incomplete offer tag data")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and url are required"})
	}

	db := database.GetDB()

	var existing model.OfferTag
	err := db.Where("(name = ? OR url = ?) AND id <> ?", req.Name, req.URL, req.ID).First(&existing).Error
	if err == nil {
		message := "An offer tag with the same URL already exists"
		if existing.Name == req.Name {
			message = "An offer tag with the same name already exists"
		}
		log.Warn("Offer tag conflict", zap.String("name", req.Name), zap.String("url", req.URL))
		return c.JSON(http.StatusConflict, echo.Map{"error": message})
	}

	offerTag := model.OfferTag{ID: req.ID, Name: req.Name, URL: req.URL}
	if err := db.Save(&offerTag).Error; err != nil {
		log.Error("Failed to upsert offer tag", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to save offer tag"})
	}

	log.Info("Offer tag saved",
		zap.Uint("offer_tag_id", offerTag.ID),
		zap.String("name", offerTag.Name))
	return c.JSON(http.StatusOK, offerTag)
}

// ListOfferTags retrieves offer tags ordered by how many products carry
// them. An optional store parameter scopes the list to tags used by that
// store's products; an unknown store yields an empty list.
func ListOfferTags(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Listing offer tags")

	db := database.GetDB()

	query := db.Model(&model.OfferTag{}).
		Select("offer_tags.*, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.offer_tag_id = offer_tags.id").
		Group("offer_tags.id").
		Order("product_count DESC")

	if storeURL := c.QueryParam("store"); storeURL != "" {
		var store model.Store
		err := db.Select("id").Where("url = ?", storeURL).First(&store).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Unknown store for offer tag listing", zap.String("store_url", storeURL))
			return c.JSON(http.StatusOK, []model.OfferTag{})
		}
		if err != nil {
			log.Error("Failed to resolve store", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve offer tags"})
		}
		query = query.Where("products.store_id = ?", store.ID)
	}

	var offerTags []model.OfferTag
	if err := query.Find(&offerTags).Error; err != nil {
		log.Error("Failed to retrieve offer tags", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve offer tags"})
	}

	log.Info("Offer tags retrieved", zap.Int("count", len(offerTags)))
	return c.JSON(http.StatusOK, offerTags)
}

// GetOfferTag retrieves a specific offer tag by ID
func GetOfferTag(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid offer tag id"})
	}

	var offerTag model.OfferTag
	result := database.GetDB().First(&offerTag, id)
	if result.Error != nil {
		log.Warn("Offer tag not found", zap.Uint("offer_tag_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Offer tag not found"})
	}

	return c.JSON(http.StatusOK, offerTag)
}

// DeleteOfferTag handles deleting an offer tag (soft delete)
func DeleteOfferTag(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid offer tag id"})
	}
	log.Info("Deleting offer tag", zap.Uint("offer_tag_id", id))

	result := database.GetDB().Delete(&model.OfferTag{}, id)
	if result.Error != nil {
		log.Error("Failed to delete offer tag",
			zap.Uint("offer_tag_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete offer tag"})
	}
	if result.RowsAffected == 0 {
		log.Warn("Offer tag not found for deletion", zap.Uint("offer_tag_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Offer tag not found"})
	}

	log.Info("Offer tag deleted", zap.Uint("offer_tag_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Offer tag deleted successfully"})
}
