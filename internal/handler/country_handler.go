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

// CountrySeedRequest carries the reference country list for seeding
type CountrySeedRequest struct {
	Countries []struct {
		Name string `json:"name" validate:"required"`
		Code string `json:"code" validate:"required"`
	} `json:"countries"`
}

// ListCountries retrieves all countries ordered by name
func ListCountries(c echo.Context) error {
	log := logger.FromContext(c)

	var countries []model.Country
	if err := database.GetDB().Order("name ASC").Find(&countries).Error; err != nil {
		log.Error("Failed to list countries", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve countries"})
	}

	return c.JSON(http.StatusOK, countries)
}

// SeedCountries inserts the given countries, skipping names that already
// exist. Safe to re-run; existing rows are left untouched.
func SeedCountries(c echo.Context) error {
	log := logger.FromContext(c)

	var req CountrySeedRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if len(req.Countries) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "countries list is required"})
	}

	db := database.GetDB()
	created := 0
	skipped := 0

	for _, entry := range req.Countries {
		if entry.Name == "" || entry.Code == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "each country needs a name and a code"})
		}

		var existing model.Country
		err := db.Where("name = ?", entry.Name).First(&existing).Error
		if err == nil {
			skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("Failed to check country", zap.String("name", entry.Name), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to seed countries"})
		}

		country := model.Country{Name: entry.Name, Code: entry.Code}
		if err := db.Create(&country).Error; err != nil {
			log.Error("Failed to create country", zap.String("name", entry.Name), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to seed countries"})
		}
		created++
	}

	log.Info("Countries seeded", zap.Int("created", created), zap.Int("skipped", skipped))
	return c.JSON(http.StatusOK, echo.Map{"created": created, "skipped": skipped})
}
