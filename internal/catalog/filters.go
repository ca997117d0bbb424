package catalog

import (
	"errors"
	"fmt"

	"catalog-service/internal/model"
	"catalog-service/pkg/database"

	"gorm.io/gorm"
)

// Filters holds the optional criteria of a catalog query. Zero values mean
// "not filtered". Sizes and Colors are OR-matched within their clause; all
// present filters are AND-ed together.
type Filters struct {
	Store       string   `json:"store,omitempty"`
	ProductID   uint     `json:"product_id,omitempty"` // excluded from results
	Category    string   `json:"category,omitempty"`
	SubCategory string   `json:"sub_category,omitempty"`
	Offer       string   `json:"offer,omitempty"`
	Search      string   `json:"search,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	MinPrice    *float64 `json:"min_price,omitempty"`
	MaxPrice    *float64 `json:"max_price,omitempty"`
}

// FilterResolution records what happened to one supplied filter. A slug that
// resolves to nothing is dropped, not treated as "match nothing"; dropped
// filters are reported here so callers and tests can assert on the policy
// instead of inferring it.
type FilterResolution struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

const reasonUnknownSlug = "unknown slug, filter dropped"

// buildPredicate translates the filters into a conjunctive GORM query rooted
// at the products table, resolving slug filters to ids first.
func buildPredicate(db *gorm.DB, f Filters) (*gorm.DB, []FilterResolution, error) {
	q := db.Model(&model.Product{})
	var resolutions []FilterResolution

	if f.Store != "" {
		var store model.Store
		err := db.Select("id").Where("url = ?", f.Store).First(&store).Error
		switch {
		case err == nil:
			q = q.Where("products.store_id = ?", store.ID)
			resolutions = append(resolutions, FilterResolution{Name: "store", Value: f.Store, Applied: true})
		case errors.Is(err, gorm.ErrRecordNotFound):
			resolutions = append(resolutions, FilterResolution{Name: "store", Value: f.Store, Reason: reasonUnknownSlug})
		default:
			return nil, nil, database.WrapError("resolve store filter", err)
		}
	}

	if f.ProductID != 0 {
		q = q.Where("products.id <> ?", f.ProductID)
		resolutions = append(resolutions, FilterResolution{Name: "product_id", Value: fmt.Sprint(f.ProductID), Applied: true})
	}

	if f.Category != "" {
		var category model.Category
		err := db.Select("id").Where("url = ?", f.Category).First(&category).Error
		switch {
		case err == nil:
			q = q.Where("products.category_id = ?", category.ID)
			resolutions = append(resolutions, FilterResolution{Name: "category", Value: f.Category, Applied: true})
		case errors.Is(err, gorm.ErrRecordNotFound):
			resolutions = append(resolutions, FilterResolution{Name: "category", Value: f.Category, Reason: reasonUnknownSlug})
		default:
			return nil, nil, database.WrapError("resolve category filter", err)
		}
	}

	if f.SubCategory != "" {
		var subCategory model.SubCategory
		err := db.Select("id").Where("url = ?", f.SubCategory).First(&subCategory).Error
		switch {
		case err == nil:
			q = q.Where("products.sub_category_id = ?", subCategory.ID)
			resolutions = append(resolutions, FilterResolution{Name: "sub_category", Value: f.SubCategory, Applied: true})
		case errors.Is(err, gorm.ErrRecordNotFound):
			resolutions = append(resolutions, FilterResolution{Name: "sub_category", Value: f.SubCategory, Reason: reasonUnknownSlug})
		default:
			return nil, nil, database.WrapError("resolve sub-category filter", err)
		}
	}

	if f.Offer != "" {
		var offer model.OfferTag
		err := db.Select("id").Where("url = ?", f.Offer).First(&offer).Error
		switch {
		case err == nil:
			q = q.Where("products.offer_tag_id = ?", offer.ID)
			resolutions = append(resolutions, FilterResolution{Name: "offer", Value: f.Offer, Applied: true})
		case errors.Is(err, gorm.ErrRecordNotFound):
			resolutions = append(resolutions, FilterResolution{Name: "offer", Value: f.Offer, Reason: reasonUnknownSlug})
		default:
			return nil, nil, database.WrapError("resolve offer filter", err)
		}
	}

	if len(f.Sizes) > 0 {
		sub := db.Table("sizes").
			Select("product_variants.product_id").
			Joins("JOIN product_variants ON product_variants.id = sizes.variant_id").
			Where("sizes.size IN ?", f.Sizes)
		q = q.Where("products.id IN (?)", sub)
		resolutions = append(resolutions, FilterResolution{Name: "size", Value: fmt.Sprint(f.Sizes), Applied: true})
	}

	if len(f.Colors) > 0 {
		sub := db.Table("colors").
			Select("product_variants.product_id").
			Joins("JOIN product_variants ON product_variants.id = colors.variant_id").
			Where("colors.name IN ?", f.Colors)
		q = q.Where("products.id IN (?)", sub)
		resolutions = append(resolutions, FilterResolution{Name: "color", Value: fmt.Sprint(f.Colors), Applied: true})
	}

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		variantSub := db.Table("product_variants").
			Select("product_variants.product_id").
			Where("product_variants.variant_name LIKE ? OR product_variants.variant_description LIKE ?", pattern, pattern)
		q = q.Where(
			db.Where("products.name LIKE ?", pattern).
				Or("products.description LIKE ?", pattern).
				Or("products.id IN (?)", variantSub),
		)
		resolutions = append(resolutions, FilterResolution{Name: "search", Value: f.Search, Applied: true})
	}

	if f.MinPrice != nil || f.MaxPrice != nil {
		sub := db.Table("sizes").
			Select("product_variants.product_id").
			Joins("JOIN product_variants ON product_variants.id = sizes.variant_id")
		if f.MinPrice != nil {
			sub = sub.Where("sizes.price >= ?", *f.MinPrice)
		}
		if f.MaxPrice != nil {
			sub = sub.Where("sizes.price <= ?", *f.MaxPrice)
		}
		q = q.Where("products.id IN (?)", sub)
		resolutions = append(resolutions, FilterResolution{Name: "price", Value: priceBand(f.MinPrice, f.MaxPrice), Applied: true})
	}

	return q, resolutions, nil
}

func priceBand(min, max *float64) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("%g-%g", *min, *max)
	case min != nil:
		return fmt.Sprintf(">=%g", *min)
	case max != nil:
		return fmt.Sprintf("<=%g", *max)
	}
	return ""
}
