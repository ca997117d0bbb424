package catalog

import (
	"errors"
	"math"

	"catalog-service/internal/model"
	"catalog-service/pkg/database"

	"gorm.io/gorm"
)

const defaultPageSize = 10

// ProductPage is the paginated result of a catalog query
type ProductPage struct {
	Products    []ProductCard      `json:"products"`
	TotalPages  int                `json:"total_pages"`
	CurrentPage int                `json:"current_page"`
	PageSize    int                `json:"page_size"`
	TotalCount  int64              `json:"total_count"`
	Filters     []FilterResolution `json:"filters,omitempty"`
}

// ProductIDPage is the result of a by-ids lookup
type ProductIDPage struct {
	Products   []ProductCard `json:"products"`
	TotalPages int           `json:"total_pages"`
}

// QueryProducts retrieves one page of product cards matching the filters.
// Unresolvable slug filters are dropped and reported on the result. Price
// ordering reorders the fetched page only: the sort key is derived from
// discounted size prices and is not a stored column.
func QueryProducts(db *gorm.DB, filters Filters, sortBy SortOrder, page, pageSize int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	skip := (page - 1) * pageSize

	predicate, resolutions, err := buildPredicate(db, filters)
	if err != nil {
		return nil, err
	}

	var totalCount int64
	if err := predicate.Session(&gorm.Session{}).Count(&totalCount).Error; err != nil {
		return nil, database.WrapError("count products", err)
	}

	var products []model.Product
	err = predicate.
		Preload("Variants.Sizes").
		Preload("Variants.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Variants.Colors").
		Limit(pageSize).
		Offset(skip).
		Find(&products).Error
	if err != nil {
		return nil, database.WrapError("fetch products", err)
	}

	sortByPrice(products, sortBy)

	cards := make([]ProductCard, 0, len(products))
	for _, p := range products {
		card, err := projectCard(p)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	return &ProductPage{
		Products:    cards,
		TotalPages:  int(math.Ceil(float64(totalCount) / float64(pageSize))),
		CurrentPage: page,
		PageSize:    pageSize,
		TotalCount:  totalCount,
		Filters:     resolutions,
	}, nil
}

// QueryProductsByIds retrieves product cards for the given variant ids,
// preserving the caller's id order. An empty id list is a caller error.
func QueryProductsByIds(db *gorm.DB, ids []uint, page, pageSize int) (*ProductIDPage, error) {
	if len(ids) == 0 {
		return nil, ErrNoIDs
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	skip := (page - 1) * pageSize

	var variants []model.ProductVariant
	err := db.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Sizes").
		Where("id IN ?", ids).
		Limit(pageSize).
		Offset(skip).
		Find(&variants).Error
	if err != nil {
		return nil, database.WrapError("fetch variants", err)
	}

	// One card per variant, keyed by variant id for reordering below
	cards := make(map[uint]ProductCard, len(variants))
	for _, v := range variants {
		var product model.Product
		if err := db.Select("id, slug, name, rating, sales").First(&product, v.ProductID).Error; err != nil {
			return nil, database.WrapError("fetch variant product", err)
		}
		cards[v.ID] = ProductCard{
			ID:     product.ID,
			Slug:   product.Slug,
			Name:   product.Name,
			Rating: product.Rating,
			Sales:  product.Sales,
			Variants: []VariantSummary{{
				VariantID:   v.ID,
				VariantSlug: v.Slug,
				VariantName: v.VariantName,
				Images:      v.Images,
				Sizes:       v.Sizes,
			}},
			VariantImages: []VariantImage{},
		}
	}

	// Return cards in the order the ids were provided; unknown ids are skipped
	ordered := make([]ProductCard, 0, len(cards))
	for _, id := range ids {
		if card, ok := cards[id]; ok {
			ordered = append(ordered, card)
		}
	}

	var totalCount int64
	if err := db.Model(&model.ProductVariant{}).Where("id IN ?", ids).Count(&totalCount).Error; err != nil {
		return nil, database.WrapError("count variants", err)
	}

	return &ProductIDPage{
		Products:   ordered,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(pageSize))),
	}, nil
}

// StoreProducts retrieves all products of a store with taxonomy and variant
// details, for the seller dashboard
func StoreProducts(db *gorm.DB, storeURL string) ([]model.Product, error) {
	var store model.Store
	err := db.Where("url = ?", storeURL).First(&store).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStoreNotFound
	}
	if err != nil {
		return nil, database.WrapError("resolve store", err)
	}

	var products []model.Product
	err = db.
		Preload("Category").
		Preload("SubCategory").
		Preload("OfferTag").
		Preload("Variants.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Variants.Colors").
		Preload("Variants.Sizes").
		Where("store_id = ?", store.ID).
		Find(&products).Error
	if err != nil {
		return nil, database.WrapError("fetch store products", err)
	}
	return products, nil
}

// MainInfo is the editable core of a product, without variant detail
type MainInfo struct {
	ProductID     uint                    `json:"product_id"`
	Name          string                  `json:"name"`
	Description   string                  `json:"description"`
	Brand         string                  `json:"brand"`
	CategoryID    uint                    `json:"category_id"`
	SubCategoryID uint                    `json:"sub_category_id"`
	OfferTagID    *uint                   `json:"offer_tag_id,omitempty"`
	StoreID       uint                    `json:"store_id"`
	Questions     []model.ProductQuestion `json:"questions"`
	Specs         []model.ProductSpec     `json:"specs"`
}

// ProductMainInfo returns the main information of a product, or nil when the
// product does not exist
func ProductMainInfo(db *gorm.DB, productID uint) (*MainInfo, error) {
	var product model.Product
	err := db.Preload("Questions").Preload("Specs").First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, database.WrapError("fetch product", err)
	}

	return &MainInfo{
		ProductID:     product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Brand:         product.Brand,
		CategoryID:    product.CategoryID,
		SubCategoryID: product.SubCategoryID,
		OfferTagID:    product.OfferTagID,
		StoreID:       product.StoreID,
		Questions:     product.Questions,
		Specs:         product.Specs,
	}, nil
}

// FeaturedProducts returns an unordered random sample of n product cards
func FeaturedProducts(db *gorm.DB, n int) ([]ProductCard, error) {
	if n < 1 {
		n = defaultPageSize
	}

	var products []model.Product
	err := db.
		Preload("Variants.Sizes").
		Preload("Variants.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Variants.Colors").
		Order("RANDOM()").
		Limit(n).
		Find(&products).Error
	if err != nil {
		return nil, database.WrapError("sample products", err)
	}

	cards := make([]ProductCard, 0, len(products))
	for _, p := range products {
		card, err := projectCard(p)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}
