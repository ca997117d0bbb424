package catalog

import (
	"errors"
	"math"
	"sync"
	"time"

	"catalog-service/internal/model"
	"catalog-service/internal/shipping"
	"catalog-service/pkg/database"

	"gorm.io/gorm"
)

// Viewer carries the request-scoped context of the person loading a product
// page: who they are (optional), where they ship to, and whether this page
// was already counted for them.
type Viewer struct {
	UserID        string
	Country       model.UserCountry
	AlreadyViewed bool
}

// VariantInfo summarizes one sibling variant for the variant switcher
type VariantInfo struct {
	VariantName  string               `json:"variant_name"`
	VariantSlug  string               `json:"variant_slug"`
	VariantImage string               `json:"variant_image"`
	VariantURL   string               `json:"variant_url"`
	Images       []model.ProductImage `json:"images"`
	Sizes        []model.Size         `json:"sizes"`
	Colors       []model.Color        `json:"colors"`
}

// ProductDetails is a product with the requested variant and its siblings
type ProductDetails struct {
	model.Product
	VariantsInfo []VariantInfo `json:"variants_info"`
}

// StoreSummary is the store block of a product page
type StoreSummary struct {
	ID              uint   `json:"id"`
	URL             string `json:"url"`
	Name            string `json:"name"`
	Logo            string `json:"logo"`
	FollowersCount  int64  `json:"followers_count"`
	IsUserFollowing bool   `json:"is_user_following"`
}

// RatingBucket is the share of reviews at one star level
type RatingBucket struct {
	Rating     int     `json:"rating"`
	NumReviews int64   `json:"num_reviews"`
	Percentage float64 `json:"percentage"`
}

// RatingStats aggregates review ratings for a product
type RatingStats struct {
	RatingStatistics       []RatingBucket `json:"rating_statistics"`
	ReviewsWithImagesCount int64          `json:"reviews_with_images_count"`
	TotalReviews           int64          `json:"total_reviews"`
}

// PageData is the full product page response
type PageData struct {
	ProductID          uint                    `json:"product_id"`
	VariantID          uint                    `json:"variant_id"`
	ProductSlug        string                  `json:"product_slug"`
	VariantSlug        string                  `json:"variant_slug"`
	Name               string                  `json:"name"`
	Description        string                  `json:"description"`
	VariantName        string                  `json:"variant_name"`
	VariantDescription string                  `json:"variant_description"`
	Images             []model.ProductImage    `json:"images"`
	Category           model.Category          `json:"category"`
	SubCategory        model.SubCategory       `json:"sub_category"`
	OfferTag           *model.OfferTag         `json:"offer_tag,omitempty"`
	IsSale             bool                    `json:"is_sale"`
	SaleEndDate        *time.Time              `json:"sale_end_date,omitempty"`
	Brand              string                  `json:"brand"`
	SKU                string                  `json:"sku"`
	Weight             float64                 `json:"weight"`
	VariantImage       string                  `json:"variant_image"`
	Store              StoreSummary            `json:"store"`
	Colors             []model.Color           `json:"colors"`
	Sizes              []model.Size            `json:"sizes"`
	ProductSpecs       []model.ProductSpec     `json:"product_specs"`
	VariantSpecs       []model.VariantSpec     `json:"variant_specs"`
	Questions          []model.ProductQuestion `json:"questions"`
	Rating             float64                 `json:"rating"`
	Reviews            []model.Review          `json:"reviews"`
	ReviewsStatistics  RatingStats             `json:"reviews_statistics"`
	ShippingDetails    *shipping.Details       `json:"shipping_details,omitempty"`
	VariantInfo        []VariantInfo           `json:"variant_info"`
}

// RetrieveProductDetails loads a product by slug with the slug-matched
// variant and a summary of all sibling variants. Returns nil when the
// product or the variant does not exist.
func RetrieveProductDetails(db *gorm.DB, productSlug, variantSlug string) (*ProductDetails, error) {
	var product model.Product
	err := db.
		Preload("Category").
		Preload("SubCategory").
		Preload("OfferTag").
		Preload("Store").
		Preload("Specs").
		Preload("Questions").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Limit(4)
		}).
		Preload("Reviews.Images").
		Preload("FreeShipping.EligibleCountries").
		Preload("Variants", "slug = ?", variantSlug).
		Preload("Variants.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Variants.Colors").
		Preload("Variants.Sizes").
		Preload("Variants.Specs").
		Where("slug = ?", productSlug).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, database.WrapError("fetch product details", err)
	}
	if len(product.Variants) == 0 {
		return nil, nil
	}

	var siblings []model.ProductVariant
	err = db.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Sizes").
		Preload("Colors").
		Where("product_id = ?", product.ID).
		Find(&siblings).Error
	if err != nil {
		return nil, database.WrapError("fetch sibling variants", err)
	}

	details := &ProductDetails{Product: product}
	for _, v := range siblings {
		details.VariantsInfo = append(details.VariantsInfo, VariantInfo{
			VariantName:  v.VariantName,
			VariantSlug:  v.Slug,
			VariantImage: v.VariantImage,
			VariantURL:   "/product/" + productSlug + "/" + v.Slug,
			Images:       v.Images,
			Sizes:        v.Sizes,
			Colors:       v.Colors,
		})
	}
	return details, nil
}

// RatingStatistics aggregates a product's reviews into per-star buckets
func RatingStatistics(db *gorm.DB, productID uint) (*RatingStats, error) {
	var rows []struct {
		Rating float64
		Count  int64
	}
	err := db.Model(&model.Review{}).
		Select("rating, COUNT(*) as count").
		Where("product_id = ?", productID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, database.WrapError("group reviews", err)
	}

	var total int64
	counts := make([]int64, 5)
	for _, row := range rows {
		total += row.Count
		star := int(math.Floor(row.Rating))
		if star >= 1 && star <= 5 {
			counts[star-1] += row.Count
		}
	}

	buckets := make([]RatingBucket, 5)
	for i, count := range counts {
		bucket := RatingBucket{Rating: i + 1, NumReviews: count}
		if total > 0 {
			bucket.Percentage = float64(count) / float64(total) * 100
		}
		buckets[i] = bucket
	}

	var withImages int64
	err = db.Model(&model.Review{}).
		Where("product_id = ? AND id IN (?)", productID,
			db.Table("review_images").Select("review_id")).
		Count(&withImages).Error
	if err != nil {
		return nil, database.WrapError("count reviews with images", err)
	}

	return &RatingStats{
		RatingStatistics:       buckets,
		ReviewsWithImagesCount: withImages,
		TotalReviews:           total,
	}, nil
}

// StoreFollowersCount returns how many users follow the store
func StoreFollowersCount(db *gorm.DB, storeID uint) (int64, error) {
	var count int64
	err := db.Model(&model.StoreFollower{}).Where("store_id = ?", storeID).Count(&count).Error
	if err != nil {
		return 0, database.WrapError("count store followers", err)
	}
	return count, nil
}

// IsUserFollowingStore reports whether the user follows the store
func IsUserFollowingStore(db *gorm.DB, storeID uint, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	var count int64
	err := db.Model(&model.StoreFollower{}).
		Where("store_id = ? AND user_id = ?", storeID, userID).
		Count(&count).Error
	if err != nil {
		return false, database.WrapError("check store follow", err)
	}
	return count > 0, nil
}

// IncrementProductViews bumps the product's view counter with an atomic
// datastore-side increment so concurrent viewers never lose updates
func IncrementProductViews(db *gorm.DB, productID uint) error {
	err := db.Model(&model.Product{}).
		Where("id = ?", productID).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	if err != nil {
		return database.WrapError("increment product views", err)
	}
	return nil
}

// ProductPageData assembles the full product page: product and variant
// detail, shipping summary for the viewer's country, store follower state
// and rating statistics. The independent aggregates are fetched
// concurrently. The view counter is bumped once per distinct viewer, gated
// by the viewer's already-viewed marker. Returns nil when the product or
// variant does not exist.
func ProductPageData(db *gorm.DB, productSlug, variantSlug string, viewer Viewer) (*PageData, error) {
	product, err := RetrieveProductDetails(db, productSlug, variantSlug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}

	var (
		wg              sync.WaitGroup
		shippingDetails *shipping.Details
		followersCount  int64
		isFollowing     bool
		stats           *RatingStats
		shippingErr     error
		followersErr    error
		followingErr    error
		statsErr        error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		shippingDetails, shippingErr = shipping.GetDetails(
			db.Session(&gorm.Session{NewDB: true}),
			product.ShippingFeeMethod, viewer.Country, &product.Store, product.FreeShipping)
	}()
	go func() {
		defer wg.Done()
		followersCount, followersErr = StoreFollowersCount(db.Session(&gorm.Session{NewDB: true}), product.StoreID)
	}()
	go func() {
		defer wg.Done()
		isFollowing, followingErr = IsUserFollowingStore(db.Session(&gorm.Session{NewDB: true}), product.StoreID, viewer.UserID)
	}()
	go func() {
		defer wg.Done()
		stats, statsErr = RatingStatistics(db.Session(&gorm.Session{NewDB: true}), product.ID)
	}()
	wg.Wait()

	// An unsupported destination degrades to "no shipping details" on the
	// page; anything else is a real failure
	if shippingErr != nil && !errors.Is(shippingErr, shipping.ErrCountryNotSupported) {
		return nil, shippingErr
	}
	for _, err := range []error{followersErr, followingErr, statsErr} {
		if err != nil {
			return nil, err
		}
	}

	if !viewer.AlreadyViewed {
		if err := IncrementProductViews(db, product.ID); err != nil {
			return nil, err
		}
	}

	variant := product.Variants[0]
	return &PageData{
		ProductID:          product.ID,
		VariantID:          variant.ID,
		ProductSlug:        product.Slug,
		VariantSlug:        variant.Slug,
		Name:               product.Name,
		Description:        product.Description,
		VariantName:        variant.VariantName,
		VariantDescription: variant.VariantDescription,
		Images:             variant.Images,
		Category:           product.Category,
		SubCategory:        product.SubCategory,
		OfferTag:           product.OfferTag,
		IsSale:             variant.IsSale,
		SaleEndDate:        variant.SaleEndDate,
		Brand:              product.Brand,
		SKU:                variant.SKU,
		Weight:             variant.Weight,
		VariantImage:       variant.VariantImage,
		Store: StoreSummary{
			ID:              product.Store.ID,
			URL:             product.Store.URL,
			Name:            product.Store.Name,
			Logo:            product.Store.Logo,
			FollowersCount:  followersCount,
			IsUserFollowing: isFollowing,
		},
		Colors:            variant.Colors,
		Sizes:             variant.Sizes,
		ProductSpecs:      product.Specs,
		VariantSpecs:      variant.Specs,
		Questions:         product.Questions,
		Rating:            product.Rating,
		Reviews:           product.Reviews,
		ReviewsStatistics: *stats,
		ShippingDetails:   shippingDetails,
		VariantInfo:       product.VariantsInfo,
	}, nil
}
