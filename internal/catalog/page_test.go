package catalog

import (
	"testing"

	"catalog-service/internal/model"
	"catalog-service/internal/shipping"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedPageProduct builds a product with two variants and enough surrounding
// rows to exercise the full page assembly
func seedPageProduct(t *testing.T, db *gorm.DB, f fixture) *model.Product {
	t.Helper()
	product := &model.Product{
		Slug:              "jacket",
		Name:              "Jacket",
		Description:       "A jacket",
		Brand:             "Acme",
		CategoryID:        f.category.ID,
		SubCategoryID:     f.subCategory.ID,
		StoreID:           f.store.ID,
		Rating:            4.2,
		ShippingFeeMethod: model.ShippingFeeItem,
		Variants: []model.ProductVariant{
			{
				Slug:         "jacket-black",
				VariantName:  "Black",
				VariantImage: "/img/jacket-black.jpg",
				SKU:          "JKT-BLK",
				Weight:       1.5,
				Images:       []model.ProductImage{{URL: "/img/jacket-black-1.jpg", Order: 0}},
				Sizes:        []model.Size{{Size: "M", Price: 80, Quantity: 5}},
				Colors:       []model.Color{{Name: "Black"}},
			},
			{
				Slug:        "jacket-red",
				VariantName: "Red",
				Images:      []model.ProductImage{{URL: "/img/jacket-red-1.jpg", Order: 0}},
				Sizes:       []model.Size{{Size: "L", Price: 85, Quantity: 3}},
				Colors:      []model.Color{{Name: "Red"}},
			},
		},
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRetrieveProductDetails(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	seedPageProduct(t, db, f)

	details, err := RetrieveProductDetails(db, "jacket", "jacket-black")
	require.NoError(t, err)
	require.NotNil(t, details)

	// Only the requested variant is loaded on the product itself
	require.Len(t, details.Variants, 1)
	assert.Equal(t, "jacket-black", details.Variants[0].Slug)

	// All siblings appear in the switcher summary
	require.Len(t, details.VariantsInfo, 2)
	assert.Equal(t, "/product/jacket/jacket-black", details.VariantsInfo[0].VariantURL)
	assert.Equal(t, "/product/jacket/jacket-red", details.VariantsInfo[1].VariantURL)
}

func TestRetrieveProductDetailsMissing(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	seedPageProduct(t, db, f)

	details, err := RetrieveProductDetails(db, "no-such-product", "jacket-black")
	require.NoError(t, err)
	assert.Nil(t, details)

	details, err = RetrieveProductDetails(db, "jacket", "no-such-variant")
	require.NoError(t, err)
	assert.Nil(t, details)
}

func TestRatingStatistics(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	product := seedPageProduct(t, db, f)

	reviews := []model.Review{
		{ProductID: product.ID, UserID: "u1", Rating: 5},
		{ProductID: product.ID, UserID: "u2", Rating: 5},
		{ProductID: product.ID, UserID: "u3", Rating: 4.5, Images: []model.ReviewImage{{URL: "/img/r3.jpg"}}},
		{ProductID: product.ID, UserID: "u4", Rating: 2},
	}
	require.NoError(t, db.Create(&reviews).Error)

	stats, err := RatingStatistics(db, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalReviews)
	assert.Equal(t, int64(1), stats.ReviewsWithImagesCount)

	require.Len(t, stats.RatingStatistics, 5)
	// Fractional ratings land in the bucket below
	assert.Equal(t, int64(1), stats.RatingStatistics[3].NumReviews)
	assert.Equal(t, int64(2), stats.RatingStatistics[4].NumReviews)
	assert.Equal(t, int64(1), stats.RatingStatistics[1].NumReviews)
	assert.Equal(t, int64(0), stats.RatingStatistics[0].NumReviews)
	assert.InDelta(t, 50.0, stats.RatingStatistics[4].Percentage, 0.001)
}

func TestRatingStatisticsNoReviews(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	product := seedPageProduct(t, db, f)

	stats, err := RatingStatistics(db, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalReviews)
	require.Len(t, stats.RatingStatistics, 5)
	for _, bucket := range stats.RatingStatistics {
		assert.Equal(t, int64(0), bucket.NumReviews)
		assert.Equal(t, 0.0, bucket.Percentage)
	}
}

func TestStoreFollowers(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)

	require.NoError(t, db.Create(&model.StoreFollower{StoreID: f.store.ID, UserID: "u1"}).Error)
	require.NoError(t, db.Create(&model.StoreFollower{StoreID: f.store.ID, UserID: "u2"}).Error)

	count, err := StoreFollowersCount(db, f.store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	following, err := IsUserFollowingStore(db, f.store.ID, "u1")
	require.NoError(t, err)
	assert.True(t, following)

	following, err = IsUserFollowingStore(db, f.store.ID, "u3")
	require.NoError(t, err)
	assert.False(t, following)

	// Anonymous viewers never count as following
	following, err = IsUserFollowingStore(db, f.store.ID, "")
	require.NoError(t, err)
	assert.False(t, following)
}

func TestIncrementProductViews(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	product := seedPageProduct(t, db, f)

	require.NoError(t, IncrementProductViews(db, product.ID))
	require.NoError(t, IncrementProductViews(db, product.ID))

	var got model.Product
	require.NoError(t, db.First(&got, product.ID).Error)
	assert.Equal(t, int64(2), got.Views)
}

func TestProductPageData(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	product := seedPageProduct(t, db, f)

	require.NoError(t, db.Create(&model.Country{Name: "United States", Code: "US"}).Error)
	require.NoError(t, db.Create(&model.StoreFollower{StoreID: f.store.ID, UserID: "u1"}).Error)

	viewer := Viewer{
		UserID:  "u1",
		Country: model.UserCountry{Name: "United States", Code: "US"},
	}
	page, err := ProductPageData(db, "jacket", "jacket-black", viewer)
	require.NoError(t, err)
	require.NotNil(t, page)

	assert.Equal(t, product.ID, page.ProductID)
	assert.Equal(t, "jacket-black", page.VariantSlug)
	assert.Equal(t, "JKT-BLK", page.SKU)
	assert.Equal(t, "/img/jacket-black.jpg", page.VariantImage)
	assert.Len(t, page.VariantInfo, 2)

	assert.Equal(t, "acme", page.Store.URL)
	assert.Equal(t, int64(1), page.Store.FollowersCount)
	assert.True(t, page.Store.IsUserFollowing)

	require.NotNil(t, page.ShippingDetails)
	assert.Equal(t, model.ShippingFeeItem, page.ShippingDetails.ShippingFeeMethod)

	// A fresh viewer bumps the view counter
	var got model.Product
	require.NoError(t, db.First(&got, product.ID).Error)
	assert.Equal(t, int64(1), got.Views)
}

func TestProductPageDataViewGate(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	product := seedPageProduct(t, db, f)
	require.NoError(t, db.Create(&model.Country{Name: "United States", Code: "US"}).Error)

	viewer := Viewer{
		Country:       model.UserCountry{Name: "United States", Code: "US"},
		AlreadyViewed: true,
	}
	_, err := ProductPageData(db, "jacket", "jacket-black", viewer)
	require.NoError(t, err)

	var got model.Product
	require.NoError(t, db.First(&got, product.ID).Error)
	assert.Equal(t, int64(0), got.Views)
}

func TestProductPageDataUnsupportedCountry(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	seedPageProduct(t, db, f)

	// The page still renders; only the shipping block is absent
	viewer := Viewer{Country: model.UserCountry{Name: "Atlantis", Code: "AT"}}
	page, err := ProductPageData(db, "jacket", "jacket-black", viewer)
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Nil(t, page.ShippingDetails)
	assert.NotErrorIs(t, err, shipping.ErrCountryNotSupported)
}

func TestProductPageDataMissing(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	seedPageProduct(t, db, f)

	page, err := ProductPageData(db, "no-such-product", "jacket-black", Viewer{})
	require.NoError(t, err)
	assert.Nil(t, page)
}
