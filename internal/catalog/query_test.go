package catalog

import (
	"testing"

	"catalog-service/internal/model"
	"catalog-service/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A fresh in-memory database exists per connection, so keep one
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

// fixture holds the shared taxonomy and store rows the product seeds hang off
type fixture struct {
	store       model.Store
	category    model.Category
	subCategory model.SubCategory
}

func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	f := fixture{
		store:    model.Store{Name: "Acme", URL: "acme", UserID: "user-1"},
		category: model.Category{Name: "Clothing", URL: "clothing"},
	}
	require.NoError(t, db.Create(&f.store).Error)
	require.NoError(t, db.Create(&f.category).Error)
	f.subCategory = model.SubCategory{CategoryID: f.category.ID, Name: "Shirts", URL: "shirts"}
	require.NoError(t, db.Create(&f.subCategory).Error)
	return f
}

// seedProduct creates a product with one variant carrying one size and one
// gallery image
func seedProduct(t *testing.T, db *gorm.DB, f fixture, slug string, price, discount float64) *model.Product {
	t.Helper()
	product := &model.Product{
		Slug:              slug,
		Name:              slug,
		CategoryID:        f.category.ID,
		SubCategoryID:     f.subCategory.ID,
		StoreID:           f.store.ID,
		ShippingFeeMethod: model.ShippingFeeItem,
		Variants: []model.ProductVariant{{
			Slug:        slug + "-default",
			VariantName: "Default",
			Images:      []model.ProductImage{{URL: "/img/" + slug + ".jpg", Order: 0}},
			Sizes:       []model.Size{{Size: "M", Price: price, Quantity: 10, Discount: discount}},
		}},
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestQueryProductsPagination(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	for _, slug := range []string{"p1", "p2", "p3", "p4", "p5"} {
		seedProduct(t, db, f, slug, 10, 0)
	}

	page, err := QueryProducts(db, Filters{}, "", 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	assert.Equal(t, int64(5), page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)

	// The last page holds the remainder
	page, err = QueryProducts(db, Filters{}, "", 3, 2)
	require.NoError(t, err)
	assert.Len(t, page.Products, 1)
	assert.Equal(t, 3, page.TotalPages)

	// Past the end is empty, not an error
	page, err = QueryProducts(db, Filters{}, "", 4, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Products)
}

func TestQueryProductsCategoryFilter(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	seedProduct(t, db, f, "shirt", 10, 0)

	other := model.Category{Name: "Shoes", URL: "shoes"}
	require.NoError(t, db.Create(&other).Error)
	otherSub := model.SubCategory{CategoryID: other.ID, Name: "Sneakers", URL: "sneakers"}
	require.NoError(t, db.Create(&otherSub).Error)
	g := fixture{store: f.store, category: other, subCategory: otherSub}
	seedProduct(t, db, g, "sneaker", 20, 0)

	page, err := QueryProducts(db, Filters{Category: "clothing"}, "", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "shirt", page.Products[0].Slug)
	require.Len(t, page.Filters, 1)
	assert.True(t, page.Filters[0].Applied)
}

func TestQueryProductsUnknownSlugDropped(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	seedProduct(t, db, f, "shirt", 10, 0)
	seedProduct(t, db, f, "pants", 20, 0)

	// An unresolvable category slug is dropped, not "match nothing"
	page, err := QueryProducts(db, Filters{Category: "no-such-category"}, "", 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)

	require.Len(t, page.Filters, 1)
	assert.False(t, page.Filters[0].Applied)
	assert.Equal(t, "category", page.Filters[0].Name)
	assert.NotEmpty(t, page.Filters[0].Reason)
}

func TestQueryProductsPriceBandUsesListedPrice(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	seedProduct(t, db, f, "cheap", 15, 0)
	seedProduct(t, db, f, "pricey", 25, 0)

	min, max := 10.0, 20.0
	page, err := QueryProducts(db, Filters{MinPrice: &min, MaxPrice: &max}, "", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "cheap", page.Products[0].Slug)
	assert.Equal(t, int64(1), page.TotalCount)
}

func TestQueryProductsSizeAndColorFilters(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)

	small := seedProduct(t, db, f, "small-shirt", 10, 0)
	require.NoError(t, db.Model(&model.Size{}).
		Where("variant_id = ?", small.Variants[0].ID).
		Update("size", "S").Error)
	require.NoError(t, db.Create(&model.Color{VariantID: small.Variants[0].ID, Name: "Red"}).Error)

	large := seedProduct(t, db, f, "large-shirt", 10, 0)
	require.NoError(t, db.Model(&model.Size{}).
		Where("variant_id = ?", large.Variants[0].ID).
		Update("size", "L").Error)
	require.NoError(t, db.Create(&model.Color{VariantID: large.Variants[0].ID, Name: "Blue"}).Error)

	page, err := QueryProducts(db, Filters{Sizes: []string{"S"}}, "", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "small-shirt", page.Products[0].Slug)

	// Values within one clause are OR-matched
	page, err = QueryProducts(db, Filters{Sizes: []string{"S", "L"}}, "", 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)

	// Clauses are AND-ed together
	page, err = QueryProducts(db, Filters{Sizes: []string{"S"}, Colors: []string{"Blue"}}, "", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Products)
}

func TestQueryProductsExcludesProductID(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	shirt := seedProduct(t, db, f, "shirt", 10, 0)
	seedProduct(t, db, f, "pants", 20, 0)

	page, err := QueryProducts(db, Filters{ProductID: shirt.ID}, "", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "pants", page.Products[0].Slug)
}

func TestQueryProductsSearch(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	seedProduct(t, db, f, "wool-sweater", 30, 0)
	seedProduct(t, db, f, "cotton-shirt", 10, 0)

	page, err := QueryProducts(db, Filters{Search: "sweater"}, "", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "wool-sweater", page.Products[0].Slug)
}

func TestQueryProductsSortByPrice(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	seedProduct(t, db, f, "mid", 50, 0)
	// Listed 100 but 80% off, so the effective price is the cheapest
	seedProduct(t, db, f, "discounted", 100, 80)
	seedProduct(t, db, f, "plain", 30, 0)

	page, err := QueryProducts(db, Filters{}, SortPriceLowToHigh, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Products, 3)
	assert.Equal(t, "discounted", page.Products[0].Slug)
	assert.Equal(t, "plain", page.Products[1].Slug)
	assert.Equal(t, "mid", page.Products[2].Slug)

	page, err = QueryProducts(db, Filters{}, SortPriceHighToLow, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Products, 3)
	assert.Equal(t, "mid", page.Products[0].Slug)
	assert.Equal(t, "discounted", page.Products[2].Slug)
}

func TestQueryProductsCardProjection(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	seedProduct(t, db, f, "shirt", 10, 0)

	page, err := QueryProducts(db, Filters{}, "", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)

	card := page.Products[0]
	require.Len(t, card.Variants, 1)
	require.Len(t, card.VariantImages, 1)
	// No explicit variant image, so the first gallery image represents it
	assert.Equal(t, "/img/shirt.jpg", card.VariantImages[0].Image)
	assert.Equal(t, "/product/shirt/shirt-default", card.VariantImages[0].URL)
}

func TestQueryProductsVariantWithoutImage(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	product := seedProduct(t, db, f, "shirt", 10, 0)
	require.NoError(t, db.Where("variant_id = ?", product.Variants[0].ID).Delete(&model.ProductImage{}).Error)

	_, err := QueryProducts(db, Filters{}, "", 1, 10)
	assert.ErrorIs(t, err, ErrVariantWithoutImage)
}

func TestQueryProductsByIdsOrder(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	p1 := seedProduct(t, db, f, "alpha", 10, 0)
	p2 := seedProduct(t, db, f, "beta", 20, 0)
	p3 := seedProduct(t, db, f, "gamma", 30, 0)

	ids := []uint{p3.Variants[0].ID, p1.Variants[0].ID, p2.Variants[0].ID}
	page, err := QueryProductsByIds(db, ids, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Products, 3)

	// Caller order wins, not datastore order
	assert.Equal(t, "gamma", page.Products[0].Slug)
	assert.Equal(t, "alpha", page.Products[1].Slug)
	assert.Equal(t, "beta", page.Products[2].Slug)
	assert.Equal(t, 1, page.TotalPages)
}

func TestQueryProductsByIdsSkipsUnknown(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	p1 := seedProduct(t, db, f, "alpha", 10, 0)

	page, err := QueryProductsByIds(db, []uint{9999, p1.Variants[0].ID}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "alpha", page.Products[0].Slug)
}

func TestQueryProductsByIdsEmpty(t *testing.T) {
	db := testDB(t)

	_, err := QueryProductsByIds(db, nil, 1, 10)
	assert.ErrorIs(t, err, ErrNoIDs)
}

func TestStoreProducts(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	seedProduct(t, db, f, "shirt", 10, 0)
	seedProduct(t, db, f, "pants", 20, 0)

	products, err := StoreProducts(db, "acme")
	require.NoError(t, err)
	assert.Len(t, products, 2)
	require.Len(t, products[0].Variants, 1)
	assert.NotEmpty(t, products[0].Variants[0].Sizes)

	_, err = StoreProducts(db, "no-such-store")
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestProductMainInfo(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	product := seedProduct(t, db, f, "shirt", 10, 0)
	require.NoError(t, db.Create(&model.ProductSpec{ProductID: product.ID, Name: "Material", Value: "Cotton"}).Error)

	info, err := ProductMainInfo(db, product.ID)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, product.ID, info.ProductID)
	assert.Equal(t, "shirt", info.Name)
	require.Len(t, info.Specs, 1)
	assert.Equal(t, "Material", info.Specs[0].Name)

	info, err = ProductMainInfo(db, product.ID+99)
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestFeaturedProducts(t *testing.T) {
	db := testDB(t)
	f := seedFixture(t, db)
	for _, slug := range []string{"p1", "p2", "p3", "p4"} {
		seedProduct(t, db, f, slug, 10, 0)
	}

	cards, err := FeaturedProducts(db, 3)
	require.NoError(t, err)
	assert.Len(t, cards, 3)

	// Asking for more than exist returns them all
	cards, err = FeaturedProducts(db, 10)
	require.NoError(t, err)
	assert.Len(t, cards, 4)
}
