package shipping

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

func seedCountry(t *testing.T, db *gorm.DB, name, code string) *model.Country {
	t.Helper()
	country := &model.Country{Name: name, Code: code}
	require.NoError(t, db.Create(country).Error)
	return country
}

func seedStore(t *testing.T, db *gorm.DB) *model.Store {
	t.Helper()
	store := &model.Store{
		Name:                                "Test Store",
		URL:                                 "test-store",
		UserID:                              "user-1",
		ReturnPolicy:                        "30 days",
		DefaultShippingService:              "Standard",
		DefaultShippingFeePerItem:           5,
		DefaultShippingFeeForAdditionalItem: 2,
		DefaultShippingFeePerKg:             3,
		DefaultShippingFeeFixed:             8,
		DefaultDeliveryTimeMin:              7,
		DefaultDeliveryTimeMax:              31,
	}
	require.NoError(t, db.Create(store).Error)
	return store
}

func TestFeePerItem(t *testing.T) {
	db := testDB(t)
	seedCountry(t, db, "United States", "US")
	store := seedStore(t, db)
	dest := model.UserCountry{Name: "United States", Code: "US"}

	// First item 5, each additional item 2
	fee, err := Fee(db, model.ShippingFeeItem, dest, store, nil, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, 9.0, fee)

	// A single item pays no additional-item fee
	fee, err = Fee(db, model.ShippingFeeItem, dest, store, nil, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 5.0, fee)
}

func TestFeePerItemLinearInQuantity(t *testing.T) {
	db := testDB(t)
	seedCountry(t, db, "United States", "US")
	store := seedStore(t, db)
	dest := model.UserCountry{Name: "United States", Code: "US"}

	base, err := Fee(db, model.ShippingFeeItem, dest, store, nil, 0, 1)
	require.NoError(t, err)

	for qty := 2; qty <= 6; qty++ {
		fee, err := Fee(db, model.ShippingFeeItem, dest, store, nil, 0, qty)
		require.NoError(t, err)
		assert.Equal(t, base+2*float64(qty-1), fee, "quantity %d", qty)
	}
}

func TestFeePerWeight(t *testing.T) {
	db := testDB(t)
	seedCountry(t, db, "France", "FR")
	store := seedStore(t, db)
	dest := model.UserCountry{Name: "France", Code: "FR"}

	// 3 per kg, 2.5 kg each, 2 units
	fee, err := Fee(db, model.ShippingFeeWeight, dest, store, nil, 2.5, 2)
	require.NoError(t, err)
	assert.Equal(t, 15.0, fee)
}

func TestFeeFixed(t *testing.T) {
	db := testDB(t)
	seedCountry(t, db, "Japan", "JP")
	store := seedStore(t, db)
	dest := model.UserCountry{Name: "Japan", Code: "JP"}

	// Fixed fee does not scale with quantity
	for _, qty := range []int{1, 4, 9} {
		fee, err := Fee(db, model.ShippingFeeFixed, dest, store, nil, 1, qty)
		require.NoError(t, err)
		assert.Equal(t, 8.0, fee)
	}
}

func TestFeeUnknownMethodChargesNothing(t *testing.T) {
	db := testDB(t)
	seedCountry(t, db, "Japan", "JP")
	store := seedStore(t, db)

	fee, err := Fee(db, model.ShippingFeeMethod("PIGEON"), model.UserCountry{Name: "Japan", Code: "JP"}, store, nil, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, fee)
}

func TestFeeUnknownCountry(t *testing.T) {
	db := testDB(t)
	seedCountry(t, db, "United States", "US")
	store := seedStore(t, db)

	_, err := Fee(db, model.ShippingFeeItem, model.UserCountry{Name: "Atlantis", Code: "AT"}, store, nil, 0, 1)
	assert.ErrorIs(t, err, ErrCountryNotSupported)

	// The match is exact on both name and code
	_, err = Fee(db, model.ShippingFeeItem, model.UserCountry{Name: "United States", Code: "USA"}, store, nil, 0, 1)
	assert.ErrorIs(t, err, ErrCountryNotSupported)
}

func TestFeeFreeShippingShortCircuits(t *testing.T) {
	db := testDB(t)
	us := seedCountry(t, db, "United States", "US")
	fr := seedCountry(t, db, "France", "FR")
	store := seedStore(t, db)

	freeShipping := &model.FreeShipping{
		ProductID:         1,
		EligibleCountries: []model.FreeShippingCountry{{CountryID: us.ID}},
	}

	fee, err := Fee(db, model.ShippingFeeItem, model.UserCountry{Name: "United States", Code: "US"}, store, freeShipping, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, fee)

	// Eligibility is per country, not per product
	fee, err = Fee(db, model.ShippingFeeItem, model.UserCountry{Name: fr.Name, Code: fr.Code}, store, freeShipping, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, 13.0, fee)
}

func TestFeeDeterministic(t *testing.T) {
	db := testDB(t)
	seedCountry(t, db, "United States", "US")
	store := seedStore(t, db)
	dest := model.UserCountry{Name: "United States", Code: "US"}

	first, err := Fee(db, model.ShippingFeeWeight, dest, store, nil, 1.2, 3)
	require.NoError(t, err)
	second, err := Fee(db, model.ShippingFeeWeight, dest, store, nil, 1.2, 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveConfigDefaults(t *testing.T) {
	db := testDB(t)
	country := seedCountry(t, db, "United States", "US")
	store := seedStore(t, db)

	// No override row: every field comes from the store
	cfg, err := ResolveConfig(db, store, country.ID)
	require.NoError(t, err)
	assert.Equal(t, "Standard", cfg.ShippingService)
	assert.Equal(t, 5.0, cfg.FeePerItem)
	assert.Equal(t, 2.0, cfg.FeeForAdditionalItem)
	assert.Equal(t, 3.0, cfg.FeePerKg)
	assert.Equal(t, 8.0, cfg.FeeFixed)
	assert.Equal(t, 7, cfg.DeliveryTimeMin)
	assert.Equal(t, 31, cfg.DeliveryTimeMax)
	assert.Equal(t, "30 days", cfg.ReturnPolicy)
}

func TestResolveConfigPartialOverride(t *testing.T) {
	db := testDB(t)
	country := seedCountry(t, db, "France", "FR")
	store := seedStore(t, db)

	// Override only the per-item fee and the delivery window
	require.NoError(t, db.Create(&model.ShippingRate{
		StoreID:            store.ID,
		CountryID:          country.ID,
		ShippingFeePerItem: 12,
		DeliveryTimeMin:    3,
		DeliveryTimeMax:    10,
	}).Error)

	cfg, err := ResolveConfig(db, store, country.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.0, cfg.FeePerItem)
	assert.Equal(t, 3, cfg.DeliveryTimeMin)
	assert.Equal(t, 10, cfg.DeliveryTimeMax)

	// Unset fields keep the store defaults
	assert.Equal(t, "Standard", cfg.ShippingService)
	assert.Equal(t, 2.0, cfg.FeeForAdditionalItem)
	assert.Equal(t, 3.0, cfg.FeePerKg)
	assert.Equal(t, "30 days", cfg.ReturnPolicy)
}

func TestGetDetailsPerItem(t *testing.T) {
	db := testDB(t)
	seedCountry(t, db, "United States", "US")
	store := seedStore(t, db)

	details, err := GetDetails(db, model.ShippingFeeItem, model.UserCountry{Name: "United States", Code: "US", City: "Austin"}, store, nil)
	require.NoError(t, err)
	assert.Equal(t, model.ShippingFeeItem, details.ShippingFeeMethod)
	assert.Equal(t, "Standard", details.ShippingService)
	assert.Equal(t, 5.0, details.ShippingFee)
	assert.Equal(t, 2.0, details.ExtraShippingFee)
	assert.Equal(t, 7, details.DeliveryTimeMin)
	assert.Equal(t, 31, details.DeliveryTimeMax)
	assert.Equal(t, "United States", details.CountryName)
	assert.Equal(t, "Austin", details.City)
	assert.False(t, details.IsFreeShipping)
}

func TestGetDetailsFreeShipping(t *testing.T) {
	db := testDB(t)
	us := seedCountry(t, db, "United States", "US")
	store := seedStore(t, db)

	freeShipping := &model.FreeShipping{
		ProductID:         1,
		EligibleCountries: []model.FreeShippingCountry{{CountryID: us.ID}},
	}

	details, err := GetDetails(db, model.ShippingFeeItem, model.UserCountry{Name: "United States", Code: "US"}, store, freeShipping)
	require.NoError(t, err)
	assert.True(t, details.IsFreeShipping)
	assert.Equal(t, 0.0, details.ShippingFee)
	assert.Equal(t, 0.0, details.ExtraShippingFee)

	// Delivery window and service still come from the resolved config
	assert.Equal(t, "Standard", details.ShippingService)
	assert.Equal(t, 7, details.DeliveryTimeMin)
}

func TestGetDetailsUnknownCountry(t *testing.T) {
	db := testDB(t)
	store := seedStore(t, db)

	_, err := GetDetails(db, model.ShippingFeeItem, model.UserCountry{Name: "Atlantis", Code: "AT"}, store, nil)
	assert.ErrorIs(t, err, ErrCountryNotSupported)
}

func TestGetDeliveryDetails(t *testing.T) {
	db := testDB(t)
	country := seedCountry(t, db, "France", "FR")
	store := seedStore(t, db)

	require.NoError(t, db.Create(&model.ShippingRate{
		StoreID:         store.ID,
		CountryID:       country.ID,
		ShippingService: "Express",
		DeliveryTimeMin: 2,
		DeliveryTimeMax: 5,
	}).Error)

	details, err := GetDeliveryDetails(db, store.ID, country.ID)
	require.NoError(t, err)
	assert.Equal(t, "Express", details.ShippingService)
	assert.Equal(t, 2, details.DeliveryTimeMin)
	assert.Equal(t, 5, details.DeliveryTimeMax)

	_, err = GetDeliveryDetails(db, store.ID+99, country.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
