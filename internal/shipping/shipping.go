// Package shipping computes shipping fees and display details for a product
// shipped from a store to a destination country. Store defaults, per-country
// rate overrides and free-shipping eligibility all funnel through a single
// configuration resolution step.
package shipping

import (
	"errors"

	"catalog-service/internal/model"
	"catalog-service/pkg/database"

	"gorm.io/gorm"
)

// ErrCountryNotSupported is returned when the destination does not resolve
// to a known country. This is "shipping unavailable", distinct from a fee
// that is legitimately zero.
var ErrCountryNotSupported = errors.New("shipping not supported for country")

// Config is the effective shipping configuration of a (store, country) pair
// after applying any per-country override on top of the store defaults.
type Config struct {
	ShippingService      string  `json:"shipping_service"`
	FeePerItem           float64 `json:"fee_per_item"`
	FeeForAdditionalItem float64 `json:"fee_for_additional_item"`
	FeePerKg             float64 `json:"fee_per_kg"`
	FeeFixed             float64 `json:"fee_fixed"`
	DeliveryTimeMin      int     `json:"delivery_time_min"`
	DeliveryTimeMax      int     `json:"delivery_time_max"`
	ReturnPolicy         string  `json:"return_policy"`
}

// ResolveConfig computes the effective shipping configuration for a store
// and destination country. The fallback is field by field: an override row
// may set only some fields, and every unset field keeps the store default.
func ResolveConfig(db *gorm.DB, store *model.Store, countryID uint) (Config, error) {
	cfg := Config{
		ShippingService:      store.DefaultShippingService,
		FeePerItem:           store.DefaultShippingFeePerItem,
		FeeForAdditionalItem: store.DefaultShippingFeeForAdditionalItem,
		FeePerKg:             store.DefaultShippingFeePerKg,
		FeeFixed:             store.DefaultShippingFeeFixed,
		DeliveryTimeMin:      store.DefaultDeliveryTimeMin,
		DeliveryTimeMax:      store.DefaultDeliveryTimeMax,
		ReturnPolicy:         store.ReturnPolicy,
	}

	var rate model.ShippingRate
	err := db.Where("store_id = ? AND country_id = ?", store.ID, countryID).First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, database.WrapError("fetch shipping rate", err)
	}

	if rate.ShippingService != "" {
		cfg.ShippingService = rate.ShippingService
	}
	if rate.ShippingFeePerItem != 0 {
		cfg.FeePerItem = rate.ShippingFeePerItem
	}
	if rate.ShippingFeeForAdditionalItem != 0 {
		cfg.FeeForAdditionalItem = rate.ShippingFeeForAdditionalItem
	}
	if rate.ShippingFeePerKg != 0 {
		cfg.FeePerKg = rate.ShippingFeePerKg
	}
	if rate.ShippingFeeFixed != 0 {
		cfg.FeeFixed = rate.ShippingFeeFixed
	}
	if rate.DeliveryTimeMin != 0 {
		cfg.DeliveryTimeMin = rate.DeliveryTimeMin
	}
	if rate.DeliveryTimeMax != 0 {
		cfg.DeliveryTimeMax = rate.DeliveryTimeMax
	}
	if rate.ReturnPolicy != "" {
		cfg.ReturnPolicy = rate.ReturnPolicy
	}

	return cfg, nil
}

// resolveCountry looks up the destination by exact (name, code) match
func resolveCountry(db *gorm.DB, userCountry model.UserCountry) (*model.Country, error) {
	var country model.Country
	err := db.Where("name = ? AND code = ?", userCountry.Name, userCountry.Code).First(&country).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCountryNotSupported
	}
	if err != nil {
		return nil, database.WrapError("resolve country", err)
	}
	return &country, nil
}

// freeShippingEligible reports whether the destination country is in the
// product's free-shipping allow-list. Eligibility is all-or-nothing.
func freeShippingEligible(freeShipping *model.FreeShipping, countryID uint) bool {
	if freeShipping == nil {
		return false
	}
	for _, c := range freeShipping.EligibleCountries {
		if c.CountryID == countryID {
			return true
		}
	}
	return false
}

// Fee computes the total shipping fee for quantity units of weight kg each,
// shipped to the user's country. Free-shipping eligibility short-circuits to
// zero before any per-method calculation. An unknown fee method charges
// nothing; an unknown country is an error.
func Fee(db *gorm.DB, method model.ShippingFeeMethod, userCountry model.UserCountry, store *model.Store, freeShipping *model.FreeShipping, weight float64, quantity int) (float64, error) {
	country, err := resolveCountry(db, userCountry)
	if err != nil {
		return 0, err
	}

	if freeShippingEligible(freeShipping, country.ID) {
		return 0, nil
	}

	cfg, err := ResolveConfig(db, store, country.ID)
	if err != nil {
		return 0, err
	}

	switch method {
	case model.ShippingFeeItem:
		return cfg.FeePerItem + cfg.FeeForAdditionalItem*float64(quantity-1), nil
	case model.ShippingFeeWeight:
		return cfg.FeePerKg * weight * float64(quantity), nil
	case model.ShippingFeeFixed:
		return cfg.FeeFixed, nil
	}

	// Unrecognized methods charge no shipping rather than failing the quote
	return 0, nil
}

// Details is the display-oriented shipping summary for a product page
type Details struct {
	ShippingFeeMethod model.ShippingFeeMethod `json:"shipping_fee_method"`
	ShippingService   string                  `json:"shipping_service"`
	ShippingFee       float64                 `json:"shipping_fee"`
	ExtraShippingFee  float64                 `json:"extra_shipping_fee"`
	DeliveryTimeMin   int                     `json:"delivery_time_min"`
	DeliveryTimeMax   int                     `json:"delivery_time_max"`
	ReturnPolicy      string                  `json:"return_policy"`
	CountryName       string                  `json:"country_name"`
	CountryCode       string                  `json:"country_code"`
	City              string                  `json:"city,omitempty"`
	IsFreeShipping    bool                    `json:"is_free_shipping"`
}

// GetDetails computes the quantity-independent shipping summary shown on a
// product page. It shares the configuration resolution with Fee.
func GetDetails(db *gorm.DB, method model.ShippingFeeMethod, userCountry model.UserCountry, store *model.Store, freeShipping *model.FreeShipping) (*Details, error) {
	country, err := resolveCountry(db, userCountry)
	if err != nil {
		return nil, err
	}

	cfg, err := ResolveConfig(db, store, country.ID)
	if err != nil {
		return nil, err
	}

	details := &Details{
		ShippingFeeMethod: method,
		ShippingService:   cfg.ShippingService,
		DeliveryTimeMin:   cfg.DeliveryTimeMin,
		DeliveryTimeMax:   cfg.DeliveryTimeMax,
		ReturnPolicy:      cfg.ReturnPolicy,
		CountryName:       userCountry.Name,
		CountryCode:       userCountry.Code,
		City:              userCountry.City,
		IsFreeShipping:    freeShippingEligible(freeShipping, country.ID),
	}

	if details.IsFreeShipping {
		return details, nil
	}

	switch method {
	case model.ShippingFeeItem:
		details.ShippingFee = cfg.FeePerItem
		details.ExtraShippingFee = cfg.FeeForAdditionalItem
	case model.ShippingFeeWeight:
		details.ShippingFee = cfg.FeePerKg
	case model.ShippingFeeFixed:
		details.ShippingFee = cfg.FeeFixed
	}

	return details, nil
}

// DeliveryDetails is the delivery summary used on cart and checkout surfaces
type DeliveryDetails struct {
	ShippingService string `json:"shipping_service"`
	DeliveryTimeMin int    `json:"delivery_time_min"`
	DeliveryTimeMax int    `json:"delivery_time_max"`
}

// GetDeliveryDetails returns the delivery service and time bounds for a
// store and destination country
func GetDeliveryDetails(db *gorm.DB, storeID, countryID uint) (*DeliveryDetails, error) {
	var store model.Store
	if err := db.First(&store, storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, database.WrapError("fetch store", err)
	}

	cfg, err := ResolveConfig(db, &store, countryID)
	if err != nil {
		return nil, err
	}

	return &DeliveryDetails{
		ShippingService: cfg.ShippingService,
		DeliveryTimeMin: cfg.DeliveryTimeMin,
		DeliveryTimeMax: cfg.DeliveryTimeMax,
	}, nil
}
