package model

import (
	"time"

	"gorm.io/gorm"
)

// Store represents a seller's store with its default shipping configuration.
// The defaults apply to every destination that has no per-country override.
type Store struct {
	ID           uint   `json:"id" gorm:"primarykey"`
	Name         string `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
	URL          string `json:"url" gorm:"type:varchar(255);uniqueIndex;not null"`
	Email        string `json:"email" gorm:"type:varchar(255);uniqueIndex"`
	Phone        string `json:"phone" gorm:"type:varchar(64);uniqueIndex"`
	Logo         string `json:"logo" gorm:"type:varchar(512)"`
	UserID       string `json:"user_id" gorm:"type:varchar(64);index;not null"`
	ReturnPolicy string `json:"return_policy" gorm:"type:text"`

	DefaultShippingService              string  `json:"default_shipping_service" gorm:"type:varchar(255)"`
	DefaultShippingFeePerItem           float64 `json:"default_shipping_fee_per_item" gorm:"default:0"`
	DefaultShippingFeeForAdditionalItem float64 `json:"default_shipping_fee_for_additional_item" gorm:"default:0"`
	DefaultShippingFeePerKg             float64 `json:"default_shipping_fee_per_kg" gorm:"default:0"`
	DefaultShippingFeeFixed             float64 `json:"default_shipping_fee_fixed" gorm:"default:0"`
	DefaultDeliveryTimeMin              int     `json:"default_delivery_time_min" gorm:"default:7"`
	DefaultDeliveryTimeMax              int     `json:"default_delivery_time_max" gorm:"default:31"`

	Followers []StoreFollower `json:"followers,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// ShippingRate overrides a store's default shipping configuration for one
// destination country. Unique per (store, country); absence means "use the
// store defaults".
type ShippingRate struct {
	ID        uint `json:"id" gorm:"primarykey"`
	StoreID   uint `json:"store_id" gorm:"uniqueIndex:idx_store_country;not null"`
	CountryID uint `json:"country_id" gorm:"uniqueIndex:idx_store_country;not null"`

	ShippingService              string  `json:"shipping_service" gorm:"type:varchar(255)"`
	ShippingFeePerItem           float64 `json:"shipping_fee_per_item" gorm:"default:0"`
	ShippingFeeForAdditionalItem float64 `json:"shipping_fee_for_additional_item" gorm:"default:0"`
	ShippingFeePerKg             float64 `json:"shipping_fee_per_kg" gorm:"default:0"`
	ShippingFeeFixed             float64 `json:"shipping_fee_fixed" gorm:"default:0"`
	DeliveryTimeMin              int     `json:"delivery_time_min" gorm:"default:0"`
	DeliveryTimeMax              int     `json:"delivery_time_max" gorm:"default:0"`
	ReturnPolicy                 string  `json:"return_policy" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FreeShipping is a product's free-shipping allowance, scoped to an explicit
// set of eligible countries. Eligibility is all-or-nothing per country.
type FreeShipping struct {
	ID                uint                  `json:"id" gorm:"primarykey"`
	ProductID         uint                  `json:"product_id" gorm:"uniqueIndex;not null"`
	EligibleCountries []FreeShippingCountry `json:"eligible_countries,omitempty"`
}

// FreeShippingCountry links a FreeShipping record to one eligible country
type FreeShippingCountry struct {
	ID             uint `json:"id" gorm:"primarykey"`
	FreeShippingID uint `json:"free_shipping_id" gorm:"uniqueIndex:idx_freeship_country;not null"`
	CountryID      uint `json:"country_id" gorm:"uniqueIndex:idx_freeship_country;not null"`
}

// StoreFollower links a user to a store they follow
type StoreFollower struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	StoreID   uint      `json:"store_id" gorm:"uniqueIndex:idx_store_follower;not null"`
	UserID    string    `json:"user_id" gorm:"type:varchar(64);uniqueIndex:idx_store_follower;not null"`
	CreatedAt time.Time `json:"created_at"`
}
