package model

import (
	"time"

	"gorm.io/gorm"
)

// ShippingFeeMethod selects which formula computes a product's shipping cost
type ShippingFeeMethod string

const (
	ShippingFeeItem   ShippingFeeMethod = "ITEM"
	ShippingFeeWeight ShippingFeeMethod = "WEIGHT"
	ShippingFeeFixed  ShippingFeeMethod = "FIXED"
)

// Known reports whether the method is one of the supported fee formulas.
// Unknown methods are not an error: they charge no shipping.
func (m ShippingFeeMethod) Known() bool {
	switch m {
	case ShippingFeeItem, ShippingFeeWeight, ShippingFeeFixed:
		return true
	}
	return false
}

// Product represents a sellable product owned by a store
type Product struct {
	ID                uint              `json:"id" gorm:"primarykey"`
	Slug              string            `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name              string            `json:"name" gorm:"type:varchar(255);not null"`
	Description       string            `json:"description" gorm:"type:text"`
	Brand             string            `json:"brand" gorm:"type:varchar(255)"`
	CategoryID        uint              `json:"category_id" gorm:"index;not null"`
	SubCategoryID     uint              `json:"sub_category_id" gorm:"index;not null"`
	OfferTagID        *uint             `json:"offer_tag_id,omitempty" gorm:"index"`
	StoreID           uint              `json:"store_id" gorm:"index;not null"`
	Rating            float64           `json:"rating" gorm:"default:0"`
	Sales             int64             `json:"sales" gorm:"default:0"`
	Views             int64             `json:"views" gorm:"default:0"`
	ShippingFeeMethod ShippingFeeMethod `json:"shipping_fee_method" gorm:"type:varchar(16);default:'ITEM'"`

	Category     Category          `json:"category,omitempty"`
	SubCategory  SubCategory       `json:"sub_category,omitempty"`
	OfferTag     *OfferTag         `json:"offer_tag,omitempty"`
	Store        Store             `json:"store,omitempty"`
	Variants     []ProductVariant  `json:"variants,omitempty"`
	Specs        []ProductSpec     `json:"specs,omitempty"`
	Questions    []ProductQuestion `json:"questions,omitempty"`
	Reviews      []Review          `json:"reviews,omitempty"`
	FreeShipping *FreeShipping     `json:"free_shipping,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// ProductVariant is a distinct sellable configuration of a product.
// A variant always belongs to exactly one product.
type ProductVariant struct {
	ID                 uint       `json:"id" gorm:"primarykey"`
	ProductID          uint       `json:"product_id" gorm:"index;not null"`
	Slug               string     `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	VariantName        string     `json:"variant_name" gorm:"type:varchar(255);not null"`
	VariantDescription string     `json:"variant_description" gorm:"type:text"`
	VariantImage       string     `json:"variant_image" gorm:"type:varchar(512)"`
	SKU                string     `json:"sku" gorm:"type:varchar(100)"`
	Weight             float64    `json:"weight" gorm:"default:0"`
	Keywords           string     `json:"keywords" gorm:"type:text"`
	IsSale             bool       `json:"is_sale" gorm:"default:false"`
	SaleEndDate        *time.Time `json:"sale_end_date,omitempty"`

	Images []ProductImage `json:"images,omitempty" gorm:"foreignKey:VariantID"`
	Colors []Color        `json:"colors,omitempty" gorm:"foreignKey:VariantID"`
	Sizes  []Size         `json:"sizes,omitempty" gorm:"foreignKey:VariantID"`
	Specs  []VariantSpec  `json:"specs,omitempty" gorm:"foreignKey:VariantID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Size is the purchasable price point under a variant: a label with its own
// price, stock and discount percentage (0-100).
type Size struct {
	ID        uint    `json:"id" gorm:"primarykey"`
	VariantID uint    `json:"variant_id" gorm:"index;not null"`
	Size      string  `json:"size" gorm:"type:varchar(64);not null"`
	Price     float64 `json:"price" gorm:"not null"`
	Quantity  int     `json:"quantity" gorm:"default:0"`
	Discount  float64 `json:"discount" gorm:"default:0"`
}

// EffectivePrice returns the price after applying the discount percentage
func (s Size) EffectivePrice() float64 {
	return s.Price * (1 - s.Discount/100)
}

// Color is a named color option of a variant
type Color struct {
	ID        uint   `json:"id" gorm:"primarykey"`
	VariantID uint   `json:"variant_id" gorm:"index;not null"`
	Name      string `json:"name" gorm:"type:varchar(64);not null"`
}

// ProductImage is one image of a variant, ordered within its gallery
type ProductImage struct {
	ID        uint   `json:"id" gorm:"primarykey"`
	VariantID uint   `json:"variant_id" gorm:"index;not null"`
	URL       string `json:"url" gorm:"type:varchar(512);not null"`
	Alt       string `json:"alt" gorm:"type:varchar(255)"`
	Order     int    `json:"order" gorm:"column:display_order;default:0"`
}

// ProductSpec is a name/value specification at the product level
type ProductSpec struct {
	ID        uint   `json:"id" gorm:"primarykey"`
	ProductID uint   `json:"product_id" gorm:"index;not null"`
	Name      string `json:"name" gorm:"type:varchar(255);not null"`
	Value     string `json:"value" gorm:"type:text"`
}

// VariantSpec is a name/value specification at the variant level
type VariantSpec struct {
	ID        uint   `json:"id" gorm:"primarykey"`
	VariantID uint   `json:"variant_id" gorm:"index;not null"`
	Name      string `json:"name" gorm:"type:varchar(255);not null"`
	Value     string `json:"value" gorm:"type:text"`
}

// ProductQuestion is a curated Q&A entry shown on the product page
type ProductQuestion struct {
	ID        uint   `json:"id" gorm:"primarykey"`
	ProductID uint   `json:"product_id" gorm:"index;not null"`
	Question  string `json:"question" gorm:"type:text;not null"`
	Answer    string `json:"answer" gorm:"type:text"`
}
