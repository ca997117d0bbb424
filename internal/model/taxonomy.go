package model

import (
	"time"

	"gorm.io/gorm"
)

// Category is a top-level product category, addressed by its URL slug
type Category struct {
	ID       uint   `json:"id" gorm:"primarykey"`
	Name     string `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
	URL      string `json:"url" gorm:"type:varchar(255);uniqueIndex;not null"`
	Image    string `json:"image" gorm:"type:varchar(512)"`
	Featured bool   `json:"featured" gorm:"default:false"`

	SubCategories []SubCategory `json:"sub_categories,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// SubCategory is a second-level category under a Category
type SubCategory struct {
	ID         uint   `json:"id" gorm:"primarykey"`
	CategoryID uint   `json:"category_id" gorm:"index;not null"`
	Name       string `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
	URL        string `json:"url" gorm:"type:varchar(255);uniqueIndex;not null"`
	Image      string `json:"image" gorm:"type:varchar(512)"`
	Featured   bool   `json:"featured" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// OfferTag labels products taking part in a promotion, addressed by URL slug
type OfferTag struct {
	ID   uint   `json:"id" gorm:"primarykey"`
	Name string `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
	URL  string `json:"url" gorm:"type:varchar(255);uniqueIndex;not null"`

	Products []Product `json:"products,omitempty" gorm:"foreignKey:OfferTagID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
