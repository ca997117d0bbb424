package model

import (
	"time"

	"gorm.io/gorm"
)

// Review is a buyer's rating of a product, optionally with images
type Review struct {
	ID        uint    `json:"id" gorm:"primarykey"`
	ProductID uint    `json:"product_id" gorm:"index;not null"`
	UserID    string  `json:"user_id" gorm:"type:varchar(64);index;not null"`
	Rating    float64 `json:"rating" gorm:"not null"`
	Comment   string  `json:"comment" gorm:"type:text"`

	Images []ReviewImage `json:"images,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// ReviewImage is one image attached to a review
type ReviewImage struct {
	ID       uint   `json:"id" gorm:"primarykey"`
	ReviewID uint   `json:"review_id" gorm:"index;not null"`
	URL      string `json:"url" gorm:"type:varchar(512);not null"`
}
