package model

import "time"

// Country is shared reference data, read-only outside the seed path
type Country struct {
	ID   uint   `json:"id" gorm:"primarykey"`
	Name string `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
	Code string `json:"code" gorm:"type:varchar(8);not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserCountry is a visitor's destination as carried in the country cookie
type UserCountry struct {
	Name string `json:"name"`
	Code string `json:"code"`
	City string `json:"city,omitempty"`
}
