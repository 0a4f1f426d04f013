package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	SellerID    uint    `gorm:"index;not null" json:"sellerId"` // immutable after creation
	Title       string  `gorm:"size:200;not null;index" json:"title"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Category    string  `gorm:"size:50;index" json:"category"`
	Stock       int     `gorm:"not null;default:0" json:"stock"`
	IsActive    bool    `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Seller User `gorm:"foreignKey:SellerID" json:"seller"`
}
