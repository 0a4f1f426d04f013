package models

import (
	"time"
)

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Login information
	Email    string `gorm:"unique;not null;size:100" json:"email"`
	Password string `gorm:"not null" json:"-"`

	// Profile
	FirstName string `gorm:"size:50;not null" json:"firstName"`
	LastName  string `gorm:"size:50;not null" json:"lastName"`
	Avatar    string `json:"avatar,omitempty"`

	// Role & Status
	Role       string `gorm:"default:'buyer';size:20;index" json:"role"` // buyer, seller, admin
	IsVerified bool   `gorm:"default:false" json:"isVerified"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
