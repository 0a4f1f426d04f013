package models

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	BuyerID   uint `gorm:"index;not null" json:"buyerId"`
	SellerID  uint `gorm:"index;not null" json:"sellerId"` // snapshot of the product seller at creation
	ProductID uint `gorm:"index;not null" json:"productId"`

	Quantity int `gorm:"not null" json:"quantity"`

	// Price x quantity captured at creation time. Later product price edits
	// must never change this value.
	TotalAmount float64 `gorm:"not null" json:"totalAmount"`

	Status OrderStatus `gorm:"size:20;default:'pending';index" json:"status"`

	// Gateway payment id, set when the payment is executed.
	PaymentID string `gorm:"size:100" json:"paymentId,omitempty"`

	// Invoice reference handed to the payment gateway.
	Reference string `gorm:"size:40;uniqueIndex" json:"reference"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Buyer   User    `gorm:"foreignKey:BuyerID" json:"buyer"`
	Seller  User    `gorm:"foreignKey:SellerID" json:"seller"`
	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}
