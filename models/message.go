package models

import (
	"time"
)

// Message is append-only: rows are created and never updated or deleted.
type Message struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	SenderID   uint  `gorm:"index;not null" json:"senderId"`
	ReceiverID uint  `gorm:"index;not null" json:"receiverId"`
	OrderID    *uint `gorm:"index" json:"orderId,omitempty"` // optional order context

	Content string `gorm:"size:1000;not null" json:"content"`

	CreatedAt time.Time `json:"createdAt"`

	// Relations
	Sender   User `gorm:"foreignKey:SenderID" json:"sender"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"receiver"`
}
