package models

import "time"

type BookingPayment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	BookingID string `gorm:"size:36;not null;index" json:"booking_id"`

	Amount    int64  `gorm:"not null" json:"amount"`
	Method    string `gorm:"size:20;not null" json:"method"`
	Provider  string `gorm:"size:20;not null" json:"provider"`
	Reference string `gorm:"size:100" json:"reference"`
	Status    string `gorm:"size:20;not null;default:'captured'" json:"status"`

	RefundedAt *time.Time `json:"refunded_at"`
	CreatedAt  time.Time  `json:"created_at"`
}
