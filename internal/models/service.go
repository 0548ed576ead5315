package models

import "time"

// Service prices are minor currency units. Price only moves through an
// approved price_change request.
type Service struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	BarberID string `gorm:"size:36;index;not null" json:"barber_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Price       int64  `gorm:"not null" json:"price"`
	DurationMin int    `json:"duration_min"`
	Category    string `gorm:"size:50" json:"category"`
	Active      bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
