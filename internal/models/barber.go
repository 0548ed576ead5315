package models

import "time"

// Barber is master data owned by the admin side. Rank and Branch are
// descriptive only.
type Barber struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	Name   string `gorm:"size:100;not null" json:"name"`
	Branch string `gorm:"size:100" json:"branch"`
	Rank   string `gorm:"size:20;default:'junior'" json:"rank"`

	SlotMinutes int `gorm:"default:30" json:"slot_minutes"`

	Services     []Service      `gorm:"foreignKey:BarberID" json:"services,omitempty"`
	WorkingHours []WorkingHours `gorm:"foreignKey:BarberID" json:"working_hours,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
