package models

import "time"

type WorkingHours struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	BarberID string `gorm:"size:36;not null;uniqueIndex:ux_working_hours_barber_weekday,priority:1" json:"barber_id"`

	Weekday int `gorm:"uniqueIndex:ux_working_hours_barber_weekday,priority:2" json:"weekday"`

	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	Active    bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
