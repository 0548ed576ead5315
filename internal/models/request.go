package models

import (
	"time"

	"gorm.io/datatypes"
)

// Request covers pto, sick and price_change submissions. Leave fields are
// empty for price changes and vice versa.
type Request struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	BarberID string `gorm:"size:36;not null;index" json:"barber_id"`
	Type     string `gorm:"size:20;not null" json:"type"`
	Status   string `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Reason   string `gorm:"size:255" json:"reason"`

	StartDate string `gorm:"size:10" json:"start_date,omitempty"`
	EndDate   string `gorm:"size:10" json:"end_date,omitempty"`

	ServiceID      string `gorm:"size:36" json:"service_id,omitempty"`
	CurrentPrice   int64  `json:"current_price,omitempty"`
	RequestedPrice int64  `json:"requested_price,omitempty"`

	ResponseMessage string     `gorm:"size:500" json:"response_message"`
	RespondedBy     string     `gorm:"size:64" json:"responded_by,omitempty"`
	RespondedAt     *time.Time `json:"responded_at"`

	// Booking ids the approver explicitly overrode when approving leave.
	OverriddenBookings datatypes.JSON `json:"overridden_bookings,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
