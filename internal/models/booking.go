package models

import "time"

// Booking dates and times are business-local wall clock values
// ("2006-01-02" and "15:04"), so they never shift with the server zone.
type Booking struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	CustomerID string `gorm:"size:64;not null;index" json:"customer_id"`
	BarberID   string `gorm:"size:36;not null;index:idx_bookings_barber_date,priority:1" json:"barber_id"`
	ServiceID  string `gorm:"size:36;not null" json:"service_id"`

	Date      string `gorm:"size:10;not null;index:idx_bookings_barber_date,priority:2" json:"date"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	Status        string `gorm:"size:20;not null;default:'pending'" json:"status"`
	PaymentStatus string `gorm:"size:20;not null;default:'not_paid'" json:"payment_status"`

	TotalPrice       int64 `gorm:"not null" json:"total_price"`
	DownPayment      int64 `gorm:"not null" json:"down_payment"`
	AmountPaid       int64 `gorm:"not null;default:0" json:"amount_paid"`
	RemainingPayment int64 `gorm:"not null" json:"remaining_payment"`
	RefundedAmount   int64 `gorm:"not null;default:0" json:"refunded_amount"`

	HoldExpiresAt        *time.Time `json:"hold_expires_at"`
	PaymentInFlightUntil *time.Time `json:"-"`

	CancelReason string     `gorm:"size:50" json:"cancel_reason,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at"`
	CompletedAt  *time.Time `json:"completed_at"`

	Payments []BookingPayment `gorm:"foreignKey:BookingID" json:"payments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
