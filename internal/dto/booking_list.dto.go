package dto

type BookingListDTO struct {
	ID               string `json:"id"`
	Date             string `json:"date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	Status           string `json:"status"`
	PaymentStatus    string `json:"payment_status"`
	CustomerID       string `json:"customer_id"`
	ServiceID        string `json:"service_id"`
	ServiceName      string `json:"service_name"`
	TotalPrice       int64  `json:"total_price"`
	RemainingPayment int64  `json:"remaining_payment"`
}
