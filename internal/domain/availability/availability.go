package availability

import (
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-core/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-core/internal/domain/calendar"
	"github.com/BruksfildServices01/barbershop-core/internal/domain/request"
	"github.com/BruksfildServices01/barbershop-core/internal/models"
)

type SlotStatus string

const (
	SlotOpen    SlotStatus = "open"
	SlotBooked  SlotStatus = "booked"
	SlotOnLeave SlotStatus = "on_leave"
)

type SlotView struct {
	Start     string     `json:"start"`
	End       string     `json:"end"`
	Status    SlotStatus `json:"status"`
	BookingID string     `json:"booking_id,omitempty"`
}

type Availability struct {
	BarberID string     `json:"barber_id"`
	Date     string     `json:"date"`
	Slots    []SlotView `json:"slots"`
}

// Project overlays bookings and approved leave onto the generated slots.
// It never mutates its inputs and is deterministic for equal inputs.
func Project(
	barberID string,
	date string,
	slots []calendar.Slot,
	bookings []models.Booking,
	leaves []models.Request,
	logger *zap.Logger,
) Availability {
	views := make([]SlotView, len(slots))
	for i, s := range slots {
		views[i] = SlotView{Start: s.Start, End: s.End, Status: SlotOpen}
	}

	for _, b := range bookings {
		if b.BarberID != barberID || b.Date != date || !booking.Status(b.Status).Active() {
			continue
		}

		if i, ok := calendar.FindSlot(slots, b.StartTime, b.EndTime); ok {
			markBooked(&views[i], b.ID)
			continue
		}

		// A booking off the slot grid means integrity was broken upstream.
		// Never hide a real reservation: block whatever it overlaps.
		logger.Warn("booking does not match a generated slot",
			zap.String("booking_id", b.ID),
			zap.String("barber_id", barberID),
			zap.String("date", date),
			zap.String("start", b.StartTime),
			zap.String("end", b.EndTime),
		)
		for i, s := range slots {
			if s.Overlaps(b.StartTime, b.EndTime) {
				markBooked(&views[i], b.ID)
			}
		}
	}

	for _, l := range leaves {
		if l.BarberID != barberID || !request.CoversDate(l, date) {
			continue
		}
		for i := range views {
			views[i].Status = SlotOnLeave
		}
		break
	}

	return Availability{BarberID: barberID, Date: date, Slots: views}
}

func markBooked(v *SlotView, bookingID string) {
	v.Status = SlotBooked
	if v.BookingID == "" || bookingID < v.BookingID {
		v.BookingID = bookingID
	}
}

// IsOpen reports whether the exact [start, end) slot exists and is open.
func (a Availability) IsOpen(start, end string) (found bool, open bool) {
	for _, v := range a.Slots {
		if v.Start == start && v.End == end {
			return true, v.Status == SlotOpen
		}
	}
	return false, false
}
