package calendar

import (
	"time"

	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
)

type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// GenerateSlots tiles the open window of date's weekday with back-to-back
// slots of the given granularity. A closed weekday yields no slots.
func GenerateSlots(tpl WeeklyTemplate, date time.Time, granularity time.Duration) ([]Slot, error) {
	if granularity <= 0 {
		return nil, httperr.Validation("slot granularity must be positive")
	}

	day := tpl[date.Weekday()]
	if day.Closed {
		return []Slot{}, nil
	}

	open, closeAt, err := window(day, granularity)
	if err != nil {
		return nil, err
	}

	step := int(granularity / time.Minute)
	slots := make([]Slot, 0, (closeAt-open)/step)
	for cur := open; cur+step <= closeAt; cur += step {
		slots = append(slots, Slot{
			Start: FormatClock(cur),
			End:   FormatClock(cur + step),
		})
	}

	return slots, nil
}

// FindSlot reports the index of the slot with exactly these boundaries.
func FindSlot(slots []Slot, start, end string) (int, bool) {
	for i, s := range slots {
		if s.Start == start && s.End == end {
			return i, true
		}
	}
	return -1, false
}

// Overlaps reports whether [start, end) intersects the slot.
func (s Slot) Overlaps(start, end string) bool {
	return s.Start < end && start < s.End
}
