package calendar

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/models"
)

// DayHours is one weekday of the recurring template. Open and Close are
// "15:04" wall clock values.
type DayHours struct {
	Weekday time.Weekday
	Open    string
	Close   string
	Closed  bool
}

// WeeklyTemplate is indexed by time.Weekday.
type WeeklyTemplate [7]DayHours

// TemplateFromModels builds a template from stored rows. Weekdays without a
// row, or with an inactive row, are closed.
func TemplateFromModels(rows []models.WorkingHours) WeeklyTemplate {
	var tpl WeeklyTemplate
	for i := range tpl {
		tpl[i] = DayHours{Weekday: time.Weekday(i), Closed: true}
	}

	for _, wh := range rows {
		if wh.Weekday < 0 || wh.Weekday > 6 {
			continue
		}
		tpl[wh.Weekday] = DayHours{
			Weekday: time.Weekday(wh.Weekday),
			Open:    wh.StartTime,
			Close:   wh.EndTime,
			Closed:  !wh.Active || wh.StartTime == "" || wh.EndTime == "",
		}
	}

	return tpl
}

// ValidateTemplate fails fast on configuration bugs: malformed times,
// inverted windows and windows that cannot be tiled by the granularity.
func ValidateTemplate(tpl WeeklyTemplate, granularity time.Duration) error {
	if granularity <= 0 {
		return httperr.Validation("slot granularity must be positive")
	}
	if granularity%time.Minute != 0 {
		return httperr.Validation("slot granularity must be whole minutes")
	}

	for _, day := range tpl {
		if day.Closed {
			continue
		}
		if _, _, err := window(day, granularity); err != nil {
			return err
		}
	}
	return nil
}

func window(day DayHours, granularity time.Duration) (int, int, error) {
	open, err := ParseClock(day.Open)
	if err != nil {
		return 0, 0, httperr.Validation("%s: invalid open time %q", day.Weekday, day.Open)
	}
	closeAt, err := ParseClock(day.Close)
	if err != nil {
		return 0, 0, httperr.Validation("%s: invalid close time %q", day.Weekday, day.Close)
	}
	if closeAt <= open {
		return 0, 0, httperr.Validation("%s: close time must be after open time", day.Weekday)
	}

	step := int(granularity / time.Minute)
	if (closeAt-open)%step != 0 {
		return 0, 0, httperr.Validation("%s: window %s-%s is not a multiple of %d minutes", day.Weekday, day.Open, day.Close, step)
	}
	return open, closeAt, nil
}

// ParseClock converts "15:04" to minutes after midnight.
func ParseClock(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
