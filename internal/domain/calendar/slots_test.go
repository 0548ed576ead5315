package calendar

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/models"
)

func saturdayTemplate(open, closeAt string) WeeklyTemplate {
	return TemplateFromModels([]models.WorkingHours{
		{BarberID: "b1", Weekday: int(time.Saturday), StartTime: open, EndTime: closeAt, Active: true},
	})
}

// 2025-09-20 is a Saturday.
var saturday = time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)

func TestGenerateSlots_TilesWindow(t *testing.T) {
	tpl := saturdayTemplate("09:00", "12:00")

	slots, err := GenerateSlots(tpl, saturday, 30*time.Minute)
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	if len(slots) != 6 {
		t.Fatalf("len(slots) = %d, want 6", len(slots))
	}
	if slots[0] != (Slot{Start: "09:00", End: "09:30"}) {
		t.Fatalf("first slot = %+v", slots[0])
	}
	if slots[5] != (Slot{Start: "11:30", End: "12:00"}) {
		t.Fatalf("last slot = %+v", slots[5])
	}
	for i := 1; i < len(slots); i++ {
		if slots[i].Start != slots[i-1].End {
			t.Fatalf("gap between %+v and %+v", slots[i-1], slots[i])
		}
	}
}

func TestGenerateSlots_ClosedWeekday(t *testing.T) {
	tpl := saturdayTemplate("09:00", "12:00")
	sunday := saturday.AddDate(0, 0, 1)

	slots, err := GenerateSlots(tpl, sunday, 30*time.Minute)
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots on a closed day, got %d", len(slots))
	}
}

func TestGenerateSlots_InvalidInput(t *testing.T) {
	cases := []struct {
		name        string
		open, close string
		granularity time.Duration
	}{
		{"zero granularity", "09:00", "12:00", 0},
		{"negative granularity", "09:00", "12:00", -time.Minute},
		{"close before open", "12:00", "09:00", 30 * time.Minute},
		{"close equals open", "09:00", "09:00", 30 * time.Minute},
		{"partial trailing slot", "09:00", "10:45", 30 * time.Minute},
		{"malformed open", "9am", "10:00", 30 * time.Minute},
	}

	for _, tt := range cases {
		_, err := GenerateSlots(saturdayTemplate(tt.open, tt.close), saturday, tt.granularity)
		if !httperr.IsBusiness(err, httperr.CodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", tt.name, err)
		}
	}
}

func TestValidateTemplate_SkipsClosedDays(t *testing.T) {
	tpl := TemplateFromModels([]models.WorkingHours{
		{Weekday: 1, StartTime: "08:00", EndTime: "17:00", Active: true},
		{Weekday: 2, StartTime: "bad", EndTime: "bad", Active: false},
	})

	if err := ValidateTemplate(tpl, time.Hour); err != nil {
		t.Fatalf("ValidateTemplate: %v", err)
	}
	if err := ValidateTemplate(tpl, 0); err == nil {
		t.Fatalf("expected error for zero granularity")
	}
}

func TestFindSlot(t *testing.T) {
	slots, _ := GenerateSlots(saturdayTemplate("09:00", "10:00"), saturday, 30*time.Minute)

	if i, ok := FindSlot(slots, "09:30", "10:00"); !ok || i != 1 {
		t.Fatalf("FindSlot = %d, %v", i, ok)
	}
	if _, ok := FindSlot(slots, "09:15", "09:45"); ok {
		t.Fatalf("expected sub-slot interval to be rejected")
	}
	if _, ok := FindSlot(slots, "09:00", "10:00"); ok {
		t.Fatalf("expected multi-slot interval to be rejected")
	}
}
