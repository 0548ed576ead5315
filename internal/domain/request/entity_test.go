package request

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/barbershop-core/internal/httperr"
	"github.com/BruksfildServices01/barbershop-core/internal/models"
)

var now = time.Date(2025, 9, 19, 10, 0, 0, 0, time.UTC)

func TestValidateLeave(t *testing.T) {
	if _, _, err := ValidateLeave(LeavePayload{StartDate: "2025-09-20", EndDate: "2025-09-20"}, time.UTC, 62); err != nil {
		t.Fatalf("single day leave: %v", err)
	}

	cases := []LeavePayload{
		{StartDate: "2025-09-21", EndDate: "2025-09-20"},
		{StartDate: "20-09-2025", EndDate: "2025-09-20"},
		{StartDate: "2025-01-01", EndDate: "2025-12-31"},
	}
	for _, p := range cases {
		if _, _, err := ValidateLeave(p, time.UTC, 62); !httperr.IsBusiness(err, httperr.CodeValidation) {
			t.Fatalf("%+v: expected validation error, got %v", p, err)
		}
	}
}

func TestValidatePriceChange(t *testing.T) {
	if err := ValidatePriceChange(PriceChangePayload{ServiceID: "svc", RequestedPrice: 55000}, 50000); err != nil {
		t.Fatalf("increase: %v", err)
	}
	if err := ValidatePriceChange(PriceChangePayload{ServiceID: "svc", RequestedPrice: 50000}, 50000); err == nil {
		t.Fatalf("expected equal price to be rejected")
	}
	if err := ValidatePriceChange(PriceChangePayload{RequestedPrice: 60000}, 50000); err == nil {
		t.Fatalf("expected missing service to be rejected")
	}
}

func TestDeny_RequiresMessage(t *testing.T) {
	r := &models.Request{Status: string(StatusPending)}

	if err := Deny(r, "   ", "admin", now); !httperr.IsBusiness(err, httperr.CodeResponseRequired) {
		t.Fatalf("expected response required, got %v", err)
	}
	if r.Status != string(StatusPending) {
		t.Fatalf("status changed on failure")
	}

	if err := Deny(r, "fully booked week", "admin", now); err != nil {
		t.Fatalf("Deny: %v", err)
	}
	if r.Status != string(StatusDenied) || r.RespondedAt == nil {
		t.Fatalf("unexpected state %+v", r)
	}
}

func TestRespond_TerminalStates(t *testing.T) {
	for _, st := range []Status{StatusApproved, StatusDenied} {
		r := &models.Request{Status: string(st)}
		if err := Approve(r, "", "admin", now); !httperr.IsBusiness(err, httperr.CodeIllegalTransition) {
			t.Fatalf("approve from %s: got %v", st, err)
		}
		if err := Deny(r, "no", "admin", now); !httperr.IsBusiness(err, httperr.CodeIllegalTransition) {
			t.Fatalf("deny from %s: got %v", st, err)
		}
	}
}

func TestCoversDate(t *testing.T) {
	r := models.Request{Type: "pto", Status: "approved", StartDate: "2025-09-20", EndDate: "2025-09-22"}

	for date, want := range map[string]bool{
		"2025-09-19": false,
		"2025-09-20": true,
		"2025-09-22": true,
		"2025-09-23": false,
	} {
		if got := CoversDate(r, date); got != want {
			t.Fatalf("CoversDate(%s) = %v, want %v", date, got, want)
		}
	}

	r.Type = "price_change"
	if CoversDate(r, "2025-09-20") {
		t.Fatalf("price changes never block dates")
	}
}
