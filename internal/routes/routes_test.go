package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-core/internal/audit"
	"github.com/BruksfildServices01/barbershop-core/internal/config"
	"github.com/BruksfildServices01/barbershop-core/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-core/internal/lock"
	"github.com/BruksfildServices01/barbershop-core/internal/testutil"
	"github.com/BruksfildServices01/barbershop-core/internal/timezone"
	ucBooking "github.com/BruksfildServices01/barbershop-core/internal/usecase/booking"
)

const secret = "test-secret"

type api struct {
	t      *testing.T
	router *gin.Engine
	shop   testutil.Shop
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := testutil.NewDB(t)
	shop := testutil.SeedShop(t, gdb, "09:00", "10:00", 50000)

	r := gin.New()
	RegisterRoutes(r, Infra{
		DB:     gdb,
		Config: &config.Config{JWTSecret: secret, MaxLeaveDays: 62},
		Booking: ucBooking.Deps{
			Repo:   repository.NewSchedulingGormRepository(gdb),
			Locker: lock.NewLocal(),
			Clock: &timezone.FixedClock{
				T:   time.Date(2025, 9, 19, 10, 0, 0, 0, testutil.Manila),
				Loc: testutil.Manila,
			},
			Logger: zap.NewNop(),
			Policy: ucBooking.Policy{DownPaymentRate: 0.30, RetryAttempts: 3},
		},
		AuditLogs: audit.New(gdb),
	})

	return &api{t: t, router: r, shop: shop}
}

func token(t *testing.T, sub, role string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// do sends body as JSON (nil for none) and decodes the response into out
// when out is non-nil.
func (a *api) do(method, path, bearer string, body, out any) int {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			a.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code
}

type errorBody struct {
	Code    string          `json:"error_code"`
	Details json.RawMessage `json:"details"`
}

type bookingBody struct {
	Booking struct {
		ID               string `json:"id"`
		Status           string `json:"status"`
		PaymentStatus    string `json:"payment_status"`
		RemainingPayment int64  `json:"remaining_payment"`
	} `json:"booking"`
	Warnings []string `json:"warnings"`
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	if code := a.do(http.MethodGet, "/health", "", nil, nil); code != http.StatusOK {
		t.Fatalf("health = %d", code)
	}
}

func TestAuth_RejectsMissingAndForeignTokens(t *testing.T) {
	a := newAPI(t)
	path := "/api/barbers/" + a.shop.Barber.ID + "/availability?date=2025-09-20"

	if code := a.do(http.MethodGet, path, "", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("no token = %d", code)
	}

	forged, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x", "role": "admin"}).
		SignedString([]byte("other-secret"))
	if code := a.do(http.MethodGet, path, forged, nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("forged token = %d", code)
	}

	if code := a.do(http.MethodGet, path, token(t, "x", "janitor"), nil, nil); code != http.StatusForbidden {
		t.Fatalf("unknown role = %d", code)
	}
}

func TestBookingFlow_OverHTTP(t *testing.T) {
	a := newAPI(t)
	customer := token(t, "cust-1", "customer")
	cashier := token(t, "cash-1", "cashier")

	var created bookingBody
	code := a.do(http.MethodPost, "/api/bookings", customer, map[string]any{
		"barber_id":  a.shop.Barber.ID,
		"service_id": a.shop.Service.ID,
		"date":       "2025-09-20",
		"start_time": "09:00",
		"end_time":   "09:30",
	}, &created)
	if code != http.StatusCreated || created.Booking.Status != "pending" {
		t.Fatalf("create = %d %+v", code, created)
	}

	var taken errorBody
	code = a.do(http.MethodPost, "/api/bookings", customer, map[string]any{
		"barber_id":  a.shop.Barber.ID,
		"service_id": a.shop.Service.ID,
		"date":       "2025-09-20",
		"start_time": "09:00",
		"end_time":   "09:30",
	}, &taken)
	if code != http.StatusConflict || taken.Code != "slot_unavailable" {
		t.Fatalf("double booking = %d %+v", code, taken)
	}

	var avail struct {
		Slots []struct {
			Start  string `json:"start"`
			Status string `json:"status"`
		} `json:"slots"`
	}
	code = a.do(http.MethodGet, "/api/barbers/"+a.shop.Barber.ID+"/availability?date=2025-09-20", customer, nil, &avail)
	if code != http.StatusOK || len(avail.Slots) != 2 || avail.Slots[0].Status == "open" {
		t.Fatalf("availability = %d %+v", code, avail)
	}

	var over errorBody
	code = a.do(http.MethodPost, "/api/bookings/"+created.Booking.ID+"/payments", cashier,
		map[string]any{"amount": 60000, "method": "cash"}, &over)
	if code != http.StatusUnprocessableEntity || over.Code != "overpayment_rejected" {
		t.Fatalf("overpayment = %d %+v", code, over)
	}

	var paid bookingBody
	code = a.do(http.MethodPost, "/api/bookings/"+created.Booking.ID+"/payments", cashier,
		map[string]any{"amount": 15000, "method": "cash"}, &paid)
	if code != http.StatusOK || paid.Booking.Status != "confirmed" || paid.Booking.RemainingPayment != 35000 {
		t.Fatalf("payment = %d %+v", code, paid)
	}

	var illegal errorBody
	code = a.do(http.MethodPatch, "/api/bookings/"+created.Booking.ID+"/status", cashier,
		map[string]any{"status": "confirmed"}, &illegal)
	if code != http.StatusConflict || illegal.Code != "illegal_transition" {
		t.Fatalf("reconfirm = %d %+v", code, illegal)
	}

	if code := a.do(http.MethodPost, "/api/bookings/"+created.Booking.ID+"/refund", customer, nil, nil); code != http.StatusForbidden {
		t.Fatalf("customer refund = %d", code)
	}
}

func TestPayments_CustomerCannotSettleWithoutMoneyMoving(t *testing.T) {
	a := newAPI(t)
	customer := token(t, "cust-1", "customer")

	var created bookingBody
	code := a.do(http.MethodPost, "/api/bookings", customer, map[string]any{
		"barber_id":  a.shop.Barber.ID,
		"service_id": a.shop.Service.ID,
		"date":       "2025-09-20",
		"start_time": "09:00",
		"end_time":   "09:30",
	}, &created)
	if code != http.StatusCreated {
		t.Fatalf("create = %d %+v", code, created)
	}
	path := "/api/bookings/" + created.Booking.ID + "/payments"

	var cash errorBody
	code = a.do(http.MethodPost, path, customer, map[string]any{"amount": 15000, "method": "cash"}, &cash)
	if code != http.StatusForbidden {
		t.Fatalf("customer cash = %d %+v", code, cash)
	}

	// No gateway is configured in this router.
	var card errorBody
	code = a.do(http.MethodPost, path, customer, map[string]any{"amount": 15000, "method": "card", "token": "tok"}, &card)
	if code != http.StatusServiceUnavailable || card.Code != "unavailable" {
		t.Fatalf("customer card without gateway = %d %+v", code, card)
	}
	code = a.do(http.MethodPost, path, customer, map[string]any{"amount": 15000, "method": "ewallet"}, &card)
	if code != http.StatusServiceUnavailable || card.Code != "unavailable" {
		t.Fatalf("customer e-wallet without gateway = %d %+v", code, card)
	}

	var list struct {
		Data []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	a.do(http.MethodGet, "/api/barbers/"+a.shop.Barber.ID+"/bookings?date=2025-09-20", token(t, "admin-1", "admin"), nil, &list)
	if len(list.Data) != 1 || list.Data[0].Status != "pending" {
		t.Fatalf("bookings after refused payments = %+v", list.Data)
	}

	var deposit errorBody
	code = a.do(http.MethodPost, "/api/bookings", customer, map[string]any{
		"barber_id":  a.shop.Barber.ID,
		"service_id": a.shop.Service.ID,
		"date":       "2025-09-20",
		"start_time": "09:30",
		"end_time":   "10:00",
		"deposit":    map[string]any{"method": "cash"},
	}, &deposit)
	if code != http.StatusForbidden {
		t.Fatalf("customer cash deposit = %d %+v", code, deposit)
	}
}

func TestPayments_CustomerPaysOnlyOwnBooking(t *testing.T) {
	a := newAPI(t)
	cashier := token(t, "cash-1", "cashier")

	var created bookingBody
	a.do(http.MethodPost, "/api/bookings", cashier, map[string]any{
		"customer_id": "cust-1",
		"barber_id":   a.shop.Barber.ID,
		"service_id":  a.shop.Service.ID,
		"date":        "2025-09-20",
		"start_time":  "09:00",
		"end_time":    "09:30",
	}, &created)

	path := "/api/bookings/" + created.Booking.ID + "/payments"

	var foreign errorBody
	code := a.do(http.MethodPost, path, token(t, "cust-2", "customer"),
		map[string]any{"amount": 15000, "method": "card", "token": "tok"}, &foreign)
	if code != http.StatusNotFound || foreign.Code != "not_found" {
		t.Fatalf("stranger payment = %d %+v", code, foreign)
	}

	// The owner gets as far as the missing gateway.
	var own errorBody
	code = a.do(http.MethodPost, path, token(t, "cust-1", "customer"),
		map[string]any{"amount": 15000, "method": "card", "token": "tok"}, &own)
	if code != http.StatusServiceUnavailable || own.Code != "unavailable" {
		t.Fatalf("owner payment without gateway = %d %+v", code, own)
	}
}

func TestChangeStatus_BarberScopedToOwnBookings(t *testing.T) {
	a := newAPI(t)
	cashier := token(t, "cash-1", "cashier")

	var created bookingBody
	a.do(http.MethodPost, "/api/bookings", cashier, map[string]any{
		"customer_id": "cust-1",
		"barber_id":   a.shop.Barber.ID,
		"service_id":  a.shop.Service.ID,
		"date":        "2025-09-20",
		"start_time":  "09:00",
		"end_time":    "09:30",
		"deposit":     map[string]any{"method": "cash"},
	}, &created)
	if created.Booking.Status != "confirmed" {
		t.Fatalf("booking = %+v", created)
	}
	path := "/api/bookings/" + created.Booking.ID + "/status"

	var other errorBody
	code := a.do(http.MethodPatch, path, token(t, "barber-2", "barber"), map[string]any{"status": "no_show"}, &other)
	if code != http.StatusNotFound || other.Code != "not_found" {
		t.Fatalf("other barber status change = %d %+v", code, other)
	}

	var done bookingBody
	code = a.do(http.MethodPatch, path, token(t, a.shop.Barber.ID, "barber"), map[string]any{"status": "completed"}, &done)
	if code != http.StatusOK || done.Booking.Status != "completed" {
		t.Fatalf("own barber complete = %d %+v", code, done)
	}
}

func TestBookingsByDate_BarberSeesOnlyOwnCalendar(t *testing.T) {
	a := newAPI(t)
	path := "/api/barbers/" + a.shop.Barber.ID + "/bookings?date=2025-09-20"

	var list struct {
		Total int `json:"total"`
	}
	if code := a.do(http.MethodGet, path, token(t, a.shop.Barber.ID, "barber"), nil, &list); code != http.StatusOK {
		t.Fatalf("own calendar = %d", code)
	}
	if code := a.do(http.MethodGet, path, token(t, "someone-else", "barber"), nil, nil); code != http.StatusForbidden {
		t.Fatalf("other calendar = %d", code)
	}
	if code := a.do(http.MethodGet, "/api/barbers/"+a.shop.Barber.ID+"/bookings", token(t, "a", "admin"), nil, nil); code != http.StatusBadRequest {
		t.Fatalf("missing date = %d", code)
	}
}

func TestRequests_LeaveConflictOverHTTP(t *testing.T) {
	a := newAPI(t)
	barber := token(t, a.shop.Barber.ID, "barber")
	admin := token(t, "admin-1", "admin")
	cashier := token(t, "cash-1", "cashier")

	var created bookingBody
	a.do(http.MethodPost, "/api/bookings", cashier, map[string]any{
		"customer_id": "walk-in",
		"barber_id":   a.shop.Barber.ID,
		"service_id":  a.shop.Service.ID,
		"date":        "2025-09-20",
		"start_time":  "09:30",
		"end_time":    "10:00",
		"deposit":     map[string]any{"method": "cash"},
	}, &created)
	if created.Booking.Status != "confirmed" {
		t.Fatalf("booking with deposit = %+v", created)
	}

	var req struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	code := a.do(http.MethodPost, "/api/requests", barber, map[string]any{
		"type":       "sick",
		"start_date": "2025-09-20",
		"end_date":   "2025-09-20",
	}, &req)
	if code != http.StatusCreated || req.Status != "pending" {
		t.Fatalf("submit = %d %+v", code, req)
	}

	if code := a.do(http.MethodPost, "/api/requests/"+req.ID+"/approve", barber, nil, nil); code != http.StatusForbidden {
		t.Fatalf("barber approving = %d", code)
	}

	var conflict errorBody
	code = a.do(http.MethodPost, "/api/requests/"+req.ID+"/approve", admin, nil, &conflict)
	if code != http.StatusConflict || conflict.Code != "conflicting_bookings_exist" {
		t.Fatalf("approve with conflicts = %d %+v", code, conflict)
	}
	var details struct {
		BookingIDs []string `json:"booking_ids"`
	}
	if err := json.Unmarshal(conflict.Details, &details); err != nil || len(details.BookingIDs) != 1 || details.BookingIDs[0] != created.Booking.ID {
		t.Fatalf("conflict details = %s", conflict.Details)
	}

	var denied errorBody
	code = a.do(http.MethodPost, "/api/requests/"+req.ID+"/deny", admin, nil, &denied)
	if code != http.StatusBadRequest || denied.Code != "response_required" {
		t.Fatalf("deny without message = %d %+v", code, denied)
	}

	code = a.do(http.MethodPost, "/api/requests/"+req.ID+"/approve", admin, map[string]any{"override": true}, &req)
	if code != http.StatusOK || req.Status != "approved" {
		t.Fatalf("override approve = %d %+v", code, req)
	}

	var list struct {
		Total int `json:"total"`
	}
	if code := a.do(http.MethodGet, "/api/requests?status=approved", admin, nil, &list); code != http.StatusOK || list.Total != 1 {
		t.Fatalf("list approved = %d %+v", code, list)
	}
}

func TestAdmin_CatalogAndTemplate(t *testing.T) {
	a := newAPI(t)
	admin := token(t, "admin-1", "admin")
	base := "/api/admin/barbers/" + a.shop.Barber.ID

	var refused errorBody
	code := a.do(http.MethodPatch, base+"/services/"+a.shop.Service.ID, admin, map[string]any{"price": 99900}, &refused)
	if code != http.StatusBadRequest || refused.Code != "validation_error" {
		t.Fatalf("price patch = %d %+v", code, refused)
	}

	var svc struct {
		Name   string `json:"name"`
		Price  int64  `json:"price"`
		Active bool   `json:"active"`
	}
	code = a.do(http.MethodPatch, base+"/services/"+a.shop.Service.ID, admin, map[string]any{"name": "Classic cut", "active": false}, &svc)
	if code != http.StatusOK || svc.Name != "Classic cut" || svc.Active || svc.Price != 50000 {
		t.Fatalf("service patch = %d %+v", code, svc)
	}

	if code := a.do(http.MethodPost, base+"/services", admin, map[string]any{
		"name": "Shave", "duration_min": 30, "price": 25000,
	}, nil); code != http.StatusCreated {
		t.Fatalf("create service = %d", code)
	}

	var bad errorBody
	code = a.do(http.MethodPut, base+"/working-hours", admin, map[string]any{
		"days": []map[string]any{{"weekday": 6, "active": true, "start_time": "09:00", "end_time": "09:45"}},
	}, &bad)
	if code != http.StatusBadRequest || bad.Code != "validation_error" {
		t.Fatalf("untileable template = %d %+v", code, bad)
	}

	code = a.do(http.MethodPut, base+"/working-hours", admin, map[string]any{
		"days": []map[string]any{{"weekday": 6, "active": true, "start_time": "10:00", "end_time": "12:00"}},
	}, nil)
	if code != http.StatusOK {
		t.Fatalf("replace template = %d", code)
	}

	var avail struct {
		Slots []struct {
			Start string `json:"start"`
		} `json:"slots"`
	}
	a.do(http.MethodGet, "/api/barbers/"+a.shop.Barber.ID+"/availability?date=2025-09-20", admin, nil, &avail)
	if len(avail.Slots) != 4 || avail.Slots[0].Start != "10:00" {
		t.Fatalf("saturday after template change = %+v", avail.Slots)
	}

	if code := a.do(http.MethodGet, "/api/admin/audit-logs?from=2025-09-01&to=2025-09-30", admin, nil, nil); code != http.StatusOK {
		t.Fatalf("audit logs = %d", code)
	}
	if code := a.do(http.MethodGet, "/api/admin/audit-logs?from=yesterday", admin, nil, nil); code != http.StatusBadRequest {
		t.Fatalf("bad audit filter = %d", code)
	}
}
