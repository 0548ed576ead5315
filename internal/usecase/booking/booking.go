package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-core/internal/audit"
	"github.com/BruksfildServices01/barbershop-core/internal/cache"
	"github.com/BruksfildServices01/barbershop-core/internal/config"
	"github.com/BruksfildServices01/barbershop-core/internal/domain"
	bookingdomain "github.com/BruksfildServices01/barbershop-core/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-core/internal/lock"
	"github.com/BruksfildServices01/barbershop-core/internal/payment"
	"github.com/BruksfildServices01/barbershop-core/internal/timezone"
)

// HoldScheduler arranges for a pending booking to be looked at again when
// its hold runs out.
type HoldScheduler interface {
	ScheduleHoldRelease(ctx context.Context, bookingID string, at time.Time) error
}

type Policy struct {
	DownPaymentRate          float64
	HoldWindow               time.Duration
	RefundPolicy             bookingdomain.RefundPolicy
	RequirePaymentToComplete bool
	RetryAttempts            int
	LockWait                 time.Duration
	PaymentTimeout           time.Duration
}

func PolicyFromConfig(cfg *config.Config) Policy {
	refund, ok := bookingdomain.ParseRefundPolicy(cfg.RefundPolicy)
	if !ok {
		refund = bookingdomain.RefundFull
	}
	return Policy{
		DownPaymentRate:          cfg.DownPaymentRate,
		HoldWindow:               cfg.HoldWindow,
		RefundPolicy:             refund,
		RequirePaymentToComplete: cfg.RequirePaymentBeforeComplete,
		RetryAttempts:            cfg.BookingRetryAttempts,
		LockWait:                 cfg.LockTTL,
		PaymentTimeout:           cfg.PaymentTimeout,
	}
}

// Deps is shared by every booking use case.
type Deps struct {
	Repo     domain.Repository
	Locker   lock.Locker
	Payments *payment.Router
	Holds    HoldScheduler
	Cache    cache.AvailabilityCache
	Clock    timezone.Clock
	Audit    *audit.Dispatcher
	Logger   *zap.Logger
	Policy   Policy
}

func (d Deps) withDefaults() Deps {
	if d.Cache == nil {
		d.Cache = cache.Nop{}
	}
	if d.Locker == nil {
		d.Locker = lock.NewLocal()
	}
	if d.Payments == nil {
		d.Payments = payment.NewRouter(nil)
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Policy.RetryAttempts < 1 {
		d.Policy.RetryAttempts = 1
	}
	if d.Policy.LockWait <= 0 {
		d.Policy.LockWait = 10 * time.Second
	}
	if d.Policy.PaymentTimeout <= 0 {
		d.Policy.PaymentTimeout = 20 * time.Second
	}
	if d.Policy.DownPaymentRate <= 0 {
		d.Policy.DownPaymentRate = bookingdomain.DefaultDownPaymentRate
	}
	if d.Policy.HoldWindow <= 0 {
		d.Policy.HoldWindow = 15 * time.Minute
	}
	if d.Policy.RefundPolicy == "" {
		d.Policy.RefundPolicy = bookingdomain.RefundFull
	}
	return d
}
