package payment

import (
	"context"
	"errors"
	"strings"
)

type Method string

const (
	MethodCash    Method = "cash"
	MethodCard    Method = "card"
	MethodEWallet Method = "ewallet"
)

func ParseMethod(s string) (Method, bool) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodCash, MethodCard, MethodEWallet:
		return m, true
	}
	return "", false
}

// Charge is an amount in minor currency units.
type Charge struct {
	BookingID   string
	Method      Method
	Amount      int64
	Token       string
	PayerEmail  string
	Description string
}

type Receipt struct {
	Provider  string
	Reference string
}

type RefundOrder struct {
	Reference string
	Amount    int64
	// Full refunds the whole capture regardless of Amount.
	Full bool
}

// ErrDeclined is a definitive refusal from the processor. Anything else is
// treated as a transport failure.
var ErrDeclined = errors.New("payment declined")

type Processor interface {
	Name() string
	Capture(ctx context.Context, c Charge) (Receipt, error)
	Refund(ctx context.Context, r RefundOrder) error
}

// ErrNoGateway means card or e-wallet was requested but no gateway is
// configured. Such payments are refused, never recorded as manual.
var ErrNoGateway = errors.New("no card/e-wallet gateway configured")

// Router picks a processor per payment method. Cash is always collected at
// the counter; card and e-wallet go through the configured gateway.
type Router struct {
	counter Processor
	gateway Processor
}

// NewRouter accepts a nil gateway: the shop then takes cash only.
func NewRouter(gateway Processor) *Router {
	return &Router{counter: Manual{}, gateway: gateway}
}

func (r *Router) For(m Method) (Processor, error) {
	if m == MethodCash {
		return r.counter, nil
	}
	if r.gateway == nil {
		return nil, ErrNoGateway
	}
	return r.gateway, nil
}

// ByName resolves the processor that captured a ledger row.
func (r *Router) ByName(name string) Processor {
	if r.gateway != nil && name == r.gateway.Name() {
		return r.gateway
	}
	return r.counter
}

// Manual records money taken in person. The reference is whatever the
// cashier supplied, or the booking id.
type Manual struct{}

func (Manual) Name() string { return "manual" }

func (Manual) Capture(_ context.Context, c Charge) (Receipt, error) {
	ref := c.Token
	if ref == "" {
		ref = c.BookingID
	}
	return Receipt{Provider: "manual", Reference: ref}, nil
}

func (Manual) Refund(context.Context, RefundOrder) error { return nil }
