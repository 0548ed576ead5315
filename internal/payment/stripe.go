package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type Stripe struct {
	api      *client.API
	currency string
}

func NewStripe(secretKey, currency string) *Stripe {
	if currency == "" {
		currency = "php"
	}
	return &Stripe{api: client.New(secretKey, nil), currency: currency}
}

func (s *Stripe) Name() string { return "stripe" }

func (s *Stripe) Capture(ctx context.Context, c Charge) (Receipt, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(c.Amount),
		Currency:      stripe.String(s.currency),
		PaymentMethod: stripe.String(c.Token),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String(c.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	if c.PayerEmail != "" {
		params.ReceiptEmail = stripe.String(c.PayerEmail)
	}
	params.Context = ctx
	params.AddMetadata("booking_id", c.BookingID)

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && se.Type == stripe.ErrorTypeCard {
			return Receipt{}, fmt.Errorf("%w: %s", ErrDeclined, se.Msg)
		}
		return Receipt{}, err
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return Receipt{}, fmt.Errorf("stripe payment intent %s left in status %q", pi.ID, pi.Status)
	}

	return Receipt{Provider: s.Name(), Reference: pi.ID}, nil
}

func (s *Stripe) Refund(ctx context.Context, r RefundOrder) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(r.Reference),
	}
	if !r.Full {
		params.Amount = stripe.Int64(r.Amount)
	}
	params.Context = ctx

	_, err := s.api.Refunds.New(params)
	return err
}

var _ Processor = (*Stripe)(nil)
