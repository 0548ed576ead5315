package payment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/refund"
)

type MercadoPago struct {
	payments mppayment.Client
	refunds  refund.Client
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPago{
		payments: mppayment.NewClient(cfg),
		refunds:  refund.NewClient(cfg),
	}, nil
}

func (m *MercadoPago) Name() string { return "mercadopago" }

func (m *MercadoPago) Capture(ctx context.Context, c Charge) (Receipt, error) {
	req := mppayment.Request{
		TransactionAmount: toMajor(c.Amount),
		Token:             c.Token,
		Description:       c.Description,
		Installments:      1,
		ExternalReference: c.BookingID,
	}
	if c.PayerEmail != "" {
		req.Payer = &mppayment.PayerRequest{Email: c.PayerEmail}
	}

	res, err := m.payments.Create(ctx, req)
	if err != nil {
		return Receipt{}, err
	}

	switch res.Status {
	case "approved":
		return Receipt{Provider: m.Name(), Reference: strconv.Itoa(res.ID)}, nil
	case "rejected", "cancelled":
		return Receipt{}, fmt.Errorf("%w: %s", ErrDeclined, res.StatusDetail)
	default:
		return Receipt{}, fmt.Errorf("mercadopago payment %d left in status %q", res.ID, res.Status)
	}
}

func (m *MercadoPago) Refund(ctx context.Context, r RefundOrder) error {
	id, err := strconv.Atoi(r.Reference)
	if err != nil {
		return fmt.Errorf("invalid mercadopago reference %q", r.Reference)
	}

	if r.Full {
		_, err = m.refunds.Create(ctx, id)
		return err
	}
	_, err = m.refunds.CreatePartialRefund(ctx, id, toMajor(r.Amount))
	return err
}

func toMajor(minor int64) float64 {
	return float64(minor) / 100
}

var _ Processor = (*MercadoPago)(nil)
