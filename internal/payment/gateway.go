package payment

import (
	"fmt"
	"strings"

	"github.com/BruksfildServices01/barbershop-core/internal/config"
)

// NewGateway builds the card/e-wallet processor. "none" returns a nil
// processor: only cash, recorded by staff, is accepted.
func NewGateway(cfg *config.Config) (Processor, error) {
	switch strings.ToLower(cfg.PaymentProvider) {
	case "", "none":
		return nil, nil
	case "mercadopago":
		if cfg.MercadoPagoAccessToken == "" {
			return nil, fmt.Errorf("MERCADOPAGO_ACCESS_TOKEN is required")
		}
		mp, err := NewMercadoPago(cfg.MercadoPagoAccessToken)
		if err != nil {
			return nil, err
		}
		return mp, nil
	case "stripe":
		if cfg.StripeSecretKey == "" {
			return nil, fmt.Errorf("STRIPE_SECRET_KEY is required")
		}
		return NewStripe(cfg.StripeSecretKey, cfg.PaymentCurrency), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.PaymentProvider)
	}
}
