package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DOWN_PAYMENT_RATE", "")
	t.Setenv("HOLD_WINDOW", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DownPaymentRate != 0.30 {
		t.Fatalf("DownPaymentRate = %v", cfg.DownPaymentRate)
	}
	if cfg.HoldWindow != 15*time.Minute {
		t.Fatalf("HoldWindow = %v", cfg.HoldWindow)
	}
	if cfg.Addr() != ":"+cfg.ServerPort {
		t.Fatalf("Addr = %s", cfg.Addr())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DOWN_PAYMENT_RATE", "0.5")
	t.Setenv("HOLD_WINDOW", "5m")
	t.Setenv("REFUND_POLICY", "keep_down_payment")
	t.Setenv("PAYMENT_PROVIDER", "stripe")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DownPaymentRate != 0.5 || cfg.HoldWindow != 5*time.Minute {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.RefundPolicy != "keep_down_payment" || cfg.PaymentProvider != "stripe" {
		t.Fatalf("policy/provider = %s/%s", cfg.RefundPolicy, cfg.PaymentProvider)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		DownPaymentRate:      0.3,
		RefundPolicy:         "full",
		PaymentProvider:      "none",
		HoldWindow:           time.Minute,
		BookingRetryAttempts: 1,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero rate", func(c *Config) { c.DownPaymentRate = 0 }},
		{"rate above one", func(c *Config) { c.DownPaymentRate = 1.5 }},
		{"refund policy", func(c *Config) { c.RefundPolicy = "partial" }},
		{"provider", func(c *Config) { c.PaymentProvider = "paypal" }},
		{"hold window", func(c *Config) { c.HoldWindow = 0 }},
		{"retries", func(c *Config) { c.BookingRetryAttempts = 0 }},
	}
	for _, tt := range cases {
		c := base
		tt.mutate(&c)
		if err := c.Validate(); err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
	}
}
