package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recognized payment methods are free-form; these are the common ones.
const (
	PaymentMethodACH   = "ach"
	PaymentMethodWire  = "wire"
	PaymentMethodCheck = "check"
)

type ApplyPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Date   *time.Time      `json:"date,omitempty"`
	Method string          `json:"method" validate:"required"`
	Notes  string          `json:"notes"`
}
