package utils

import (
	"time"

	"github.com/fundwell/credit-engine/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

// ExpectedTotal calculates the total expected repayment for a credit line.
// Factor-rate lines owe used * factor; interest-rate lines use a simple
// interest approximation over the term. Reporting only, never enforced.
func ExpectedTotal(used decimal.Decimal, interestRate, factorRate *decimal.Decimal, termMonths int) decimal.Decimal {
	if factorRate != nil {
		return used.Mul(*factorRate).Round(2)
	}
	if interestRate == nil {
		return used
	}

	// used * (1 + rate/100 * term/12)
	years := decimal.NewFromInt(int64(termMonths)).Div(monthsInYear)
	multiplier := decimal.NewFromInt(1).Add(interestRate.Div(hundred).Mul(years))
	return used.Mul(multiplier).Round(2)
}

// Utilization calculates used/approved as a fraction. Zero-limit lines
// report zero rather than dividing by zero.
func Utilization(used, approved decimal.Decimal) decimal.Decimal {
	if approved.IsZero() {
		return decimal.Zero
	}
	return used.Div(approved).Round(4)
}

// NextPaymentDate advances a due date by one payment interval.
func NextPaymentDate(from time.Time, frequency string) time.Time {
	switch frequency {
	case domain.PaymentFrequencyDaily:
		return from.AddDate(0, 0, 1)
	case domain.PaymentFrequencyWeekly:
		return from.AddDate(0, 0, 7)
	default:
		return from.AddDate(0, 1, 0)
	}
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
