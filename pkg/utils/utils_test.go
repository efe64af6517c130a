package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fundwell/credit-engine/internal/domain"
)

func dec(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func TestExpectedTotal(t *testing.T) {
	tests := []struct {
		name         string
		used         decimal.Decimal
		interestRate *decimal.Decimal
		factorRate   *decimal.Decimal
		termMonths   int
		expected     decimal.Decimal
	}{
		{
			name:       "factor rate line",
			used:       dec("20000"),
			factorRate: decPtr("1.2"),
			termMonths: 6,
			expected:   dec("24000"), // 20,000 * 1.2
		},
		{
			name:         "simple interest over one year",
			used:         dec("10000"),
			interestRate: decPtr("12"),
			termMonths:   12,
			expected:     dec("11200"), // 10,000 * (1 + 0.12)
		},
		{
			name:         "simple interest over half a year",
			used:         dec("10000"),
			interestRate: decPtr("12"),
			termMonths:   6,
			expected:     dec("10600"), // 10,000 * (1 + 0.12 * 0.5)
		},
		{
			name:       "no pricing mode falls back to used amount",
			used:       dec("5000"),
			termMonths: 12,
			expected:   dec("5000"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExpectedTotal(tt.used, tt.interestRate, tt.factorRate, tt.termMonths)
			assert.True(t, result.Equal(tt.expected),
				"Expected %v, but got %v", tt.expected, result)
		})
	}
}

func TestUtilization(t *testing.T) {
	tests := []struct {
		name     string
		used     decimal.Decimal
		approved decimal.Decimal
		expected decimal.Decimal
	}{
		{
			name:     "sixty percent drawn",
			used:     dec("6000"),
			approved: dec("10000"),
			expected: dec("0.6"),
		},
		{
			name:     "nothing drawn",
			used:     dec("0"),
			approved: dec("10000"),
			expected: dec("0"),
		},
		{
			name:     "zero limit reports zero",
			used:     dec("0"),
			approved: dec("0"),
			expected: dec("0"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Utilization(tt.used, tt.approved)
			assert.True(t, result.Equal(tt.expected),
				"Expected %v, but got %v", tt.expected, result)
		})
	}
}

func TestNextPaymentDate(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, base.AddDate(0, 0, 1), NextPaymentDate(base, domain.PaymentFrequencyDaily))
	assert.Equal(t, base.AddDate(0, 0, 7), NextPaymentDate(base, domain.PaymentFrequencyWeekly))
	assert.Equal(t, base.AddDate(0, 1, 0), NextPaymentDate(base, domain.PaymentFrequencyMonthly))
}
