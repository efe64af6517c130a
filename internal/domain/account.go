package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AccountStatusActive    = "active"
	AccountStatusPaidOff   = "paid_off"
	AccountStatusDefaulted = "defaulted"
	AccountStatusSuspended = "suspended"
)

const (
	PaymentFrequencyDaily   = "daily"
	PaymentFrequencyWeekly  = "weekly"
	PaymentFrequencyMonthly = "monthly"
)

// CreditLine represents a revolving credit line extended to one customer.
// Balance fields are mutated only through the draw workflow and payment
// processor; AvailableAmount is always recomputed from the other two.
type CreditLine struct {
	ID         uuid.UUID `json:"id" db:"id"`
	CustomerID uuid.UUID `json:"customer_id" db:"customer_id"`

	// Terms. Exactly one of InterestRate/FactorRate is set.
	ApprovedAmount   decimal.Decimal  `json:"approved_amount" db:"approved_amount"`
	InterestRate     *decimal.Decimal `json:"interest_rate,omitempty" db:"interest_rate"`
	FactorRate       *decimal.Decimal `json:"factor_rate,omitempty" db:"factor_rate"`
	PaymentFrequency string           `json:"payment_frequency" db:"payment_frequency"`
	PaymentAmount    decimal.Decimal  `json:"payment_amount" db:"payment_amount"`
	TermMonths       int              `json:"term_months" db:"term_months"`

	// Balance state.
	UsedAmount           decimal.Decimal `json:"used_amount" db:"used_amount"`
	AvailableAmount      decimal.Decimal `json:"available_amount" db:"available_amount"`
	TotalPaid            decimal.Decimal `json:"total_paid" db:"total_paid"`
	OutstandingBalance   decimal.Decimal `json:"outstanding_balance" db:"outstanding_balance"`
	NumberOfPaymentsMade int             `json:"number_of_payments_made" db:"number_of_payments_made"`

	// Advisory dates, not enforced by invariants.
	FirstPaymentDate *time.Time `json:"first_payment_date,omitempty" db:"first_payment_date"`
	MaturityDate     *time.Time `json:"maturity_date,omitempty" db:"maturity_date"`
	LastPaymentDate  *time.Time `json:"last_payment_date,omitempty" db:"last_payment_date"`
	NextPaymentDate  *time.Time `json:"next_payment_date,omitempty" db:"next_payment_date"`

	Status    string    `json:"status" db:"status"`
	Notes     string    `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RecalculateAvailable restores the availableAmount = approved - used
// invariant and returns the new value.
func (c *CreditLine) RecalculateAvailable() decimal.Decimal {
	c.AvailableAmount = c.ApprovedAmount.Sub(c.UsedAmount)
	return c.AvailableAmount
}

// IsActive reports whether balance mutations are currently permitted.
func (c *CreditLine) IsActive() bool {
	return c.Status == AccountStatusActive
}

// ValidFrequency reports whether f is a known payment frequency.
func ValidFrequency(f string) bool {
	switch f {
	case PaymentFrequencyDaily, PaymentFrequencyWeekly, PaymentFrequencyMonthly:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known account status.
func ValidStatus(s string) bool {
	switch s {
	case AccountStatusActive, AccountStatusPaidOff, AccountStatusDefaulted, AccountStatusSuspended:
		return true
	}
	return false
}

// DTOs for requests and responses

type OpenAccountRequest struct {
	CustomerID       uuid.UUID        `json:"customer_id" validate:"required"`
	ApprovedAmount   decimal.Decimal  `json:"approved_amount" validate:"required"`
	InterestRate     *decimal.Decimal `json:"interest_rate,omitempty"`
	FactorRate       *decimal.Decimal `json:"factor_rate,omitempty"`
	PaymentFrequency string           `json:"payment_frequency" validate:"required,oneof=daily weekly monthly"`
	PaymentAmount    decimal.Decimal  `json:"payment_amount"`
	TermMonths       int              `json:"term_months" validate:"required,gt=0"`
	InitialDraw      decimal.Decimal  `json:"initial_draw"`
	FirstPaymentDate *time.Time       `json:"first_payment_date,omitempty"`
	MaturityDate     *time.Time       `json:"maturity_date,omitempty"`
	Notes            string           `json:"notes"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active paid_off defaulted suspended"`
	Reason string `json:"reason" validate:"required"`
}

type UtilizationResponse struct {
	AccountID   uuid.UUID       `json:"account_id"`
	Utilization decimal.Decimal `json:"utilization"`
}

type ExpectedTotalResponse struct {
	AccountID     uuid.UUID       `json:"account_id"`
	ExpectedTotal decimal.Decimal `json:"expected_total"`
}
