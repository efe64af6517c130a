package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DrawRequestStatusPending  = "pending"
	DrawRequestStatusApproved = "approved"
	DrawRequestStatusDenied   = "denied"
)

// DrawRequest is a customer request to draw against a credit line. It is
// created pending, transitions exactly once to approved or denied, and is
// immutable afterwards. Submission does not reserve credit; availability is
// rechecked when a reviewer approves.
type DrawRequest struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	AccountID       uuid.UUID       `json:"account_id" db:"account_id"`
	CustomerID      uuid.UUID       `json:"customer_id" db:"customer_id"`
	RequestedAmount decimal.Decimal `json:"requested_amount" db:"requested_amount"`
	Purpose         string          `json:"purpose" db:"purpose"`
	Status          string          `json:"status" db:"status"`
	ReviewedBy      *uuid.UUID      `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt      *time.Time      `json:"reviewed_at,omitempty" db:"reviewed_at"`
	DenialReason    string          `json:"denial_reason,omitempty" db:"denial_reason"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// IsPending reports whether the request can still be reviewed.
func (r *DrawRequest) IsPending() bool {
	return r.Status == DrawRequestStatusPending
}

type SubmitDrawRequest struct {
	RequestedAmount decimal.Decimal `json:"requested_amount" validate:"required"`
	Purpose         string          `json:"purpose"`
}

type DenyDrawRequest struct {
	Reason string `json:"reason" validate:"required"`
}
