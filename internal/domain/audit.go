package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Action types form a closed vocabulary.
const (
	ActionAccountOpened   = "account_opened"
	ActionDrawRequested   = "draw_requested"
	ActionDrawApproved    = "draw_approved"
	ActionDrawDenied      = "draw_denied"
	ActionPaymentRecorded = "payment_recorded"
	ActionAccountPaidOff  = "account_paid_off"
	ActionStatusChanged   = "status_changed"
	ActionAccountDeleted  = "account_deleted"
)

// EventMetadata is the typed payload attached to an audit event at write
// time. It is stored as jsonb and read back structurally, never re-parsed
// out of the description text.
type EventMetadata struct {
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Method     string           `json:"method,omitempty"`
	Date       *time.Time       `json:"date,omitempty"`
	Reason     string           `json:"reason,omitempty"`
	FromStatus string           `json:"from_status,omitempty"`
	ToStatus   string           `json:"to_status,omitempty"`
	Notes      string           `json:"notes,omitempty"`
}

// IsZero reports whether the metadata carries no payload.
func (m EventMetadata) IsZero() bool {
	return m.Amount == nil && m.Method == "" && m.Date == nil &&
		m.Reason == "" && m.FromStatus == "" && m.ToStatus == "" && m.Notes == ""
}

// Value implements driver.Valuer so metadata persists as jsonb.
func (m EventMetadata) Value() (driver.Value, error) {
	if m.IsZero() {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *EventMetadata) Scan(src interface{}) error {
	if src == nil {
		*m = EventMetadata{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported metadata type %T", src)
	}
	return json.Unmarshal(b, m)
}

// AuditEvent is an append-only record of a balance-affecting action. Events
// are never mutated or deleted once written, except as a cascading
// consequence of deleting the account they reference.
type AuditEvent struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	ActionType      string        `json:"action_type" db:"action_type"`
	Description     string        `json:"description" db:"description"`
	ActorUserID     *uuid.UUID    `json:"actor_user_id,omitempty" db:"actor_user_id"`
	ActorCustomerID *uuid.UUID    `json:"actor_customer_id,omitempty" db:"actor_customer_id"`
	AccountID       *uuid.UUID    `json:"account_id,omitempty" db:"account_id"`
	DrawRequestID   *uuid.UUID    `json:"draw_request_id,omitempty" db:"draw_request_id"`
	Metadata        EventMetadata `json:"metadata,omitempty" db:"metadata"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
}

// AuditFilter narrows an audit query. Zero fields are not applied.
type AuditFilter struct {
	ActionType string
	AccountID  *uuid.UUID
	CustomerID *uuid.UUID
	Limit      int
	Offset     int
}
