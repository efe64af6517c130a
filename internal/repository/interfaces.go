package repository

import (
	"context"
	"time"

	"github.com/fundwell/credit-engine/internal/domain"
	"github.com/google/uuid"
)

// AccountRepository defines the interface for credit line data operations
type AccountRepository interface {
	// Create persists a new credit line
	Create(ctx context.Context, account *domain.CreditLine) error

	// GetByID retrieves a credit line by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CreditLine, error)

	// GetByIDForUpdate retrieves a credit line and holds its row lock for
	// the remainder of the surrounding transaction
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.CreditLine, error)

	// GetByCustomerID retrieves the credit line owned by a customer
	GetByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.CreditLine, error)

	// Update persists balance and status changes
	Update(ctx context.Context, account *domain.CreditLine) error

	// UpdateNextPaymentDate writes only the payment schedule columns so the
	// scheduler never races balance mutations
	UpdateNextPaymentDate(ctx context.Context, id uuid.UUID, next time.Time) error

	// ListActive retrieves all active credit lines
	ListActive(ctx context.Context) ([]*domain.CreditLine, error)

	// CountDependents counts draw requests and audit events referencing the account
	CountDependents(ctx context.Context, id uuid.UUID) (int, error)

	// Delete removes a credit line
	Delete(ctx context.Context, id uuid.UUID) error
}

// DrawRequestRepository defines the interface for draw request data operations
type DrawRequestRepository interface {
	// Create persists a new draw request
	Create(ctx context.Context, request *domain.DrawRequest) error

	// GetByID retrieves a draw request by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DrawRequest, error)

	// GetByIDForUpdate retrieves a draw request and holds its row lock
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.DrawRequest, error)

	// Update persists review outcome fields
	Update(ctx context.Context, request *domain.DrawRequest) error

	// ListPendingByAccount retrieves pending requests for an account, oldest first
	ListPendingByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.DrawRequest, error)

	// DeleteByAccount removes all requests for an account (cascade path)
	DeleteByAccount(ctx context.Context, accountID uuid.UUID) error
}

// AuditRepository defines the interface for the append-only event trail
type AuditRepository interface {
	// Append assigns id and timestamp and inserts the event
	Append(ctx context.Context, event *domain.AuditEvent) error

	// Query retrieves events reverse-chronologically with optional filters
	Query(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditEvent, error)

	// DeleteByAccount removes events attached to an account (cascade path)
	DeleteByAccount(ctx context.Context, accountID uuid.UUID) error
}
