package service

import (
	"context"
	"time"

	"github.com/fundwell/credit-engine/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// fakeTransactor runs the function directly; the real transactor only adds
// commit/rollback semantics around it.
type fakeTransactor struct{}

func (fakeTransactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.CreditLine) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CreditLine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditLine), args.Error(1)
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.CreditLine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditLine), args.Error(1)
}

func (m *MockAccountRepository) GetByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.CreditLine, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditLine), args.Error(1)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.CreditLine) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateNextPaymentDate(ctx context.Context, id uuid.UUID, next time.Time) error {
	args := m.Called(ctx, id, next)
	return args.Error(0)
}

func (m *MockAccountRepository) ListActive(ctx context.Context) ([]*domain.CreditLine, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CreditLine), args.Error(1)
}

func (m *MockAccountRepository) CountDependents(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockDrawRequestRepository struct {
	mock.Mock
}

func (m *MockDrawRequestRepository) Create(ctx context.Context, request *domain.DrawRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockDrawRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DrawRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DrawRequest), args.Error(1)
}

func (m *MockDrawRequestRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.DrawRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DrawRequest), args.Error(1)
}

func (m *MockDrawRequestRepository) Update(ctx context.Context, request *domain.DrawRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockDrawRequestRepository) ListPendingByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.DrawRequest, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DrawRequest), args.Error(1)
}

func (m *MockDrawRequestRepository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

type MockAuditRepository struct {
	mock.Mock
}

// Append mirrors the real repository contract: id and timestamp are
// assigned at append time.
func (m *MockAuditRepository) Append(ctx context.Context, event *domain.AuditEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAuditRepository) Query(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditEvent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AuditEvent), args.Error(1)
}

func (m *MockAuditRepository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}
