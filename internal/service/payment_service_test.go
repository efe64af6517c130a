package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/fundwell/credit-engine/internal/domain"
	customError "github.com/fundwell/credit-engine/pkg/errors"
)

func newTestPayments(accountRepo *MockAccountRepository, auditRepo *MockAuditRepository) *PaymentService {
	ledger := newTestLedger(accountRepo, &MockDrawRequestRepository{}, auditRepo)
	return NewPaymentService(accountRepo, auditRepo, fakeTransactor{}, ledger)
}

func TestApply(t *testing.T) {
	paymentDate := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	t.Run("Success - partial payment", func(t *testing.T) {
		accountRepo := &MockAccountRepository{}
		auditRepo := &MockAuditRepository{}
		payments := newTestPayments(accountRepo, auditRepo)

		account := activeAccount("10000", "6000")
		accountRepo.On("GetByIDForUpdate", mock.Anything, account.ID).Return(account, nil)
		accountRepo.On("Update", mock.Anything, account).Return(nil)
		auditRepo.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.AuditEvent) bool {
			return e.ActionType == domain.ActionPaymentRecorded &&
				e.Metadata.Amount != nil && e.Metadata.Amount.Equal(dec("1500")) &&
				e.Metadata.Method == domain.PaymentMethodACH
		})).Return(nil)

		updated, err := payments.Apply(context.Background(), reviewerActor(), account.ID, dec("1500"), paymentDate, domain.PaymentMethodACH, "")

		assert.NoError(t, err)
		assert.Equal(t, domain.AccountStatusActive, updated.Status)
		assert.True(t, updated.OutstandingBalance.Equal(dec("4500")))
		assert.True(t, updated.TotalPaid.Equal(dec("1500")))
		assert.Equal(t, 1, updated.NumberOfPaymentsMade)
		assert.Equal(t, paymentDate, *updated.LastPaymentDate)
		// Draws are untouched by a payment.
		assert.True(t, updated.UsedAmount.Equal(dec("6000")))
		assert.True(t, updated.AvailableAmount.Equal(dec("4000")))
		accountRepo.AssertExpectations(t)
		auditRepo.AssertExpectations(t)
	})

	t.Run("Success - exact payoff transitions to paid_off once", func(t *testing.T) {
		accountRepo := &MockAccountRepository{}
		auditRepo := &MockAuditRepository{}
		payments := newTestPayments(accountRepo, auditRepo)

		account := activeAccount("10000", "500")
		accountRepo.On("GetByIDForUpdate", mock.Anything, account.ID).Return(account, nil)
		accountRepo.On("Update", mock.Anything, account).Return(nil).Once()
		auditRepo.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.AuditEvent) bool {
			return e.ActionType == domain.ActionPaymentRecorded &&
				e.Metadata.ToStatus == domain.AccountStatusPaidOff
		})).Return(nil).Once()

		updated, err := payments.Apply(context.Background(), reviewerActor(), account.ID, dec("500"), paymentDate, domain.PaymentMethodWire, "final")

		assert.NoError(t, err)
		assert.Equal(t, domain.AccountStatusPaidOff, updated.Status)
		assert.True(t, updated.OutstandingBalance.IsZero())
		assert.True(t, updated.TotalPaid.Equal(dec("500")))

		// The account is no longer active, so a subsequent payment is rejected.
		_, err = payments.Apply(context.Background(), reviewerActor(), account.ID, dec("100"), paymentDate, domain.PaymentMethodWire, "")
		var bizErr *customError.BusinessError
		assert.ErrorAs(t, err, &bizErr)
		assert.Equal(t, customError.ErrCodeAccountNotActive, bizErr.Code)

		accountRepo.AssertExpectations(t)
		auditRepo.AssertExpectations(t)
	})

	t.Run("Failure - overpayment mutates nothing and emits no event", func(t *testing.T) {
		accountRepo := &MockAccountRepository{}
		auditRepo := &MockAuditRepository{}
		payments := newTestPayments(accountRepo, auditRepo)

		account := activeAccount("10000", "300")
		accountRepo.On("GetByIDForUpdate", mock.Anything, account.ID).Return(account, nil)

		_, err := payments.Apply(context.Background(), reviewerActor(), account.ID, dec("301"), paymentDate, domain.PaymentMethodCheck, "")

		var bizErr *customError.BusinessError
		assert.ErrorAs(t, err, &bizErr)
		assert.Equal(t, customError.ErrCodeExceedsOutstanding, bizErr.Code)
		assert.True(t, account.OutstandingBalance.Equal(dec("300")))
		assert.True(t, account.TotalPaid.IsZero())
		assert.Equal(t, 0, account.NumberOfPaymentsMade)
		accountRepo.AssertExpectations(t)
		auditRepo.AssertExpectations(t)
	})

	t.Run("Failure - non-positive amount", func(t *testing.T) {
		payments := newTestPayments(&MockAccountRepository{}, &MockAuditRepository{})

		_, err := payments.Apply(context.Background(), reviewerActor(), uuid.New(), dec("-5"), paymentDate, domain.PaymentMethodACH, "")

		var bizErr *customError.BusinessError
		assert.ErrorAs(t, err, &bizErr)
		assert.Equal(t, customError.ErrCodeInvalidAmount, bizErr.Code)
	})

	t.Run("Failure - customer may not apply payments", func(t *testing.T) {
		payments := newTestPayments(&MockAccountRepository{}, &MockAuditRepository{})

		_, err := payments.Apply(context.Background(), customerActor(), uuid.New(), dec("100"), paymentDate, domain.PaymentMethodACH, "")

		var bizErr *customError.BusinessError
		assert.ErrorAs(t, err, &bizErr)
		assert.Equal(t, customError.ErrCodeUnauthorized, bizErr.Code)
	})
}

func TestAuditTimestampsIncrease(t *testing.T) {
	accountRepo := &MockAccountRepository{}
	auditRepo := &MockAuditRepository{}
	payments := newTestPayments(accountRepo, auditRepo)

	account := activeAccount("10000", "5000")
	accountRepo.On("GetByIDForUpdate", mock.Anything, account.ID).Return(account, nil)
	accountRepo.On("Update", mock.Anything, account).Return(nil)

	var events []*domain.AuditEvent
	auditRepo.On("Append", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		events = append(events, args.Get(1).(*domain.AuditEvent))
	}).Return(nil)

	date := time.Now().UTC()
	_, err := payments.Apply(context.Background(), reviewerActor(), account.ID, dec("1000"), date, domain.PaymentMethodACH, "")
	assert.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = payments.Apply(context.Background(), reviewerActor(), account.ID, dec("1000"), date, domain.PaymentMethodACH, "")
	assert.NoError(t, err)

	assert.Len(t, events, 2)
	assert.False(t, events[0].CreatedAt.IsZero())
	assert.True(t, events[1].CreatedAt.After(events[0].CreatedAt))
}
