package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundwell/credit-engine/internal/domain"
	"github.com/fundwell/credit-engine/internal/repository"
	customError "github.com/fundwell/credit-engine/pkg/errors"
)

// PaymentService applies repayments to credit lines. Each successful
// application writes exactly one payment_recorded event in the same
// transaction as the balance change; a rejected payment mutates nothing and
// emits nothing.
type PaymentService struct {
	accountRepo repository.AccountRepository
	auditRepo   repository.AuditRepository
	tx          repository.Transactor
	ledger      *LedgerService
}

func NewPaymentService(
	accountRepo repository.AccountRepository,
	auditRepo repository.AuditRepository,
	tx repository.Transactor,
	ledger *LedgerService,
) *PaymentService {
	return &PaymentService{
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		tx:          tx,
		ledger:      ledger,
	}
}

// Apply records a repayment against an account. A payment that clears the
// outstanding balance transitions the account to paid_off in the same
// atomic update.
func (s *PaymentService) Apply(ctx context.Context, actor domain.Actor, accountID uuid.UUID, amount decimal.Decimal, date time.Time, method, notes string) (*domain.CreditLine, error) {
	if !domain.CanPerform(actor, domain.OpApplyPayment) {
		return nil, customError.WrapUnauthorized(domain.OpApplyPayment)
	}
	if !amount.IsPositive() {
		return nil, customError.WrapInvalidAmount(amount)
	}

	var account *domain.CreditLine
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		account, err = s.accountRepo.GetByIDForUpdate(ctx, accountID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapAccountNotFound(accountID.String())
			}
			return customError.WrapDatabaseError(err)
		}

		paidOff, err := s.ledger.RecordPayment(ctx, account, amount, date)
		if err != nil {
			return err
		}

		description := fmt.Sprintf("Payment of $%s recorded for account %s via %s", amount.StringFixed(2), accountID, method)
		metadata := domain.EventMetadata{Amount: &amount, Method: method, Date: &date, Notes: notes}
		if paidOff {
			description += "; account paid off"
			metadata.ToStatus = domain.AccountStatusPaidOff
		}

		event := &domain.AuditEvent{
			ActionType:  domain.ActionPaymentRecorded,
			Description: description,
			ActorUserID: actor.UserID,
			AccountID:   &accountID,
			Metadata:    metadata,
		}
		if err := s.auditRepo.Append(ctx, event); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.ledger.InvalidateCache(ctx, accountID)
	return account, nil
}
