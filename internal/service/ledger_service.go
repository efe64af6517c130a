package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/fundwell/credit-engine/internal/config"
	"github.com/fundwell/credit-engine/internal/domain"
	"github.com/fundwell/credit-engine/internal/repository"
	customError "github.com/fundwell/credit-engine/pkg/errors"
	"github.com/fundwell/credit-engine/pkg/utils"
)

// LedgerService owns the credit line entity: opening, balance mutation,
// status changes, deletion, and reporting. Balance mutations run under the
// account row lock held by the surrounding transaction; RecordDraw and
// RecordPayment must only be called on an account loaded with
// GetByIDForUpdate.
type LedgerService struct {
	accountRepo repository.AccountRepository
	drawRepo    repository.DrawRequestRepository
	auditRepo   repository.AuditRepository
	tx          repository.Transactor
	redis       *redis.Client
	config      *config.Config
}

func NewLedgerService(
	accountRepo repository.AccountRepository,
	drawRepo repository.DrawRequestRepository,
	auditRepo repository.AuditRepository,
	tx repository.Transactor,
	redisClient *redis.Client,
	cfg *config.Config,
) *LedgerService {
	return &LedgerService{
		accountRepo: accountRepo,
		drawRepo:    drawRepo,
		auditRepo:   auditRepo,
		tx:          tx,
		redis:       redisClient,
		config:      cfg,
	}
}

// Open creates a new credit line for an approved customer. Exactly one of
// interest rate and factor rate must be set. An optional initial draw seeds
// both the used amount and the outstanding balance.
func (s *LedgerService) Open(ctx context.Context, request *domain.OpenAccountRequest) (*domain.CreditLine, error) {
	if (request.InterestRate == nil) == (request.FactorRate == nil) {
		return nil, customError.WrapInvalidTermsConfiguration()
	}
	if request.ApprovedAmount.IsNegative() {
		return nil, customError.WrapInvalidAmount(request.ApprovedAmount)
	}
	if request.InitialDraw.IsNegative() || request.InitialDraw.GreaterThan(request.ApprovedAmount) {
		return nil, customError.WrapInvalidAmount(request.InitialDraw)
	}
	if !domain.ValidFrequency(request.PaymentFrequency) {
		return nil, customError.NewBusinessError(customError.ErrCodeInvalidStatus,
			fmt.Sprintf("Unknown payment frequency %q", request.PaymentFrequency), nil)
	}
	if request.TermMonths < 1 {
		return nil, customError.NewBusinessError(customError.ErrCodeInvalidAmount,
			fmt.Sprintf("Term must be at least one month, got %d", request.TermMonths), customError.ErrInvalidAmount)
	}

	now := time.Now().UTC()
	account := &domain.CreditLine{
		ID:                 uuid.New(),
		CustomerID:         request.CustomerID,
		ApprovedAmount:     request.ApprovedAmount,
		InterestRate:       request.InterestRate,
		FactorRate:         request.FactorRate,
		PaymentFrequency:   request.PaymentFrequency,
		PaymentAmount:      request.PaymentAmount,
		TermMonths:         request.TermMonths,
		UsedAmount:         request.InitialDraw,
		TotalPaid:          decimal.Zero,
		OutstandingBalance: request.InitialDraw,
		FirstPaymentDate:   request.FirstPaymentDate,
		MaturityDate:       request.MaturityDate,
		NextPaymentDate:    request.FirstPaymentDate,
		Status:             domain.AccountStatusActive,
		Notes:              request.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	account.RecalculateAvailable()

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.accountRepo.Create(ctx, account); err != nil {
			return customError.WrapDatabaseError(err)
		}

		event := &domain.AuditEvent{
			ActionType:      domain.ActionAccountOpened,
			Description:     fmt.Sprintf("Credit line of $%s opened for customer %s", account.ApprovedAmount.StringFixed(2), account.CustomerID),
			ActorCustomerID: &account.CustomerID,
			AccountID:       &account.ID,
			Metadata:        domain.EventMetadata{Amount: &account.ApprovedAmount},
		}
		if err := s.auditRepo.Append(ctx, event); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// Get retrieves a credit line, serving cached snapshots when available.
func (s *LedgerService) Get(ctx context.Context, id uuid.UUID) (*domain.CreditLine, error) {
	if cached := s.cacheGet(ctx, id); cached != nil {
		return cached, nil
	}

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapAccountNotFound(id.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	s.cacheSet(ctx, account)
	return account, nil
}

// GetByCustomer retrieves the credit line owned by a customer.
func (s *LedgerService) GetByCustomer(ctx context.Context, customerID uuid.UUID) (*domain.CreditLine, error) {
	account, err := s.accountRepo.GetByCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapAccountNotFound(customerID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return account, nil
}

// RecordDraw increases the used amount after re-validating availability.
// The caller holds the account row lock and the surrounding transaction.
func (s *LedgerService) RecordDraw(ctx context.Context, account *domain.CreditLine, amount decimal.Decimal) error {
	if !account.IsActive() {
		return customError.WrapAccountNotActive(account.ID.String(), account.Status)
	}
	if !amount.IsPositive() {
		return customError.WrapInvalidAmount(amount)
	}

	// Recompute from the locked row, never from a caller snapshot.
	available := account.RecalculateAvailable()
	if amount.GreaterThan(available) {
		return customError.WrapInsufficientCredit(amount, available)
	}

	account.UsedAmount = account.UsedAmount.Add(amount)
	account.OutstandingBalance = account.OutstandingBalance.Add(amount)
	account.RecalculateAvailable()

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// RecordPayment applies a repayment to the locked account. Returns true
// when the payment clears the balance and the account transitions to
// paid_off within the same update.
func (s *LedgerService) RecordPayment(ctx context.Context, account *domain.CreditLine, amount decimal.Decimal, date time.Time) (bool, error) {
	if !account.IsActive() {
		return false, customError.WrapAccountNotActive(account.ID.String(), account.Status)
	}
	if !amount.IsPositive() {
		return false, customError.WrapInvalidAmount(amount)
	}
	if amount.GreaterThan(account.OutstandingBalance) {
		return false, customError.WrapExceedsOutstanding(amount, account.OutstandingBalance)
	}

	account.TotalPaid = account.TotalPaid.Add(amount)
	account.OutstandingBalance = account.OutstandingBalance.Sub(amount)
	account.NumberOfPaymentsMade++
	account.LastPaymentDate = &date

	paidOff := account.OutstandingBalance.IsZero()
	if paidOff {
		account.Status = domain.AccountStatusPaidOff
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return false, customError.WrapDatabaseError(err)
	}
	return paidOff, nil
}

// ChangeStatus moves an account between statuses. Only reviewers may call
// it; paid_off is terminal and may only be entered here as an explicit
// override with a reason.
func (s *LedgerService) ChangeStatus(ctx context.Context, actor domain.Actor, accountID uuid.UUID, newStatus, reason string) (*domain.CreditLine, error) {
	if !domain.CanPerform(actor, domain.OpChangeStatus) {
		return nil, customError.WrapUnauthorized(domain.OpChangeStatus)
	}
	if !domain.ValidStatus(newStatus) {
		return nil, customError.WrapInvalidStatus(newStatus)
	}
	if newStatus == domain.AccountStatusPaidOff && reason == "" {
		return nil, customError.NewBusinessError(customError.ErrCodeInvalidStatus,
			"Entering paid_off by override requires a reason", nil)
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

		if account.Status == domain.AccountStatusPaidOff {
			return customError.WrapAccountNotActive(accountID.String(), account.Status)
		}
		if account.Status == newStatus {
			return nil
		}

		fromStatus := account.Status
		account.Status = newStatus
		if err := s.accountRepo.Update(ctx, account); err != nil {
			return customError.WrapDatabaseError(err)
		}

		event := &domain.AuditEvent{
			ActionType:  domain.ActionStatusChanged,
			Description: fmt.Sprintf("Account %s status changed from %s to %s: %s", accountID, fromStatus, newStatus, reason),
			ActorUserID: actor.UserID,
			AccountID:   &accountID,
			Metadata:    domain.EventMetadata{FromStatus: fromStatus, ToStatus: newStatus, Reason: reason},
		}
		if err := s.auditRepo.Append(ctx, event); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.InvalidateCache(ctx, accountID)
	return account, nil
}

// Delete removes an account. Accounts with draw or audit history are
// refused unless cascade is set, in which case dependents are removed in
// the same transaction and a final administrative event is written against
// the customer.
func (s *LedgerService) Delete(ctx context.Context, actor domain.Actor, accountID uuid.UUID, cascade bool) error {
	if !domain.CanPerform(actor, domain.OpDeleteAccount) {
		return customError.WrapUnauthorized(domain.OpDeleteAccount)
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapAccountNotFound(accountID.String())
			}
			return customError.WrapDatabaseError(err)
		}

		dependents, err := s.accountRepo.CountDependents(ctx, accountID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		if dependents > 0 && !cascade {
			return customError.WrapAccountHasDependents(accountID.String())
		}

		if err := s.drawRepo.DeleteByAccount(ctx, accountID); err != nil {
			return customError.WrapDatabaseError(err)
		}
		if err := s.auditRepo.DeleteByAccount(ctx, accountID); err != nil {
			return customError.WrapDatabaseError(err)
		}
		if err := s.accountRepo.Delete(ctx, accountID); err != nil {
			return customError.WrapDatabaseError(err)
		}

		// Attached to the customer only; the account reference is gone.
		event := &domain.AuditEvent{
			ActionType:      domain.ActionAccountDeleted,
			Description:     fmt.Sprintf("Account %s deleted with %d dependent records cascaded", accountID, dependents),
			ActorUserID:     actor.UserID,
			ActorCustomerID: &account.CustomerID,
		}
		if err := s.auditRepo.Append(ctx, event); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.InvalidateCache(ctx, accountID)
	return nil
}

// ComputeExpectedTotal returns the total expected repayment. Reporting
// only, never an enforced invariant.
func (s *LedgerService) ComputeExpectedTotal(account *domain.CreditLine) decimal.Decimal {
	return utils.ExpectedTotal(account.UsedAmount, account.InterestRate, account.FactorRate, account.TermMonths)
}

// ComputeUtilization returns usedAmount/approvedAmount.
func (s *LedgerService) ComputeUtilization(account *domain.CreditLine) decimal.Decimal {
	return utils.Utilization(account.UsedAmount, account.ApprovedAmount)
}

// AdvancePaymentDates rolls forward the advisory next payment date of
// active accounts whose date has passed. Run by the scheduler; writes only
// the schedule columns so a payment or approval committing between the list
// read and the write is never clobbered. No audit event.
func (s *LedgerService) AdvancePaymentDates(ctx context.Context, now time.Time) (int, error) {
	accounts, err := s.accountRepo.ListActive(ctx)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	advanced := 0
	for _, account := range accounts {
		if account.NextPaymentDate == nil || !account.NextPaymentDate.Before(now) {
			continue
		}

		next := *account.NextPaymentDate
		for next.Before(now) {
			next = utils.NextPaymentDate(next, account.PaymentFrequency)
		}

		if err := s.accountRepo.UpdateNextPaymentDate(ctx, account.ID, next); err != nil {
			return advanced, customError.WrapDatabaseError(err)
		}
		s.InvalidateCache(ctx, account.ID)
		advanced++
	}

	return advanced, nil
}

// InvalidateCache drops the cached snapshot after any mutation.
func (s *LedgerService) InvalidateCache(ctx context.Context, accountID uuid.UUID) {
	if s.redis == nil {
		return
	}
	s.redis.Del(ctx, accountCacheKey(accountID))
}

func accountCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("account:%s", id)
}

func (s *LedgerService) cacheGet(ctx context.Context, id uuid.UUID) *domain.CreditLine {
	if s.redis == nil {
		return nil
	}

	raw, err := s.redis.Get(ctx, accountCacheKey(id)).Bytes()
	if err != nil {
		return nil
	}

	var account domain.CreditLine
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil
	}
	return &account
}

func (s *LedgerService) cacheSet(ctx context.Context, account *domain.CreditLine) {
	if s.redis == nil {
		return
	}

	raw, err := json.Marshal(account)
	if err != nil {
		return
	}

	ttl := 15 * time.Minute
	if s.config != nil && s.config.Cache.AccountTTL > 0 {
		ttl = s.config.Cache.AccountTTL
	}
	s.redis.Set(ctx, accountCacheKey(account.ID), raw, ttl)
}
