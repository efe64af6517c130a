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

// DrawWorkflowService governs the pending -> approved/denied state machine
// of customer draw requests. Submission never reserves credit; availability
// is re-validated at approval time under the account row lock, so several
// requests may be pending against the same line at once.
type DrawWorkflowService struct {
	drawRepo    repository.DrawRequestRepository
	accountRepo repository.AccountRepository
	auditRepo   repository.AuditRepository
	tx          repository.Transactor
	ledger      *LedgerService
}

func NewDrawWorkflowService(
	drawRepo repository.DrawRequestRepository,
	accountRepo repository.AccountRepository,
	auditRepo repository.AuditRepository,
	tx repository.Transactor,
	ledger *LedgerService,
) *DrawWorkflowService {
	return &DrawWorkflowService{
		drawRepo:    drawRepo,
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		tx:          tx,
		ledger:      ledger,
	}
}

// Submit creates a pending draw request against the actor's own active
// account. The availability check happens at review time, not here.
func (s *DrawWorkflowService) Submit(ctx context.Context, actor domain.Actor, accountID uuid.UUID, amount decimal.Decimal, purpose string) (*domain.DrawRequest, error) {
	if !domain.CanPerform(actor, domain.OpSubmitDraw) {
		return nil, customError.WrapUnauthorized(domain.OpSubmitDraw)
	}
	if !amount.IsPositive() {
		return nil, customError.WrapInvalidAmount(amount)
	}

	var request *domain.DrawRequest
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		account, err := s.accountRepo.GetByID(ctx, accountID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapAccountNotFound(accountID.String())
			}
			return customError.WrapDatabaseError(err)
		}
		if *actor.CustomerID != account.CustomerID {
			return customError.WrapUnauthorized(domain.OpSubmitDraw)
		}
		if !account.IsActive() {
			return customError.WrapAccountNotActive(accountID.String(), account.Status)
		}

		request = &domain.DrawRequest{
			ID:              uuid.New(),
			AccountID:       accountID,
			CustomerID:      *actor.CustomerID,
			RequestedAmount: amount,
			Purpose:         purpose,
			Status:          domain.DrawRequestStatusPending,
			CreatedAt:       time.Now().UTC(),
		}
		if err := s.drawRepo.Create(ctx, request); err != nil {
			return customError.WrapDatabaseError(err)
		}

		event := &domain.AuditEvent{
			ActionType:      domain.ActionDrawRequested,
			Description:     fmt.Sprintf("Draw of $%s requested against account %s", amount.StringFixed(2), accountID),
			ActorCustomerID: actor.CustomerID,
			AccountID:       &accountID,
			DrawRequestID:   &request.ID,
			Metadata:        domain.EventMetadata{Amount: &amount, Notes: purpose},
		}
		if err := s.auditRepo.Append(ctx, event); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return request, nil
}

// Approve transitions a pending request to approved and records the draw.
// The availability check runs against the locked account row, not the
// balance seen at submission time.
func (s *DrawWorkflowService) Approve(ctx context.Context, actor domain.Actor, requestID uuid.UUID) (*domain.DrawRequest, error) {
	if !domain.CanPerform(actor, domain.OpReviewDraw) {
		return nil, customError.WrapUnauthorized(domain.OpReviewDraw)
	}

	var request *domain.DrawRequest
	var accountID uuid.UUID
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		request, err = s.drawRepo.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapRequestNotFound(requestID.String())
			}
			return customError.WrapDatabaseError(err)
		}
		if !request.IsPending() {
			return customError.WrapAlreadyProcessed(requestID.String(), request.Status)
		}

		accountID = request.AccountID
		account, err := s.accountRepo.GetByIDForUpdate(ctx, request.AccountID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapAccountNotFound(request.AccountID.String())
			}
			return customError.WrapDatabaseError(err)
		}

		if err := s.ledger.RecordDraw(ctx, account, request.RequestedAmount); err != nil {
			return err
		}

		now := time.Now().UTC()
		request.Status = domain.DrawRequestStatusApproved
		request.ReviewedBy = actor.UserID
		request.ReviewedAt = &now
		if err := s.drawRepo.Update(ctx, request); err != nil {
			return customError.WrapDatabaseError(err)
		}

		event := &domain.AuditEvent{
			ActionType:    domain.ActionDrawApproved,
			Description:   fmt.Sprintf("Draw request %s for $%s approved", requestID, request.RequestedAmount.StringFixed(2)),
			ActorUserID:   actor.UserID,
			AccountID:     &request.AccountID,
			DrawRequestID: &request.ID,
			Metadata:      domain.EventMetadata{Amount: &request.RequestedAmount},
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
	return request, nil
}

// Deny transitions a pending request to denied. No balance mutation.
func (s *DrawWorkflowService) Deny(ctx context.Context, actor domain.Actor, requestID uuid.UUID, reason string) (*domain.DrawRequest, error) {
	if !domain.CanPerform(actor, domain.OpReviewDraw) {
		return nil, customError.WrapUnauthorized(domain.OpReviewDraw)
	}
	if reason == "" {
		reason = "No reason provided"
	}

	var request *domain.DrawRequest
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		request, err = s.drawRepo.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapRequestNotFound(requestID.String())
			}
			return customError.WrapDatabaseError(err)
		}
		if !request.IsPending() {
			return customError.WrapAlreadyProcessed(requestID.String(), request.Status)
		}

		now := time.Now().UTC()
		request.Status = domain.DrawRequestStatusDenied
		request.ReviewedBy = actor.UserID
		request.ReviewedAt = &now
		request.DenialReason = reason
		if err := s.drawRepo.Update(ctx, request); err != nil {
			return customError.WrapDatabaseError(err)
		}

		event := &domain.AuditEvent{
			ActionType:    domain.ActionDrawDenied,
			Description:   fmt.Sprintf("Draw request %s for $%s denied: %s", requestID, request.RequestedAmount.StringFixed(2), reason),
			ActorUserID:   actor.UserID,
			AccountID:     &request.AccountID,
			DrawRequestID: &request.ID,
			Metadata:      domain.EventMetadata{Amount: &request.RequestedAmount, Reason: reason},
		}
		if err := s.auditRepo.Append(ctx, event); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return request, nil
}

// ListPending returns the pending requests for an account, oldest first.
func (s *DrawWorkflowService) ListPending(ctx context.Context, accountID uuid.UUID) ([]*domain.DrawRequest, error) {
	requests, err := s.drawRepo.ListPendingByAccount(ctx, accountID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return requests, nil
}
