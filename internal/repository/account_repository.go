package repository

import (
	"context"
	"time"

	"github.com/fundwell/credit-engine/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const accountColumns = `
	id, customer_id, approved_amount, interest_rate, factor_rate,
	payment_frequency, payment_amount, term_months,
	used_amount, available_amount, total_paid, outstanding_balance,
	number_of_payments_made, first_payment_date, maturity_date,
	last_payment_date, next_payment_date, status, notes, created_at, updated_at
`

type accountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.CreditLine) error {
	query := `
		INSERT INTO credit_lines (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	_, err := ext(ctx, r.db).ExecContext(ctx, query,
		account.ID,
		account.CustomerID,
		account.ApprovedAmount,
		account.InterestRate,
		account.FactorRate,
		account.PaymentFrequency,
		account.PaymentAmount,
		account.TermMonths,
		account.UsedAmount,
		account.AvailableAmount,
		account.TotalPaid,
		account.OutstandingBalance,
		account.NumberOfPaymentsMade,
		account.FirstPaymentDate,
		account.MaturityDate,
		account.LastPaymentDate,
		account.NextPaymentDate,
		account.Status,
		account.Notes,
		account.CreatedAt,
		account.UpdatedAt,
	)

	return err
}

func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CreditLine, error) {
	query := `SELECT ` + accountColumns + ` FROM credit_lines WHERE id = $1`

	var account domain.CreditLine
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &account, query, id); err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *accountRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.CreditLine, error) {
	query := `SELECT ` + accountColumns + ` FROM credit_lines WHERE id = $1 FOR UPDATE`

	var account domain.CreditLine
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &account, query, id); err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *accountRepository) GetByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.CreditLine, error) {
	query := `SELECT ` + accountColumns + ` FROM credit_lines WHERE customer_id = $1`

	var account domain.CreditLine
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &account, query, customerID); err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *accountRepository) Update(ctx context.Context, account *domain.CreditLine) error {
	query := `
		UPDATE credit_lines
		SET used_amount = $2, available_amount = $3, total_paid = $4,
		    outstanding_balance = $5, number_of_payments_made = $6,
		    last_payment_date = $7, next_payment_date = $8,
		    status = $9, notes = $10, updated_at = $11
		WHERE id = $1
	`

	_, err := ext(ctx, r.db).ExecContext(ctx, query,
		account.ID,
		account.UsedAmount,
		account.AvailableAmount,
		account.TotalPaid,
		account.OutstandingBalance,
		account.NumberOfPaymentsMade,
		account.LastPaymentDate,
		account.NextPaymentDate,
		account.Status,
		account.Notes,
		time.Now().UTC(),
	)

	return err
}

func (r *accountRepository) UpdateNextPaymentDate(ctx context.Context, id uuid.UUID, next time.Time) error {
	query := `
		UPDATE credit_lines
		SET next_payment_date = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := ext(ctx, r.db).ExecContext(ctx, query, id, next, time.Now().UTC())
	return err
}

func (r *accountRepository) ListActive(ctx context.Context) ([]*domain.CreditLine, error) {
	query := `SELECT ` + accountColumns + ` FROM credit_lines WHERE status = $1 ORDER BY created_at`

	var accounts []*domain.CreditLine
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &accounts, query, domain.AccountStatusActive); err != nil {
		return nil, err
	}

	return accounts, nil
}

func (r *accountRepository) CountDependents(ctx context.Context, id uuid.UUID) (int, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM draw_requests WHERE account_id = $1) +
			(SELECT COUNT(*) FROM audit_events WHERE account_id = $1)
	`

	var count int
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &count, query, id); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM credit_lines WHERE id = $1`

	_, err := ext(ctx, r.db).ExecContext(ctx, query, id)
	return err
}
