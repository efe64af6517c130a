package repository

import (
	"context"

	"github.com/fundwell/credit-engine/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const drawRequestColumns = `
	id, account_id, customer_id, requested_amount, purpose, status,
	reviewed_by, reviewed_at, denial_reason, created_at
`

type drawRequestRepository struct {
	db *sqlx.DB
}

func NewDrawRequestRepository(db *sqlx.DB) DrawRequestRepository {
	return &drawRequestRepository{db: db}
}

func (r *drawRequestRepository) Create(ctx context.Context, request *domain.DrawRequest) error {
	query := `
		INSERT INTO draw_requests (` + drawRequestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := ext(ctx, r.db).ExecContext(ctx, query,
		request.ID,
		request.AccountID,
		request.CustomerID,
		request.RequestedAmount,
		request.Purpose,
		request.Status,
		request.ReviewedBy,
		request.ReviewedAt,
		request.DenialReason,
		request.CreatedAt,
	)

	return err
}

func (r *drawRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DrawRequest, error) {
	query := `SELECT ` + drawRequestColumns + ` FROM draw_requests WHERE id = $1`

	var request domain.DrawRequest
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &request, query, id); err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *drawRequestRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.DrawRequest, error) {
	query := `SELECT ` + drawRequestColumns + ` FROM draw_requests WHERE id = $1 FOR UPDATE`

	var request domain.DrawRequest
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &request, query, id); err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *drawRequestRepository) Update(ctx context.Context, request *domain.DrawRequest) error {
	query := `
		UPDATE draw_requests
		SET status = $2, reviewed_by = $3, reviewed_at = $4, denial_reason = $5
		WHERE id = $1
	`

	_, err := ext(ctx, r.db).ExecContext(ctx, query,
		request.ID,
		request.Status,
		request.ReviewedBy,
		request.ReviewedAt,
		request.DenialReason,
	)

	return err
}

func (r *drawRequestRepository) ListPendingByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.DrawRequest, error) {
	query := `
		SELECT ` + drawRequestColumns + `
		FROM draw_requests
		WHERE account_id = $1 AND status = $2
		ORDER BY created_at
	`

	var requests []*domain.DrawRequest
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &requests, query, accountID, domain.DrawRequestStatusPending); err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *drawRequestRepository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	query := `DELETE FROM draw_requests WHERE account_id = $1`

	_, err := ext(ctx, r.db).ExecContext(ctx, query, accountID)
	return err
}
