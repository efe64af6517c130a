package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fundwell/credit-engine/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const auditColumns = `
	id, action_type, description, actor_user_id, actor_customer_id,
	account_id, draw_request_id, metadata, created_at
`

type auditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) AuditRepository {
	return &auditRepository{db: db}
}

// stampEvent assigns id and creation time when the caller left them zero.
// Timestamps come from the wall clock at append time, so events appended in
// sequence carry increasing created_at values.
func stampEvent(event *domain.AuditEvent) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
}

func (r *auditRepository) Append(ctx context.Context, event *domain.AuditEvent) error {
	stampEvent(event)

	query := `
		INSERT INTO audit_events (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := ext(ctx, r.db).ExecContext(ctx, query,
		event.ID,
		event.ActionType,
		event.Description,
		event.ActorUserID,
		event.ActorCustomerID,
		event.AccountID,
		event.DrawRequestID,
		event.Metadata,
		event.CreatedAt,
	)

	return err
}

func (r *auditRepository) Query(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditEvent, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_events WHERE 1=1`
	args := []interface{}{}

	if filter.ActionType != "" {
		args = append(args, filter.ActionType)
		query += fmt.Sprintf(" AND action_type = $%d", len(args))
	}
	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		query += fmt.Sprintf(" AND account_id = $%d", len(args))
	}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		query += fmt.Sprintf(" AND actor_customer_id = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var events []*domain.AuditEvent
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &events, query, args...); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *auditRepository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	query := `DELETE FROM audit_events WHERE account_id = $1`

	_, err := ext(ctx, r.db).ExecContext(ctx, query, accountID)
	return err
}
