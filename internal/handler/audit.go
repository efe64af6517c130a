package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/fundwell/credit-engine/internal/domain"
	"github.com/fundwell/credit-engine/internal/service"
	"github.com/fundwell/credit-engine/pkg/response"
)

type AuditHandler struct {
	audit *service.AuditService
}

func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// Query handles GET /audit-events
func (h *AuditHandler) Query(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.AuditFilter{
		ActionType: q.Get("action_type"),
	}

	if raw := q.Get("account_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "invalid account_id filter", err)
			return
		}
		filter.AccountID = &id
	}

	if raw := q.Get("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "invalid customer_id filter", err)
			return
		}
		filter.CustomerID = &id
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			response.BadRequest(w, "invalid limit", err)
			return
		}
		filter.Limit = limit
	}

	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			response.BadRequest(w, "invalid offset", err)
			return
		}
		filter.Offset = offset
	}

	events, err := h.audit.Query(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, events)
}
