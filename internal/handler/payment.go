package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fundwell/credit-engine/internal/domain"
	"github.com/fundwell/credit-engine/internal/service"
	"github.com/fundwell/credit-engine/pkg/response"
)

type PaymentHandler struct {
	payments  *service.PaymentService
	validator *validator.Validate
}

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		payments:  payments,
		validator: validator.New(),
	}
}

// Apply handles POST /accounts/{accountId}/payments
func (h *PaymentHandler) Apply(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDFromPath(w, r)
	if !ok {
		return
	}

	actor, err := actorFromRequest(r)
	if err != nil {
		response.BadRequest(w, "invalid actor identity", err)
		return
	}

	var req domain.ApplyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = *req.Date
	}

	account, err := h.payments.Apply(r.Context(), actor, accountID, req.Amount, date, req.Method, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, account)
}
