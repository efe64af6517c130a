package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/fundwell/credit-engine/internal/domain"
	"github.com/fundwell/credit-engine/internal/service"
	"github.com/fundwell/credit-engine/pkg/response"
)

type AccountHandler struct {
	ledger    *service.LedgerService
	validator *validator.Validate
}

func NewAccountHandler(ledger *service.LedgerService) *AccountHandler {
	return &AccountHandler{
		ledger:    ledger,
		validator: validator.New(),
	}
}

// Open handles POST /accounts
func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req domain.OpenAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	account, err := h.ledger.Open(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, account)
}

// Get handles GET /accounts/{accountId}
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDFromPath(w, r)
	if !ok {
		return
	}

	account, err := h.ledger.Get(r.Context(), accountID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, account)
}

// GetByCustomer handles GET /customers/{customerId}/account
func (h *AccountHandler) GetByCustomer(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["customerId"]
	customerID, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(w, "invalid customer id", err)
		return
	}

	account, err := h.ledger.GetByCustomer(r.Context(), customerID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, account)
}

// ExpectedTotal handles GET /accounts/{accountId}/expected-total
func (h *AccountHandler) ExpectedTotal(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDFromPath(w, r)
	if !ok {
		return
	}

	account, err := h.ledger.Get(r.Context(), accountID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, domain.ExpectedTotalResponse{
		AccountID:     account.ID,
		ExpectedTotal: h.ledger.ComputeExpectedTotal(account),
	})
}

// Utilization handles GET /accounts/{accountId}/utilization
func (h *AccountHandler) Utilization(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDFromPath(w, r)
	if !ok {
		return
	}

	account, err := h.ledger.Get(r.Context(), accountID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, domain.UtilizationResponse{
		AccountID:   account.ID,
		Utilization: h.ledger.ComputeUtilization(account),
	})
}

// ChangeStatus handles POST /accounts/{accountId}/status
func (h *AccountHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDFromPath(w, r)
	if !ok {
		return
	}

	actor, err := actorFromRequest(r)
	if err != nil {
		response.BadRequest(w, "invalid actor identity", err)
		return
	}

	var req domain.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	account, err := h.ledger.ChangeStatus(r.Context(), actor, accountID, req.Status, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, account)
}

// Delete handles DELETE /accounts/{accountId}?cascade=true
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDFromPath(w, r)
	if !ok {
		return
	}

	actor, err := actorFromRequest(r)
	if err != nil {
		response.BadRequest(w, "invalid actor identity", err)
		return
	}

	cascade := r.URL.Query().Get("cascade") == "true"

	if err := h.ledger.Delete(r.Context(), actor, accountID, cascade); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, map[string]string{"deleted": accountID.String()})
}

func accountIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := mux.Vars(r)["accountId"]
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(w, "invalid account id", err)
		return uuid.Nil, false
	}
	return id, true
}
