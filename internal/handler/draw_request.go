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

type DrawRequestHandler struct {
	workflow  *service.DrawWorkflowService
	validator *validator.Validate
}

func NewDrawRequestHandler(workflow *service.DrawWorkflowService) *DrawRequestHandler {
	return &DrawRequestHandler{
		workflow:  workflow,
		validator: validator.New(),
	}
}

// Submit handles POST /accounts/{accountId}/draw-requests
func (h *DrawRequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDFromPath(w, r)
	if !ok {
		return
	}

	actor, err := actorFromRequest(r)
	if err != nil {
		response.BadRequest(w, "invalid actor identity", err)
		return
	}

	var req domain.SubmitDrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	request, err := h.workflow.Submit(r.Context(), actor, accountID, req.RequestedAmount, req.Purpose)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, request)
}

// Approve handles POST /draw-requests/{requestId}/approve
func (h *DrawRequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromPath(w, r)
	if !ok {
		return
	}

	actor, err := actorFromRequest(r)
	if err != nil {
		response.BadRequest(w, "invalid actor identity", err)
		return
	}

	request, err := h.workflow.Approve(r.Context(), actor, requestID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, request)
}

// Deny handles POST /draw-requests/{requestId}/deny
func (h *DrawRequestHandler) Deny(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromPath(w, r)
	if !ok {
		return
	}

	actor, err := actorFromRequest(r)
	if err != nil {
		response.BadRequest(w, "invalid actor identity", err)
		return
	}

	var req domain.DenyDrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	request, err := h.workflow.Deny(r.Context(), actor, requestID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, request)
}

// ListPending handles GET /accounts/{accountId}/draw-requests/pending
func (h *DrawRequestHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDFromPath(w, r)
	if !ok {
		return
	}

	requests, err := h.workflow.ListPending(r.Context(), accountID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, requests)
}

func requestIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := mux.Vars(r)["requestId"]
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(w, "invalid draw request id", err)
		return uuid.Nil, false
	}
	return id, true
}
