package handler

import (
	"errors"
	"net/http"

	customError "github.com/fundwell/credit-engine/pkg/errors"
	"github.com/fundwell/credit-engine/pkg/response"
)

// writeError maps business error codes onto HTTP statuses. Anything that is
// not a BusinessError is treated as a storage failure.
func writeError(w http.ResponseWriter, err error) {
	var bizErr *customError.BusinessError
	if !errors.As(err, &bizErr) {
		response.InternalServerError(w, "internal error", err)
		return
	}

	status := http.StatusInternalServerError
	switch bizErr.Code {
	case customError.ErrCodeAccountNotFound, customError.ErrCodeRequestNotFound:
		status = http.StatusNotFound
	case customError.ErrCodeUnauthorized:
		status = http.StatusForbidden
	case customError.ErrCodeAlreadyProcessed, customError.ErrCodeAccountHasDependents:
		status = http.StatusConflict
	case customError.ErrCodeInvalidAmount, customError.ErrCodeInvalidTermsConfiguration, customError.ErrCodeInvalidStatus:
		status = http.StatusBadRequest
	case customError.ErrCodeAccountNotActive, customError.ErrCodeInsufficientCredit, customError.ErrCodeExceedsOutstanding:
		status = http.StatusUnprocessableEntity
	}

	response.Error(w, status, bizErr.Code, bizErr.Message, bizErr.Err)
}
