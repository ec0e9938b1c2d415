package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/santhoshgedare/kavyas-inventory/internal/domain"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeInvalidID            = "invalid_id"
	codeInvalidQuantity      = "invalid_quantity"
	codeInvalidTTL           = "invalid_ttl"
	codeInvalidMovementType  = "invalid_movement_type"
	codeMissingRequiredField = "missing_required_field"
	codeProductNotFound      = "product_not_found"
	codeProductExists        = "product_already_exists"
	codeReservationNotFound  = "reservation_not_found"
	codeInsufficientStock    = "insufficient_stock"
	codeReservationNotActive = "reservation_not_active"
	codeReservationExpired   = "reservation_expired"
	codeConcurrencyConflict  = "concurrency_conflict"
	codeInvariantViolation   = "invariant_violation"
	codeForbidden            = "forbidden"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps the service error taxonomy onto HTTP statuses.
// Insufficient stock and invalid-state failures surface as 409 so callers can
// distinguish "sold out" from infrastructure failure.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
	case errors.Is(err, domain.ErrInvalidTTL):
		writeError(w, http.StatusBadRequest, codeInvalidTTL, err.Error())
	case errors.Is(err, domain.ErrInvalidMovementType):
		writeError(w, http.StatusBadRequest, codeInvalidMovementType, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrHolderRequired),
		errors.Is(err, domain.ErrPerformerRequired),
		errors.Is(err, domain.ErrOrderIDRequired),
		errors.Is(err, domain.ErrSKURequired),
		errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, domain.ErrInvalidStock),
		errors.Is(err, domain.ErrInvalidReorderLevel):
		writeError(w, http.StatusBadRequest, codeMissingRequiredField, err.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusNotFound, codeProductNotFound, err.Error())
	case errors.Is(err, domain.ErrReservationNotFound):
		writeError(w, http.StatusNotFound, codeReservationNotFound, err.Error())
	case errors.Is(err, domain.ErrProductExists):
		writeError(w, http.StatusConflict, codeProductExists, err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		writeError(w, http.StatusConflict, codeInsufficientStock, err.Error())
	case errors.Is(err, domain.ErrReservationNotActive):
		writeError(w, http.StatusConflict, codeReservationNotActive, err.Error())
	case errors.Is(err, domain.ErrReservationExpired):
		writeError(w, http.StatusConflict, codeReservationExpired, err.Error())
	case errors.Is(err, domain.ErrConcurrencyConflict):
		writeError(w, http.StatusConflict, codeConcurrencyConflict, err.Error())
	case errors.Is(err, domain.ErrNegativeStock), errors.Is(err, domain.ErrStockBelowReserved):
		writeError(w, http.StatusConflict, codeInvariantViolation, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
