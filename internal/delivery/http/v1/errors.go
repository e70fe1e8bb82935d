package v1

import (
	"errors"
	"net/http"

	"medimart-backend/internal/domain"
	"medimart-backend/pkg/utils"
)

// writeDomainError maps the pipeline error taxonomy to HTTP codes.
// Anything unrecognized is a 500 with a generic message.
func writeDomainError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var gatewayErr *domain.GatewayError
	var verificationErr *domain.VerificationError
	var persistenceErr *domain.PersistenceError
	var transitionErr *domain.InvalidTransitionError

	switch {
	case errors.As(err, &validationErr):
		utils.WriteError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &transitionErr):
		utils.WriteError(w, http.StatusConflict, transitionErr.Error())
	case errors.As(err, &verificationErr):
		utils.WriteError(w, http.StatusBadRequest, verificationErr.Error())
	case errors.As(err, &gatewayErr):
		utils.WriteError(w, http.StatusBadGateway, "payment provider unavailable, please retry")
	case errors.As(err, &persistenceErr):
		utils.WriteError(w, http.StatusInternalServerError, "could not save your order, it has not been placed")
	default:
		utils.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
