package v1

import (
	"net/http"

	"medimart-backend/internal/domain"
	"medimart-backend/internal/usecase"
	"medimart-backend/pkg/utils"

	"github.com/goccy/go-json"
)

type PaymentHandler struct {
	paymentUC *usecase.PaymentUsecase
}

func NewPaymentHandler(paymentUC *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{paymentUC: paymentUC}
}

type createIntentReq struct {
	OrderID string `json:"orderId"`
}

// CreateIntent registers a provider-side intent and returns what the
// storefront needs to open the provider UI.
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createIntentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
		utils.WriteError(w, http.StatusBadRequest, "orderId is required")
		return
	}

	intent, err := h.paymentUC.CreateIntent(r.Context(), user.ID, req.OrderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, domain.Response{Success: true, Data: intent})
}

// Callback receives the provider's signed notification. Unauthenticated
// by design (webhooks carry no session); the signature is the proof.
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	var cb domain.PaymentCallback
	if err := json.NewDecoder(r.Body).Decode(&cb); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid callback payload")
		return
	}
	if cb.ProviderOrderID == "" || cb.ProviderPaymentID == "" || cb.Signature == "" {
		utils.WriteError(w, http.StatusBadRequest, "callback is missing required fields")
		return
	}

	record, err := h.paymentUC.Verify(r.Context(), cb)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: record})
}
