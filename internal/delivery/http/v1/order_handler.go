package v1

import (
	"net/http"

	"medimart-backend/internal/domain"
	"medimart-backend/internal/usecase"
	"medimart-backend/pkg/utils"

	"github.com/goccy/go-json"
)

type OrderHandler struct {
	orderUC       *usecase.OrderUsecase
	fulfillmentUC *usecase.FulfillmentUsecase
}

func NewOrderHandler(orderUC *usecase.OrderUsecase, fulfillmentUC *usecase.FulfillmentUsecase) *OrderHandler {
	return &OrderHandler{orderUC: orderUC, fulfillmentUC: fulfillmentUC}
}

func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req usecase.CheckoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderUC.Checkout(r.Context(), user.ID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, domain.Response{Success: true, Data: order})
}

func (h *OrderHandler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	orders, err := h.orderUC.GetMyOrders(r.Context(), user.ID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to fetch orders")
		return
	}

	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: orders})
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	order, err := h.orderUC.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil || order.UserID != user.ID {
		utils.WriteError(w, http.StatusNotFound, "order not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: order})
}

// GetTracking serves the polling tracking page. Carrier outages degrade to
// the last known internal status instead of erroring.
func (h *OrderHandler) GetTracking(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	orderID := r.PathValue("id")
	order, err := h.orderUC.GetOrder(r.Context(), orderID)
	if err != nil || (order.UserID != user.ID && user.Role != "admin") {
		utils.WriteError(w, http.StatusNotFound, "order not found")
		return
	}

	view, err := h.fulfillmentUC.GetTracking(r.Context(), orderID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to load tracking")
		return
	}

	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: view})
}
