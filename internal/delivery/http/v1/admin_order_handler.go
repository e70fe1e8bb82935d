package v1

import (
	"net/http"

	"medimart-backend/internal/domain"
	"medimart-backend/internal/usecase"
	"medimart-backend/pkg/utils"

	"github.com/goccy/go-json"
)

type AdminOrderHandler struct {
	orderUC       *usecase.OrderUsecase
	fulfillmentUC *usecase.FulfillmentUsecase
	paymentUC     *usecase.PaymentUsecase
}

func NewAdminOrderHandler(orderUC *usecase.OrderUsecase, fulfillmentUC *usecase.FulfillmentUsecase, paymentUC *usecase.PaymentUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{orderUC: orderUC, fulfillmentUC: fulfillmentUC, paymentUC: paymentUC}
}

func (h *AdminOrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.OrderFilter{
		Page:          utils.ParseInt(query.Get("page"), 1),
		Limit:         utils.ParseInt(query.Get("limit"), 20),
		Status:        query.Get("status"),
		PaymentStatus: query.Get("paymentStatus"),
	}

	orders, total, err := h.orderUC.GetAllOrders(r.Context(), filter)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to fetch orders")
		return
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit > 0 {
		totalPages++
	}

	utils.WriteJSON(w, http.StatusOK, domain.Response{
		Success: true,
		Data:    orders,
		Meta: domain.Pagination{
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalItems: total,
			TotalPages: totalPages,
		},
	})
}

func (h *AdminOrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderUC.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "order not found")
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: order})
}

type updateStatusReq struct {
	Status   string  `json:"status"`
	Location *string `json:"location,omitempty"`
	Remarks  *string `json:"remarks,omitempty"`
}

// UpdateStatus is the admin status-change action. Illegal transitions are
// rejected at this boundary without mutating any state.
func (h *AdminOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		utils.WriteError(w, http.StatusBadRequest, "status is required")
		return
	}

	if err := h.fulfillmentUC.Advance(r.Context(), r.PathValue("id"), req.Status, req.Location, req.Remarks); err != nil {
		writeDomainError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Message: "status updated"})
}

// GetEvents returns the append-only shipment trail for an order.
func (h *AdminOrderHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	view, err := h.fulfillmentUC.GetTracking(r.Context(), r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "order not found")
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: view})
}

// GetPayments lists payment attempts for reconciliation.
func (h *AdminOrderHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	records, err := h.paymentUC.GetAttempts(r.Context(), r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to fetch payment attempts")
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: records})
}
