package v1

import (
	"net/http"
	"time"

	"medimart-backend/internal/domain"
	"medimart-backend/pkg/cache"
	"medimart-backend/pkg/utils"
)

const enumsCacheKey = "system:config:enums"

type ConfigHandler struct {
	cache cache.CacheService
}

func NewConfigHandler(cacheService cache.CacheService) *ConfigHandler {
	return &ConfigHandler{cache: cacheService}
}

// GetEnums serves the status and method vocabularies the storefront renders
// from. The payload never changes at runtime, so it is cached aggressively.
func (h *ConfigHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	if cached, found := h.cache.Get(enumsCacheKey); found {
		utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: cached})
		return
	}

	enums := map[string][]string{
		"orderStatuses":   domain.OrderStatuses,
		"paymentStatuses": domain.PaymentStatuses,
		"paymentMethods":  domain.PaymentMethods,
	}
	h.cache.Set(enumsCacheKey, enums, time.Hour)

	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: enums})
}
