package v1

import (
	"net/http"

	"medimart-backend/internal/domain"
	"medimart-backend/internal/usecase"
	"medimart-backend/pkg/utils"

	"github.com/goccy/go-json"
)

type AdminConfigHandler struct {
	rateRepo  domain.RateTableRepository
	rateCache *usecase.RateTableCache
}

func NewAdminConfigHandler(rateRepo domain.RateTableRepository, rateCache *usecase.RateTableCache) *AdminConfigHandler {
	return &AdminConfigHandler{rateRepo: rateRepo, rateCache: rateCache}
}

// GetShippingRates returns the persisted table, not the cached copy, so
// admins always see what is actually stored.
func (h *AdminConfigHandler) GetShippingRates(w http.ResponseWriter, r *http.Request) {
	table, err := h.rateRepo.GetRateTable(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to load shipping rates")
		return
	}
	if table == nil {
		table = &domain.RateTable{Regions: map[string][]domain.RateTier{}}
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: table})
}

// UpdateShippingRates replaces the whole table and invalidates the cache
// so the new rates take effect on the next quote.
func (h *AdminConfigHandler) UpdateShippingRates(w http.ResponseWriter, r *http.Request) {
	var table domain.RateTable
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid rate table payload")
		return
	}

	for region, tiers := range table.Regions {
		if !domain.ValidTiers(tiers) {
			utils.WriteError(w, http.StatusBadRequest, "invalid tier list for region "+region)
			return
		}
	}
	if len(table.Default) > 0 && !domain.ValidTiers(table.Default) {
		utils.WriteError(w, http.StatusBadRequest, "invalid default tier list")
		return
	}

	if err := h.rateRepo.SaveRateTable(r.Context(), &table); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to save shipping rates")
		return
	}

	h.rateCache.Invalidate()

	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Message: "shipping rates updated"})
}
