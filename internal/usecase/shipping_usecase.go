package usecase

import (
	"context"
	"math"
	"sync"
	"time"

	"medimart-backend/internal/domain"
	"medimart-backend/pkg/logger"
)

// Dynamic fallback tariff. Applies whenever a table carries no usable
// tiers: a base charge for the first kg, a per-kg step up to a 10 kg
// block, then the block cost repeats. User-facing pricing; the formula is
// reproduced exactly.
const (
	dynamicBaseCharge = 200.0 // first kg
	dynamicPerKgStep  = 100.0 // each additional kg within a block
	dynamicBlockKg    = 10.0
)

// RateTableCache holds the shipping rate table with a TTL. The table is
// fetched lazily, swapped whole (readers never see a half-updated table)
// and replaced by a built-in default when the settings store is down, so
// shipping quotation never hard-fails on a transient outage.
type RateTableCache struct {
	repo domain.RateTableRepository
	ttl  time.Duration
	now  func() time.Time

	mu        sync.RWMutex
	table     *domain.RateTable
	fetchedAt time.Time
}

func NewRateTableCache(repo domain.RateTableRepository, ttl time.Duration) *RateTableCache {
	return &RateTableCache{
		repo: repo,
		ttl:  ttl,
		now:  time.Now,
	}
}

// GetTable returns the cached table if younger than the TTL, fetching
// otherwise. A failed fetch caches the built-in default for one TTL.
func (c *RateTableCache) GetTable(ctx context.Context) *domain.RateTable {
	c.mu.RLock()
	if c.table != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		table := c.table
		c.mu.RUnlock()
		return table
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have refreshed while we waited for the lock.
	if c.table != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.table
	}

	table, err := c.repo.GetRateTable(ctx)
	if err != nil || table == nil {
		if err != nil {
			logger.WithContext(ctx).Warn().Err(err).Msg("Rate table fetch failed, using built-in default")
		}
		table = defaultRateTable()
	}

	c.table = table
	c.fetchedAt = c.now()
	return table
}

// Invalidate clears the cache immediately. Called after an admin updates
// the rates.
func (c *RateTableCache) Invalidate() {
	c.mu.Lock()
	c.table = nil
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}

// defaultRateTable has no tiers, so every quote falls through to the
// dynamic formula.
func defaultRateTable() *domain.RateTable {
	return &domain.RateTable{Regions: map[string][]domain.RateTier{}}
}

// ShippingUsecase quotes shipping charges for carts.
type ShippingUsecase struct {
	rates *RateTableCache
}

func NewShippingUsecase(rates *RateTableCache) *ShippingUsecase {
	return &ShippingUsecase{rates: rates}
}

// Quote returns the charge for a single parcel of the given weight shipped
// to the given region.
func (u *ShippingUsecase) Quote(ctx context.Context, weightKg float64, regionKey string) float64 {
	if weightKg <= 0 {
		return 0
	}

	tiers := u.rates.GetTable(ctx).TiersFor(regionKey)
	if !domain.ValidTiers(tiers) {
		// empty or malformed tier list: fall back, never fall through
		return dynamicCharge(weightKg)
	}

	for _, tier := range tiers {
		if tier.MaxWeightKg == nil || *tier.MaxWeightKg >= weightKg {
			return tier.Charge
		}
	}
	// Unreachable for a valid tier list (the unbounded tier matches all),
	// but a quote must never fall through un-handled.
	return dynamicCharge(weightKg)
}

// QuoteForCart sums per-line quotes times quantities. Empty cart ships
// free.
func (u *ShippingUsecase) QuoteForCart(ctx context.Context, lines []domain.CartLine, regionKey string) float64 {
	var total float64
	for _, line := range lines {
		total += u.Quote(ctx, line.WeightKg, regionKey) * float64(line.Quantity)
	}
	return total
}

// dynamicCharge is the stair-step tariff:
//
//	total = floor(w/block)*blockCost + (rem > 0 ? B + (rem-1)*S : 0)
//
// with blockCost = B + (block-1)*S. Cheaper per-kg inside a block,
// resetting at each 10 kg boundary.
func dynamicCharge(weightKg float64) float64 {
	const blockCost = dynamicBaseCharge + (dynamicBlockKg-1)*dynamicPerKgStep

	blocks := math.Floor(weightKg / dynamicBlockKg)
	remainder := weightKg - blocks*dynamicBlockKg

	total := blocks * blockCost
	if remainder > 0 {
		total += dynamicBaseCharge + (remainder-1)*dynamicPerKgStep
	}
	return total
}
