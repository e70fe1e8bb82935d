package domain

import "context"

// RateTier is one weight threshold with a flat charge. A nil MaxWeightKg
// marks the unbounded top tier (persisted as maxWeightKg: null).
type RateTier struct {
	MaxWeightKg *float64 `json:"maxWeightKg"`
	Charge      float64  `json:"charge"`
}

// RateTable maps region keys to ordered tier lists. Tiers must be sorted
// ascending with exactly one unbounded tier last; a list that breaks that
// rule is treated as "no tiers" and the dynamic formula applies.
type RateTable struct {
	Regions map[string][]RateTier `json:"regions"`
	Default []RateTier            `json:"default"`
}

// TiersFor selects the tier list for a region, falling back to the
// table's default list.
func (t *RateTable) TiersFor(regionKey string) []RateTier {
	if t == nil {
		return nil
	}
	if tiers, ok := t.Regions[regionKey]; ok && len(tiers) > 0 {
		return tiers
	}
	return t.Default
}

// ValidTiers reports whether a tier list is usable: ascending bounded
// tiers, exactly one unbounded tier, and it comes last.
func ValidTiers(tiers []RateTier) bool {
	if len(tiers) == 0 {
		return false
	}
	prev := -1.0
	for i, tier := range tiers {
		if tier.Charge < 0 {
			return false
		}
		if tier.MaxWeightKg == nil {
			return i == len(tiers)-1
		}
		if *tier.MaxWeightKg <= prev {
			return false
		}
		prev = *tier.MaxWeightKg
	}
	// no unbounded tier at all
	return false
}

// RateTableRepository reads and writes the table in the settings store.
type RateTableRepository interface {
	GetRateTable(ctx context.Context) (*RateTable, error)
	SaveRateTable(ctx context.Context, table *RateTable) error
}
