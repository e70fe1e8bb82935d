package domain

import "testing"

func fptr(v float64) *float64 { return &v }

func TestValidTiers(t *testing.T) {
	cases := []struct {
		name  string
		tiers []RateTier
		want  bool
	}{
		{"nil", nil, false},
		{"empty", []RateTier{}, false},
		{"single unbounded", []RateTier{{Charge: 100}}, true},
		{"ascending with cap", []RateTier{
			{MaxWeightKg: fptr(2), Charge: 50},
			{MaxWeightKg: fptr(5), Charge: 80},
			{Charge: 120},
		}, true},
		{"no unbounded tier", []RateTier{{MaxWeightKg: fptr(5), Charge: 80}}, false},
		{"unbounded not last", []RateTier{{Charge: 120}, {MaxWeightKg: fptr(5), Charge: 80}}, false},
		{"descending thresholds", []RateTier{
			{MaxWeightKg: fptr(5), Charge: 80},
			{MaxWeightKg: fptr(2), Charge: 50},
			{Charge: 120},
		}, false},
		{"duplicate thresholds", []RateTier{
			{MaxWeightKg: fptr(2), Charge: 50},
			{MaxWeightKg: fptr(2), Charge: 80},
			{Charge: 120},
		}, false},
		{"negative charge", []RateTier{{Charge: -1}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidTiers(tc.tiers); got != tc.want {
				t.Errorf("ValidTiers = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTiersFor(t *testing.T) {
	table := &RateTable{
		Regions: map[string][]RateTier{
			"dhaka": {{Charge: 60}},
			"empty": {},
		},
		Default: []RateTier{{Charge: 150}},
	}

	if tiers := table.TiersFor("dhaka"); len(tiers) != 1 || tiers[0].Charge != 60 {
		t.Errorf("dhaka tiers = %+v", tiers)
	}
	if tiers := table.TiersFor("nowhere"); len(tiers) != 1 || tiers[0].Charge != 150 {
		t.Errorf("fallback tiers = %+v", tiers)
	}
	// an explicitly empty region list also falls back
	if tiers := table.TiersFor("empty"); len(tiers) != 1 || tiers[0].Charge != 150 {
		t.Errorf("empty-region tiers = %+v", tiers)
	}

	var nilTable *RateTable
	if tiers := nilTable.TiersFor("dhaka"); tiers != nil {
		t.Errorf("nil table tiers = %+v", tiers)
	}
}

func TestStatusIndex(t *testing.T) {
	for i, status := range StatusSequence {
		if got := StatusIndex(status); got != i {
			t.Errorf("StatusIndex(%s) = %d, want %d", status, got, i)
		}
	}
	if got := StatusIndex(OrderStatusCancelled); got != -1 {
		t.Errorf("StatusIndex(cancelled) = %d, want -1", got)
	}
	if got := StatusIndex("refunded"); got != -1 {
		t.Errorf("StatusIndex(refunded) = %d, want -1", got)
	}
}
