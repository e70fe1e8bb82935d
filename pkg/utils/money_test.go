package utils

import "testing"

func TestRound2(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{11800, 11800},
		{11799.994, 11799.99},
		{1269.006, 1269.01},
		{0, 0},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Errorf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}

	// rounding an already-rounded value is a no-op
	for _, v := range []float64{12200, 1269.45, 0.01} {
		if Round2(Round2(v)) != Round2(v) {
			t.Errorf("Round2 not idempotent for %v", v)
		}
	}
}

func TestToPaise(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{11800.00, 1180000},
		{11799.99, 1179999},
		{0.1 + 0.2, 30}, // binary drift must not leak into paise
		{0, 0},
	}
	for _, tc := range cases {
		if got := ToPaise(tc.in); got != tc.want {
			t.Errorf("ToPaise(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
