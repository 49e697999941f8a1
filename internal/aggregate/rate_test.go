package aggregate

import (
	"math"
	"testing"
)

func TestTop3RateDampening(t *testing.T) {
	cases := []struct {
		top3, total int
		want        float64
	}{
		{0, 0, 0},
		{1, 1, 0.5},    // 1/1 halved
		{2, 2, 0.5},    // 2/2 halved
		{0, 2, 0},      // halving a zero rate is a no-op
		{1, 2, 0.25},   // 0.5 halved
		{1, 3, 0.3333}, // no damping at 3 runs
		{3, 3, 1},
		{2, 7, 0.2857},
	}
	for _, c := range cases {
		got := Top3Rate(c.top3, c.total)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("Top3Rate(%d, %d): expected %v, got %v", c.top3, c.total, c.want, got)
		}
	}
}

func TestTop3RateBounds(t *testing.T) {
	for top3 := 0; top3 <= 20; top3++ {
		for total := top3; total <= 20; total++ {
			got := Top3Rate(top3, total)
			if got < 0 || got > 1 {
				t.Fatalf("Top3Rate(%d, %d) = %v out of [0,1]", top3, total, got)
			}
		}
	}
}

func TestTop3RateIdempotent(t *testing.T) {
	a := Top3Rate(2, 2)
	b := Top3Rate(2, 2)
	if a != b {
		t.Fatalf("rate not reproducible: %v vs %v", a, b)
	}
}
