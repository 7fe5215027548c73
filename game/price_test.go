package game

import (
	"testing"

	"coin-market/models"
)

func fixedRand(v float64) RandFunc { return func() float64 { return v } }

func ptr(v float64) *float64 { return &v }

func TestStepCoin_ForcedChange(t *testing.T) {
	c := models.Coin{ID: "c1", Price: 21000, Volatility: 0, ForcedChange: ptr(10), History: []int64{21000}}

	got := StepCoin(c, fixedRand(0.99))

	if got.Price != 23100 {
		t.Errorf("Price = %d, want 23100", got.Price)
	}
	if got.ForcedChange != nil {
		t.Error("ForcedChange should be cleared after use")
	}
	if got.Change != 10 {
		t.Errorf("Change = %v, want 10", got.Change)
	}
	if got.Type != models.TypeUp {
		t.Errorf("Type = %q, want %q", got.Type, models.TypeUp)
	}
	if c.ForcedChange == nil || c.Price != 21000 {
		t.Error("input coin was mutated")
	}
}

func TestStepCoin_RandomWalk(t *testing.T) {
	c := models.Coin{Price: 1000, Volatility: 0.5}

	// rnd 0.75 -> U = 0.5 -> +25%
	up := StepCoin(c, fixedRand(0.75))
	if up.Price != 1250 || up.Type != models.TypeUp || up.Change != 25 {
		t.Errorf("up step = %d %q %v, want 1250 up 25", up.Price, up.Type, up.Change)
	}

	// rnd 0.25 -> U = -0.5 -> -25%
	down := StepCoin(c, fixedRand(0.25))
	if down.Price != 750 || down.Type != models.TypeDown || down.Change != -25 {
		t.Errorf("down step = %d %q %v, want 750 down -25", down.Price, down.Type, down.Change)
	}

	flat := StepCoin(c, fixedRand(0.5))
	if flat.Price != 1000 || flat.Type != models.TypeEven || flat.Change != 0 {
		t.Errorf("flat step = %d %q %v, want 1000 even 0", flat.Price, flat.Type, flat.Change)
	}
}

func TestStepCoin_PriceFloor(t *testing.T) {
	tests := []struct {
		name string
		coin models.Coin
	}{
		{"forced crash", models.Coin{Price: 50, ForcedChange: ptr(-99)}},
		{"forced wipeout", models.Coin{Price: 12, ForcedChange: ptr(-100)}},
		{"random walk at floor", models.Coin{Price: 10, Volatility: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StepCoin(tt.coin, fixedRand(0))
			if got.Price < MinPrice {
				t.Errorf("Price = %d, want >= %d", got.Price, MinPrice)
			}
		})
	}
}

func TestStepCoin_HistoryBound(t *testing.T) {
	c := InitialCoins()[0]
	for i := 0; i < 100; i++ {
		c = StepCoin(c, fixedRand(float64(i%10)/10))
		if len(c.History) > HistoryLen {
			t.Fatalf("step %d: len(History) = %d, want <= %d", i, len(c.History), HistoryLen)
		}
	}
	if last := c.History[len(c.History)-1]; last != c.Price {
		t.Errorf("newest history entry = %d, want current price %d", last, c.Price)
	}
}

func TestStepCoin_HistoryGrowsUntilFull(t *testing.T) {
	c := models.Coin{Price: 100, History: []int64{90, 95}}
	got := StepCoin(c, fixedRand(0.5))
	want := []int64{90, 95, 100}
	if len(got.History) != len(want) {
		t.Fatalf("len(History) = %d, want %d", len(got.History), len(want))
	}
	for i := range want {
		if got.History[i] != want[i] {
			t.Errorf("History[%d] = %d, want %d", i, got.History[i], want[i])
		}
	}
}

func TestStepCoins_LeavesInputUntouched(t *testing.T) {
	in := InitialCoins()
	in[0].ForcedChange = ptr(5)
	out := StepCoins(in, fixedRand(0.9))

	if len(out) != len(in) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(in))
	}
	if in[0].ForcedChange == nil {
		t.Error("input forced change cleared")
	}
	if len(in[1].History) != HistoryLen {
		t.Errorf("input history length changed to %d", len(in[1].History))
	}
}

func TestInitialCoins(t *testing.T) {
	coins := InitialCoins()
	if len(coins) != 10 {
		t.Fatalf("len = %d, want 10", len(coins))
	}
	for _, c := range coins {
		if len(c.History) != HistoryLen {
			t.Errorf("%s: len(History) = %d, want %d", c.ID, len(c.History), HistoryLen)
		}
		if c.History[0] != c.Price || c.Type != models.TypeEven {
			t.Errorf("%s: want flat history at listing price and even type", c.ID)
		}
	}
}
