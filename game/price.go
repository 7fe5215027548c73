package game

import (
	"math"
	"math/rand/v2"

	"coin-market/models"
)

// MinPrice is the floor every price step is clamped to.
const MinPrice = 10

// RandFunc returns a uniform draw in [0, 1).
type RandFunc func() float64

// DefaultRand draws from the global math/rand/v2 source.
func DefaultRand() float64 { return rand.Float64() }

// StepCoins applies one price step to every coin and returns the new list.
// The input slice is not modified.
func StepCoins(coins []models.Coin, rnd RandFunc) []models.Coin {
	if rnd == nil {
		rnd = DefaultRand
	}
	out := make([]models.Coin, len(coins))
	for i, c := range coins {
		out[i] = StepCoin(c, rnd)
	}
	return out
}

// StepCoin moves a single coin. A forced change wins over the random walk
// and is cleared once used.
func StepCoin(c models.Coin, rnd RandFunc) models.Coin {
	next := c.Clone()
	old := c.Price

	var price int64
	if c.ForcedChange != nil {
		price = int64(math.Floor(float64(old) * (1 + *c.ForcedChange/100)))
		next.ForcedChange = nil
	} else {
		u := rnd()*2 - 1
		price = int64(math.Floor(float64(old) * (1 + u*c.Volatility)))
	}
	if price < MinPrice {
		price = MinPrice
	}

	change := 0.0
	if old != 0 {
		change = round2(float64(price-old) / float64(old) * 100)
	}
	next.Price = price
	next.Change = change
	next.Type = directionOf(change)
	next.History = appendHistory(next.History, price)
	return next
}

func directionOf(change float64) string {
	switch {
	case change > 0:
		return models.TypeUp
	case change < 0:
		return models.TypeDown
	default:
		return models.TypeEven
	}
}

func appendHistory(h []int64, price int64) []int64 {
	h = append(h, price)
	if len(h) > HistoryLen {
		h = append([]int64(nil), h[len(h)-HistoryLen:]...)
	}
	return h
}

