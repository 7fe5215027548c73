package game

import "coin-market/models"

// HistoryLen is the number of prices kept per coin.
const HistoryLen = 30

// InitialCoins returns the listing set with flat histories, ready to be
// written as a fresh market.
func InitialCoins() []models.Coin {
	listing := []models.Coin{
		{ID: "c1", Name: "Kiwi", Price: 21000, Color: "lime", Icon: "fa-kiwi-bird", Desc: "#fresh #vitamin", Volatility: 0.03},
		{ID: "c2", Name: "Gold Kiwi", Price: 12500, Color: "yellow", Icon: "fa-kiwi-bird", Desc: "#sweet #premium", Volatility: 0.015},
		{ID: "c3", Name: "Black Cat", Price: 8400, Color: "gray", Icon: "fa-cat", Desc: "#chic #aloof", Volatility: 0.04},
		{ID: "c4", Name: "Green Cat", Price: 45000, Color: "emerald", Icon: "fa-cat", Desc: "#otherworld #mystic", Volatility: 0.01},
		{ID: "c5", Name: "Devil", Price: 5200, Color: "red", Icon: "fa-fire", Desc: "#spicy #rampage", Volatility: 0.02},
		{ID: "c6", Name: "Thumbs Up", Price: 3200, Color: "blue", Icon: "fa-thumbs-up", Desc: "#best #like", Volatility: 0.025},
		{ID: "c7", Name: "Acorn", Price: 15600, Color: "orange", Icon: "fa-leaf", Desc: "#autumn #squirrel", Volatility: 0.02},
		{ID: "c8", Name: "Golden Acorn", Price: 980, Color: "amber", Icon: "fa-star", Desc: "#rare #legend", Volatility: 0.08},
		{ID: "c9", Name: "Arctic Fox", Price: 7500, Color: "cyan", Icon: "fa-snowflake", Desc: "#cold #white", Volatility: 0.015},
		{ID: "c10", Name: "Fox", Price: 2200, Color: "orange", Icon: "fa-paw", Desc: "#clever #swift", Volatility: 0.03},
	}
	for i := range listing {
		listing[i].Type = models.TypeEven
		listing[i].History = flatHistory(listing[i].Price)
	}
	return listing
}

func flatHistory(price int64) []int64 {
	h := make([]int64, HistoryLen)
	for i := range h {
		h[i] = price
	}
	return h
}
