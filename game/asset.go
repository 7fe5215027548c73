package game

import "coin-market/models"

// MarkToMarket values the user's cash plus every holding at current
// prices. Holdings of coins no longer listed count as zero.
func MarkToMarket(u *models.User, coins []models.Coin) int64 {
	total := u.Cash
	for id, h := range u.Holdings {
		if c, ok := models.FindCoin(coins, id); ok {
			total += h.Qty * c.Price
		}
	}
	return total
}
