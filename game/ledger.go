package game

import (
	"errors"
	"time"

	"coin-market/models"
)

// TradeHistoryLimit caps the per-user trade log.
const TradeHistoryLimit = 100

// TradeDateLayout is the display timestamp stored on trade records.
const TradeDateLayout = "01/02 15:04"

var (
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrInsufficientCash     = errors.New("insufficient cash")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrUnknownSide          = errors.New("side must be buy or sell")
	ErrUnknownCoin          = errors.New("unknown coin")
)

// Execute settles one order against the user's ledger at coin.Price. It
// returns a mutated copy and the record that was prepended to its history;
// on error the user is returned unchanged.
func Execute(u *models.User, coin models.Coin, side string, qty int64, now time.Time, loc *time.Location) (*models.User, models.TradeRecord, error) {
	if qty <= 0 {
		return u, models.TradeRecord{}, ErrInvalidQuantity
	}
	next := u.Clone()
	rec := models.TradeRecord{
		Type:  side,
		Name:  coin.Name,
		Price: coin.Price,
		Qty:   qty,
		Date:  now.In(loc).Format(TradeDateLayout),
	}

	switch side {
	case models.SideBuy:
		// Bound qty by cash before multiplying; the product must not overflow.
		if coin.Price > 0 && qty > next.Cash/coin.Price {
			return u, models.TradeRecord{}, ErrInsufficientCash
		}
		total := qty * coin.Price
		if next.Cash < total {
			return u, models.TradeRecord{}, ErrInsufficientCash
		}
		rec.TotalPrice = total
		h := next.Holdings[coin.ID]
		newQty := h.Qty + qty
		h.AvgPrice = (float64(h.Qty)*h.AvgPrice + float64(total)) / float64(newQty)
		h.Qty = newQty
		next.Holdings[coin.ID] = h
		next.Cash -= total
	case models.SideSell:
		h, ok := next.Holdings[coin.ID]
		if !ok || h.Qty < qty {
			return u, models.TradeRecord{}, ErrInsufficientHoldings
		}
		total := qty * coin.Price
		rec.TotalPrice = total
		cost := float64(qty) * h.AvgPrice
		profit := (float64(coin.Price) - h.AvgPrice) * float64(qty)
		if cost != 0 {
			rec.ProfitRate = round2(profit / cost * 100)
		}
		next.TodayProfit += profit
		h.Qty -= qty
		if h.Qty == 0 {
			h.AvgPrice = 0
		}
		next.Holdings[coin.ID] = h
		next.Cash += total
	default:
		return u, models.TradeRecord{}, ErrUnknownSide
	}

	next.History = append([]models.TradeRecord{rec}, next.History...)
	if len(next.History) > TradeHistoryLimit {
		next.History = next.History[:TradeHistoryLimit]
	}
	return next, rec, nil
}

// IsValidation reports whether err is a rejected order rather than a failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInsufficientCash) ||
		errors.Is(err, ErrInsufficientHoldings) ||
		errors.Is(err, ErrUnknownSide) ||
		errors.Is(err, ErrUnknownCoin)
}
