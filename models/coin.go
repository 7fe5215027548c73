package models

// Direction tags for a coin's last price move.
const (
	TypeUp   = "up"
	TypeDown = "down"
	TypeEven = "even"
)

type Coin struct {
	ID         string  `json:"id" bson:"id"`
	Name       string  `json:"name" bson:"name"`
	Price      int64   `json:"price" bson:"price"`
	Change     float64 `json:"change" bson:"change"`
	Type       string  `json:"type" bson:"type"` // "up", "down" or "even"
	Color      string  `json:"color" bson:"color"`
	Icon       string  `json:"icon" bson:"icon"`
	Desc       string  `json:"desc" bson:"desc"`
	Volatility float64 `json:"volatility" bson:"volatility"`
	History    []int64 `json:"history" bson:"history"`
	// ForcedChange is a one-shot percentage applied on the next price step.
	ForcedChange *float64 `json:"forcedChange,omitempty" bson:"forcedChange,omitempty"`
}

// Clone returns a deep copy of the coin.
func (c Coin) Clone() Coin {
	out := c
	out.History = append([]int64(nil), c.History...)
	if c.ForcedChange != nil {
		v := *c.ForcedChange
		out.ForcedChange = &v
	}
	return out
}

// FindCoin returns the coin with the given id.
func FindCoin(coins []Coin, id string) (Coin, bool) {
	for _, c := range coins {
		if c.ID == id {
			return c, true
		}
	}
	return Coin{}, false
}
