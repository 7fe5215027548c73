package models

const (
	SideBuy  = "buy"
	SideSell = "sell"
)

type TradeRecord struct {
	Type       string  `json:"type" bson:"type"` // "buy" or "sell"
	Name       string  `json:"name" bson:"name"`
	Price      int64   `json:"price" bson:"price"`
	Qty        int64   `json:"qty" bson:"qty"`
	TotalPrice int64   `json:"totalPrice" bson:"totalPrice"`
	Date       string  `json:"date" bson:"date"`
	ProfitRate float64 `json:"profitRate" bson:"profitRate"`
}
