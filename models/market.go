package models

// Document ids inside the system collection.
const (
	MarketDocID  = "market"
	NewsDocID    = "news"
	RankingDocID = "ranking"
)

// Market is the single global market row.
type Market struct {
	Items      []Coin `json:"items" bson:"items"`
	LastSlotID string `json:"lastSlotId" bson:"lastSlotId"`
}

// News is the operator-set ticker message.
type News struct {
	Text string `json:"text" bson:"text"`
}

// Ranking tracks the last date the daily asset snapshot ran.
type Ranking struct {
	LastUpdatedDate string `json:"lastUpdatedDate" bson:"lastUpdatedDate"`
}
