package models

import "time"

type Holding struct {
	Qty      int64   `json:"qty" bson:"qty"`
	AvgPrice float64 `json:"avgPrice" bson:"avgPrice"`
}

type User struct {
	UID                string             `json:"uid" bson:"_id"`
	Nickname           string             `json:"nickname" bson:"nickname"`
	Email              string             `json:"email" bson:"email"`
	Cash               int64              `json:"cash" bson:"cash"`
	Holdings           map[string]Holding `json:"holdings" bson:"holdings"`
	History            []TradeRecord      `json:"history" bson:"history"`
	TotalAsset         int64              `json:"totalAsset" bson:"totalAsset"`
	HourlyAsset        int64              `json:"hourlyAsset" bson:"hourlyAsset"`
	LastHourChecked    int                `json:"lastHourChecked" bson:"lastHourChecked"`
	TodayProfit        float64            `json:"todayProfit" bson:"todayProfit"`
	YesterdayProfit    float64            `json:"yesterdayProfit" bson:"yesterdayProfit"`
	LastLoginDate      string             `json:"lastLoginDate" bson:"lastLoginDate"`
	LastAttendanceDate string             `json:"lastAttendanceDate,omitempty" bson:"lastAttendanceDate,omitempty"`
	LastSupportDate    string             `json:"lastSupportDate,omitempty" bson:"lastSupportDate,omitempty"`
	IsAdmin            bool               `json:"isAdmin" bson:"isAdmin"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	// Version is bumped on every versioned save.
	Version int64 `json:"-" bson:"version"`
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	out := *u
	out.Holdings = make(map[string]Holding, len(u.Holdings))
	for k, v := range u.Holdings {
		out.Holdings[k] = v
	}
	out.History = append([]TradeRecord(nil), u.History...)
	return &out
}

// Account is the identity record behind a user; it never leaves the server.
type Account struct {
	UID          string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	CreatedAt    time.Time `bson:"createdAt"`
}
