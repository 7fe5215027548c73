package game

import (
	"testing"
	"time"

	"coin-market/models"
)

func TestReconcile(t *testing.T) {
	kst := Zone(9)
	now := time.Date(2025, 12, 12, 10, 5, 0, 0, kst)
	coins := []models.Coin{{ID: "c1", Price: 1500}, {ID: "c2", Price: 200}}

	tests := []struct {
		name          string
		lastLogin     string
		lastHour      int
		wantYesterday float64
		wantToday     float64
		wantDay       bool
		wantHour      bool
	}{
		{"same day same hour", "2025-12-12", 10, 0, 300, false, false},
		{"same day new hour", "2025-12-12", 9, 0, 300, false, true},
		{"next day", "2025-12-11", 10, 300, 0, true, false},
		{"gap of days", "2025-12-09", 10, 0, 0, true, false},
		{"missing date and new hour", "", 3, 0, 0, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &models.User{
				Cash:            1000,
				Holdings:        map[string]models.Holding{"c1": {Qty: 2, AvgPrice: 1000}, "gone": {Qty: 9}},
				TodayProfit:     300,
				YesterdayProfit: 77,
				LastLoginDate:   tt.lastLogin,
				LastHourChecked: tt.lastHour,
				HourlyAsset:     1,
				TotalAsset:      1,
			}
			r := Reconcile(u, coins, now, kst)

			if r.DayRolled != tt.wantDay || r.HourRolled != tt.wantHour {
				t.Fatalf("rollover = %+v, want day %v hour %v", r, tt.wantDay, tt.wantHour)
			}
			if r.Changed() != (tt.wantDay || tt.wantHour) {
				t.Error("Changed() disagrees with flags")
			}
			if tt.wantDay {
				if u.YesterdayProfit != tt.wantYesterday || u.TodayProfit != tt.wantToday {
					t.Errorf("profits = %v/%v, want %v/%v", u.YesterdayProfit, u.TodayProfit, tt.wantYesterday, tt.wantToday)
				}
				if u.LastLoginDate != "2025-12-12" {
					t.Errorf("LastLoginDate = %q", u.LastLoginDate)
				}
			} else if u.YesterdayProfit != 77 || u.TodayProfit != 300 {
				t.Error("profits changed without a day rollover")
			}
			if tt.wantHour {
				if u.HourlyAsset != 4000 || u.TotalAsset != 4000 || u.LastHourChecked != 10 {
					t.Errorf("assets = %d/%d hour %d, want 4000/4000 hour 10", u.HourlyAsset, u.TotalAsset, u.LastHourChecked)
				}
			} else if u.HourlyAsset != 1 {
				t.Error("asset snapshot changed without an hour rollover")
			}
		})
	}
}

func TestMarkToMarket(t *testing.T) {
	u := &models.User{
		Cash: 500,
		Holdings: map[string]models.Holding{
			"c1": {Qty: 3, AvgPrice: 1},
			"c2": {Qty: 0},
			"x":  {Qty: 100},
		},
	}
	coins := []models.Coin{{ID: "c1", Price: 100}, {ID: "c2", Price: 999}}
	if got := MarkToMarket(u, coins); got != 800 {
		t.Errorf("MarkToMarket = %d, want 800", got)
	}
}
