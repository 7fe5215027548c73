package game

import (
	"time"

	"coin-market/models"
)

// Rollover reports which checks fired during Reconcile.
type Rollover struct {
	DayRolled  bool
	HourRolled bool
}

// Changed is true when the user document needs to be saved.
func (r Rollover) Changed() bool { return r.DayRolled || r.HourRolled }

// Reconcile applies the day and hour rollover to u in place.
//
// A one-day gap promotes today's profit to yesterday's; a longer gap (or a
// missing last-login date) zeroes it. An hour change snapshots the
// mark-to-market total into both asset fields.
func Reconcile(u *models.User, coins []models.Coin, now time.Time, loc *time.Location) Rollover {
	var r Rollover

	days, ok := DaysBetween(u.LastLoginDate, now, loc)
	if !ok || days > 0 {
		if ok && days == 1 {
			u.YesterdayProfit = u.TodayProfit
		} else {
			u.YesterdayProfit = 0
		}
		u.TodayProfit = 0
		u.LastLoginDate = CalendarDate(now, loc)
		r.DayRolled = true
	}

	hour := now.In(loc).Hour()
	if u.LastHourChecked != hour {
		total := MarkToMarket(u, coins)
		u.HourlyAsset = total
		u.TotalAsset = total
		u.LastHourChecked = hour
		r.HourRolled = true
	}
	return r
}
