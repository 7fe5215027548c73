// Package game holds the rules of the coin market: pricing slots, the
// random-walk price step, trade settlement, daily rollover and rankings.
// Nothing in here talks to storage.
package game

import (
	"fmt"
	"time"
)

// SlotMinutes is the width of one pricing interval.
const SlotMinutes = 15

// DateLayout is how calendar dates are persisted on user documents.
const DateLayout = "2006-01-02"

// Zone returns the fixed reference zone used for slot and date ids.
func Zone(offsetHours int) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*60*60)
}

// SlotID names the 15-minute pricing interval containing t, e.g.
// "2025121-1430". Month, day and hour are not zero padded.
func SlotID(t time.Time, loc *time.Location) string {
	k := t.In(loc)
	slot := k.Minute() / SlotMinutes * SlotMinutes
	return fmt.Sprintf("%d%d%d-%d%02d", k.Year(), int(k.Month()), k.Day(), k.Hour(), slot)
}

// DateID names the calendar day containing t, e.g. "2025-12-1".
func DateID(t time.Time, loc *time.Location) string {
	k := t.In(loc)
	return fmt.Sprintf("%d-%d-%d", k.Year(), int(k.Month()), k.Day())
}

// CalendarDate formats t as a persisted calendar date in loc.
func CalendarDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// DaysBetween returns the number of calendar days from the stored date to
// now in loc. ok is false when stored cannot be parsed.
func DaysBetween(stored string, now time.Time, loc *time.Location) (days int, ok bool) {
	last, err := time.ParseInLocation(DateLayout, stored, loc)
	if err != nil {
		return 0, false
	}
	n := now.In(loc)
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	prev := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.UTC)
	return int(today.Sub(prev).Hours() / 24), true
}
