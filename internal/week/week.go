// Package week resolves reporting periods. The team logs measurements once a
// week, anchored to Friday as observed in Japan Standard Time regardless of
// where the server or the member happens to be.
package week

import (
	"fmt"
	"time"
)

// Anchor is the weekday every weekly period resolves to.
const Anchor = time.Friday

var jst = mustLoadJST()

func mustLoadJST() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		// No tzdata available; JST has no DST, a fixed offset is equivalent.
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

// CurrentKey returns the weekly period for "now".
func CurrentKey() PeriodKey {
	return KeyFor(time.Now())
}

// KeyFor maps an instant to its weekly period: the most recent Friday as
// observed in JST. A Friday maps to itself; Saturday through Thursday map
// backwards to the Friday before (Fri=0, Sat=1, ... Thu=6 days back).
func KeyFor(t time.Time) PeriodKey {
	local := t.In(jst)
	offset := (int(local.Weekday()) + 7 - int(Anchor)) % 7
	anchor := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, jst)
	anchor = anchor.AddDate(0, 0, -offset)
	return Weekly(anchor.Year(), anchor.Month(), anchor.Day())
}

// Recent returns count weekly periods starting at the period for t and
// stepping seven days into the past, newest first.
func Recent(t time.Time, count int) []PeriodKey {
	keys := make([]PeriodKey, 0, count)
	cur := KeyFor(t)
	d := time.Date(cur.year, cur.month, cur.day, 0, 0, 0, 0, jst)
	for i := 0; i < count; i++ {
		keys = append(keys, Weekly(d.Year(), d.Month(), d.Day()))
		d = d.AddDate(0, 0, -7)
	}
	return keys
}

var weekdayJP = [7]string{"日", "月", "火", "水", "木", "金", "土"}

// labelFor renders the display form of a weekly key, e.g. "2025/2/7 (金)".
// The stored numbers are treated as a civil date; no timezone conversion.
func labelFor(year int, month time.Month, day int) string {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return fmt.Sprintf("%d/%d/%d (%s)", year, int(month), day, weekdayJP[d.Weekday()])
}
