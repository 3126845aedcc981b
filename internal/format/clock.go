package format

import (
	"fmt"
	"time"
)

// ClockTime returns the zero-padded 24-hour "HH:MM" form of t, used for
// message timestamps.
func ClockTime(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Time12 returns t as "3:04 PM". Midnight and noon render as 12.
func Time12(t time.Time) string {
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	ampm := "AM"
	if t.Hour() >= 12 {
		ampm = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", h, t.Minute(), ampm)
}

// DateTime formats t relative to now: the bare time for today,
// "Yesterday, 3:04 PM" for the previous calendar day, and
// "1/2/2006 3:04 PM" otherwise. Calendar days are taken in now's location.
func DateTime(t, now time.Time) string {
	t = t.In(now.Location())
	if sameDay(t, now) {
		return Time12(t)
	}
	if sameDay(t, now.AddDate(0, 0, -1)) {
		return "Yesterday, " + Time12(t)
	}
	return t.Format("1/2/2006") + " " + Time12(t)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
