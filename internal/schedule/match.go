package schedule

import "time"

// IsDue reports whether r fires at now. It is pure and evaluated once per
// rule per minute tick; it performs no deduplication across calls.
//
// A fixed-date rule must fall on that exact calendar date and the weekday
// range is skipped (its sentinel values could never match anyway). A
// recurring rule must have now's weekday inside [StartDay, EndDay]. Either
// way the hour must lie inside [StartHour, EndHour] and the minute must
// match exactly.
func IsDue(r Rule, now time.Time) bool {
	if !r.Date.IsZero() {
		if !r.Date.Matches(now) {
			return false
		}
	} else {
		wd := Weekday(now.Weekday())
		if r.StartDay < 0 || r.StartDay > 6 || r.EndDay < 0 || r.EndDay > 6 {
			return false
		}
		if wd < r.StartDay || wd > r.EndDay {
			return false
		}
	}
	if h := now.Hour(); h < r.StartHour || h > r.EndHour {
		return false
	}
	return now.Minute() == r.Minute
}
