// Package schedule holds the rule model, the shared rule store, and the
// matcher that decides which rules fire at a given minute.
package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Weekday indexes Sunday=0 through Saturday=6, matching time.Weekday.
type Weekday int

// dayDisabled sits outside 0..6 so a recurring-day check can never match.
// Fixed-date rules carry it in both range fields.
const dayDisabled Weekday = 8

var dayNames = [...]string{"su", "mo", "tu", "we", "th", "fr", "sa"}

// ParseWeekday maps a two-letter day symbol to its index.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range dayNames {
		if s == n {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("day %q must be su, mo, tu, we, th, fr or sa", s)
}

func (d Weekday) String() string {
	if d >= 0 && int(d) < len(dayNames) {
		return dayNames[d]
	}
	return "--"
}

// Date is an exact calendar date. The zero value means "no fixed date".
type Date struct {
	Year  int // full year, e.g. 2021
	Month time.Month
	Day   int
}

func (d Date) IsZero() bool { return d == Date{} }

// Matches reports whether t falls on this calendar date.
func (d Date) Matches(t time.Time) bool {
	y, m, day := t.Date()
	return y == d.Year && m == d.Month && day == d.Day
}

// String renders mm/dd/yy, the format the operator entered.
func (d Date) String() string {
	return fmt.Sprintf("%02d/%02d/%02d", d.Month, d.Day, d.Year%100)
}

// SoundRef names what a rule plays: either the Strike keyword (play the
// hour-count strike sequence for the current hour) or a tune file name.
type SoundRef string

const Strike SoundRef = "Strike"

// IsStrike matches the keyword case-insensitively, as entered input does.
func (s SoundRef) IsStrike() bool { return strings.EqualFold(string(s), string(Strike)) }

func (s SoundRef) String() string { return string(s) }

// Rule is one scheduled playout directive. A rule fires either on an exact
// calendar date or on a recurring weekday range, never both; within the day
// it fires when the hour lies in [StartHour, EndHour] and the minute matches
// exactly. Rules are immutable: edits replace the whole rule at a position.
type Rule struct {
	Date      Date // zero unless this is a fixed-date rule
	StartDay  Weekday
	EndDay    Weekday
	StartHour int
	EndHour   int
	Minute    int
	Sound     SoundRef
}

// NewWeekdayRule builds a recurring rule over an inclusive weekday range.
func NewWeekdayRule(start, end Weekday, startHour, endHour, minute int, sound SoundRef) Rule {
	return Rule{
		StartDay:  start,
		EndDay:    end,
		StartHour: startHour,
		EndHour:   endHour,
		Minute:    minute,
		Sound:     sound,
	}
}

// NewDateRule builds a rule restricted to one exact calendar date. The
// weekday range is parked on the disabled sentinel.
func NewDateRule(date Date, startHour, endHour, minute int, sound SoundRef) Rule {
	return Rule{
		Date:      date,
		StartDay:  dayDisabled,
		EndDay:    dayDisabled,
		StartHour: startHour,
		EndHour:   endHour,
		Minute:    minute,
		Sound:     sound,
	}
}

// Validate checks the invariants the editor must guarantee before a rule
// reaches the store. The store itself never validates.
func (r Rule) Validate() error {
	if r.Date.IsZero() {
		if r.StartDay < 0 || r.StartDay > 6 {
			return fmt.Errorf("start day %d out of range 0..6", r.StartDay)
		}
		if r.EndDay < 0 || r.EndDay > 6 {
			return fmt.Errorf("end day %d out of range 0..6", r.EndDay)
		}
		if r.EndDay < r.StartDay {
			return fmt.Errorf("day range %s-%s wraps past sa; enter two rules instead", r.StartDay, r.EndDay)
		}
	} else if r.StartDay != dayDisabled || r.EndDay != dayDisabled {
		return fmt.Errorf("fixed-date rule must disable the weekday range")
	}
	if r.StartHour < 0 || r.StartHour > 23 {
		return fmt.Errorf("start hour %d must be between 0 and 23", r.StartHour)
	}
	if r.EndHour < 0 || r.EndHour > 23 {
		return fmt.Errorf("end hour %d must be between 0 and 23", r.EndHour)
	}
	if r.Minute < 0 || r.Minute > 59 {
		return fmt.Errorf("minute %d must be between 0 and 59", r.Minute)
	}
	if strings.TrimSpace(string(r.Sound)) == "" {
		return fmt.Errorf("sound name is empty")
	}
	return nil
}

// String renders the rule in the operator entry format:
// date-or-days hour(s) minute tune.
func (r Rule) String() string {
	var b strings.Builder
	if !r.Date.IsZero() {
		b.WriteString(r.Date.String())
	} else {
		b.WriteString(r.StartDay.String())
		if r.EndDay != r.StartDay {
			b.WriteString("-")
			b.WriteString(r.EndDay.String())
		}
	}
	fmt.Fprintf(&b, " %d", r.StartHour)
	if r.EndHour != r.StartHour {
		fmt.Fprintf(&b, "-%d", r.EndHour)
	}
	fmt.Fprintf(&b, " %d %s", r.Minute, r.Sound)
	return b.String()
}
