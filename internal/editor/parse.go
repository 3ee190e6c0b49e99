package editor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"carillon/internal/schedule"
)

// Entry is one fully validated operator input line: a 1-based position plus
// the rule to place there.
type Entry struct {
	Position int
	Rule     schedule.Rule
}

// ParseEntry validates a full entry line:
//
//	<line#> <mm/dd/yy | day | day-day> <hour | hour-hour> <minute> <tune>
//
// Fields are single-space separated; the tune may contain spaces. Every
// failure names the field and what was expected so the operator can correct
// it. Nothing reaches the store unvalidated.
func ParseEntry(line string) (Entry, error) {
	fields := strings.Split(line, " ")
	if len(fields) < 5 {
		return Entry{}, fmt.Errorf("enter five items, separated by single space: Line# Day Hour(s) Minute and Tune")
	}

	pos, err := strconv.Atoi(fields[0])
	if err != nil || pos < 1 {
		return Entry{}, fmt.Errorf("input must begin with a line number")
	}

	// The tune is everything after the fourth space, embedded spaces intact.
	tune := strings.SplitN(line, " ", 5)[4]
	if strings.TrimSpace(tune) == "" {
		return Entry{}, fmt.Errorf("tune name is empty")
	}
	sound := schedule.SoundRef(tune)
	if sound.IsStrike() {
		sound = schedule.Strike
	}

	startHour, endHour, err := parseHours(fields[2])
	if err != nil {
		return Entry{}, err
	}
	minute, err := parseMinute(fields[3])
	if err != nil {
		return Entry{}, err
	}

	var rule schedule.Rule
	if strings.Contains(fields[1], "/") {
		date, err := parseDate(fields[1])
		if err != nil {
			return Entry{}, err
		}
		rule = schedule.NewDateRule(date, startHour, endHour, minute, sound)
	} else {
		start, end, err := parseDayRange(fields[1])
		if err != nil {
			return Entry{}, err
		}
		rule = schedule.NewWeekdayRule(start, end, startHour, endHour, minute, sound)
	}

	if err := rule.Validate(); err != nil {
		return Entry{}, err
	}
	return Entry{Position: pos, Rule: rule}, nil
}

func parseDate(s string) (schedule.Date, error) {
	parts := strings.Split(s, "/")
	if len(s) != 8 || len(parts) != 3 {
		return schedule.Date{}, fmt.Errorf("date must be mm/dd/yy")
	}
	month, err1 := strconv.Atoi(parts[0])
	day, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return schedule.Date{}, fmt.Errorf("date must be mm/dd/yy")
	}
	if month < 1 || month > 12 {
		return schedule.Date{}, fmt.Errorf("%d is not a valid month", month)
	}
	if day < 1 || day > 31 {
		return schedule.Date{}, fmt.Errorf("%d is not a valid day", day)
	}
	if year < 21 {
		return schedule.Date{}, fmt.Errorf("%02d is not a valid year", year)
	}
	return schedule.Date{Year: 2000 + year, Month: time.Month(month), Day: day}, nil
}

func parseDayRange(s string) (schedule.Weekday, schedule.Weekday, error) {
	parts := strings.Split(s, "-")
	if len(parts) > 2 {
		return 0, 0, fmt.Errorf("weekday lists are not supported; use multiple entries instead")
	}
	start, err := schedule.ParseWeekday(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end := start
	if len(parts) == 2 {
		if end, err = schedule.ParseWeekday(parts[1]); err != nil {
			return 0, 0, err
		}
	}
	if end < start {
		return 0, 0, fmt.Errorf("day range %s wraps past sa; enter two entries instead", s)
	}
	return start, end, nil
}

func parseHours(s string) (int, int, error) {
	parts := strings.Split(s, "-")
	if len(parts) > 2 {
		return 0, 0, fmt.Errorf("hour range must be start-end")
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("start hour %q must be numeric", parts[0])
	}
	if start < 0 || start > 23 {
		return 0, 0, fmt.Errorf("start hour %d must be between 0 and 23", start)
	}
	end := start
	if len(parts) == 2 {
		if end, err = strconv.Atoi(parts[1]); err != nil {
			return 0, 0, fmt.Errorf("end hour %q must be numeric", parts[1])
		}
		if end < 0 || end > 23 {
			return 0, 0, fmt.Errorf("end hour %d must be between 0 and 23", end)
		}
	}
	return start, end, nil
}

func parseMinute(s string) (int, error) {
	m, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("minute %q must be numeric", s)
	}
	if m < 0 || m > 59 {
		return 0, fmt.Errorf("minute %d must be between 0 and 59", m)
	}
	return m, nil
}
