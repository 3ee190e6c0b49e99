package schedule

import (
	"testing"
	"time"
)

// 2021-12-25 was a Saturday, 2021-12-26 a Sunday.
func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestIsDueWeekdayRange(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		rule Rule
		now  time.Time
		want bool
	}{
		{
			name: "sunday nine bell",
			rule: NewWeekdayRule(0, 6, 9, 9, 0, "Bell"),
			now:  at(2021, time.December, 26, 9, 0),
			want: true,
		},
		{
			name: "wrong minute",
			rule: NewWeekdayRule(0, 6, 9, 9, 0, "Bell"),
			now:  at(2021, time.December, 26, 9, 1),
			want: false,
		},
		{
			name: "hour below range",
			rule: NewWeekdayRule(0, 6, 9, 17, 0, "Bell"),
			now:  at(2021, time.December, 26, 8, 0),
			want: false,
		},
		{
			name: "hour above range",
			rule: NewWeekdayRule(0, 6, 9, 17, 0, "Bell"),
			now:  at(2021, time.December, 26, 18, 0),
			want: false,
		},
		{
			name: "hour range inclusive bounds",
			rule: NewWeekdayRule(0, 6, 9, 17, 30, "Bell"),
			now:  at(2021, time.December, 26, 17, 30),
			want: true,
		},
		{
			name: "weekday outside range",
			rule: NewWeekdayRule(1, 5, 0, 23, 0, "Bell"), // mo-fr
			now:  at(2021, time.December, 26, 12, 0),     // sunday
			want: false,
		},
		{
			name: "weekday at range start",
			rule: NewWeekdayRule(0, 3, 0, 23, 0, "Bell"),
			now:  at(2021, time.December, 26, 12, 0),
			want: true,
		},
		{
			name: "saturday at range end",
			rule: NewWeekdayRule(3, 6, 0, 23, 0, "Bell"),
			now:  at(2021, time.December, 25, 12, 0),
			want: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDue(tt.rule, tt.now); got != tt.want {
				t.Fatalf("IsDue(%s, %v) = %v, want %v", tt.rule, tt.now, got, tt.want)
			}
		})
	}
}

func TestIsDueFixedDate(t *testing.T) {
	t.Parallel()
	xmas := Date{Year: 2021, Month: time.December, Day: 25}
	rule := NewDateRule(xmas, 0, 23, 0, Strike)

	if !IsDue(rule, at(2021, time.December, 25, 6, 0)) {
		t.Fatal("expected due on the fixed date")
	}
	if IsDue(rule, at(2021, time.December, 26, 6, 0)) {
		t.Fatal("not due the day after the fixed date")
	}
	if IsDue(rule, at(2022, time.December, 25, 6, 0)) {
		t.Fatal("not due the following year")
	}
	if IsDue(rule, at(2021, time.December, 25, 6, 30)) {
		t.Fatal("minute must still match on a fixed date")
	}
}

func TestIsDueDisabledWeekdaySentinel(t *testing.T) {
	t.Parallel()
	// A rule carrying the disabled sentinel without a fixed date can never
	// match, whatever the timestamp.
	r := Rule{StartDay: dayDisabled, EndDay: dayDisabled, StartHour: 0, EndHour: 23, Minute: 0, Sound: "Bell"}
	for d := 25; d <= 31; d++ {
		if IsDue(r, at(2021, time.December, d, 12, 0)) {
			t.Fatalf("sentinel rule matched on day %d", d)
		}
	}
}

func TestRuleValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		rule    Rule
		wantErr bool
	}{
		{name: "ok weekday", rule: NewWeekdayRule(0, 6, 0, 23, 0, "Bell")},
		{name: "ok date", rule: NewDateRule(Date{Year: 2021, Month: 12, Day: 25}, 0, 23, 0, Strike)},
		{name: "wrapped day range", rule: NewWeekdayRule(5, 1, 0, 23, 0, "Bell"), wantErr: true},
		{name: "end hour out of range", rule: NewWeekdayRule(0, 6, 0, 24, 0, "Bell"), wantErr: true},
		{name: "start hour negative", rule: NewWeekdayRule(0, 6, -1, 23, 0, "Bell"), wantErr: true},
		{name: "minute out of range", rule: NewWeekdayRule(0, 6, 0, 23, 60, "Bell"), wantErr: true},
		{name: "empty sound", rule: NewWeekdayRule(0, 6, 0, 23, 0, ""), wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRuleString(t *testing.T) {
	t.Parallel()
	r := NewWeekdayRule(0, 6, 0, 23, 15, "Quarter")
	if got := r.String(); got != "su-sa 0-23 15 Quarter" {
		t.Fatalf("String() = %q", got)
	}
	r = NewDateRule(Date{Year: 2021, Month: time.December, Day: 25}, 6, 6, 0, Strike)
	if got := r.String(); got != "12/25/21 6 0 Strike" {
		t.Fatalf("String() = %q", got)
	}
}
