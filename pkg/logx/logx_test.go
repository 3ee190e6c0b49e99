package logx

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{" warn ", zerolog.WarnLevel},
		{"WARNING", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in, zerolog.InfoLevel); got != tt.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAlertSinkLevelAndRate(t *testing.T) {
	t.Parallel()
	svc, log := New(Config{
		Level:   "DEBUG",
		Console: false,
		Alert:   AlertConfig{Enabled: true, MinLevel: "WARN", RatePerSec: 1},
	})
	defer svc.Close()

	var got []string
	svc.SetAlertFunc(func(msg string) { got = append(got, msg) })

	log.Info("below threshold")
	log.Warn("first warning")
	log.Warn("rate limited away")

	if len(got) != 1 {
		t.Fatalf("alerts delivered = %d, want 1: %v", len(got), got)
	}
	if !strings.HasPrefix(got[0], "[WARN]") || !strings.Contains(got[0], "first warning") {
		t.Fatalf("unexpected alert payload: %q", got[0])
	}
}

func TestNopLoggerIsSafe(t *testing.T) {
	t.Parallel()
	var zero Logger
	zero.Info("must not panic")
	Nop().With(String("k", "v")).Error("must not panic either")
}
