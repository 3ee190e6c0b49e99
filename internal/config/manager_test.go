package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "config.yaml", `
sounds:
  dir: /var/lib/carillon
  player: mpg123
  player_args: ["-q"]
schedule:
  start_hour: 6
  end_hour: 22
logging:
  level: DEBUG
storage:
  driver: sqlite
  path: ./carillon.db
  busy_timeout: 500ms
  retention_days: 30
`)

	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sounds.Dir != "/var/lib/carillon" {
		t.Fatalf("sounds.dir = %q", cfg.Sounds.Dir)
	}
	if cfg.Schedule.StartHour != 6 || cfg.ScheduleEndHour() != 22 {
		t.Fatalf("hour span = %d-%d", cfg.Schedule.StartHour, cfg.ScheduleEndHour())
	}
	if !cfg.ScheduleDefaultsEnabled() {
		t.Fatal("defaults must be enabled when omitted")
	}
	if !cfg.ConsoleEnabled() {
		t.Fatal("console logging must default to enabled")
	}
	busy, err := cfg.StorageBusyTimeout()
	if err != nil || busy != 500*time.Millisecond {
		t.Fatalf("busy timeout = (%v, %v)", busy, err)
	}
	if cfg.Retention() != 30*24*time.Hour {
		t.Fatalf("retention = %v", cfg.Retention())
	}
}

func TestLoadJSONDefaults(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "config.json", `{"sounds": {"dir": "/s"}}`)

	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ScheduleEndHour() != 23 {
		t.Fatalf("end hour default = %d, want 23", cfg.ScheduleEndHour())
	}
	if cfg.Retention() != 90*24*time.Hour {
		t.Fatalf("retention default = %v", cfg.Retention())
	}
	if cfg.Storage != nil || cfg.Telegram != nil {
		t.Fatal("optional sections must stay nil when omitted")
	}
}

func TestLoadRejects(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		file    string
		body    string
		wantMsg string
	}{
		{
			name:    "unknown key",
			file:    "config.json",
			body:    `{"sounds": {"dir": "/s"}, "speling": true}`,
			wantMsg: "unknown field",
		},
		{
			name:    "missing dir",
			file:    "config.json",
			body:    `{"sounds": {}}`,
			wantMsg: "sounds.dir",
		},
		{
			name:    "bad end hour",
			file:    "config.yaml",
			body:    "sounds:\n  dir: /s\nschedule:\n  end_hour: 24\n",
			wantMsg: "end_hour",
		},
		{
			name:    "inverted span",
			file:    "config.yaml",
			body:    "sounds:\n  dir: /s\nschedule:\n  start_hour: 10\n  end_hour: 9\n",
			wantMsg: "must not exceed",
		},
		{
			name:    "unknown storage driver",
			file:    "config.json",
			body:    `{"sounds": {"dir": "/s"}, "storage": {"driver": "redis", "path": "x"}}`,
			wantMsg: "storage.driver",
		},
		{
			name:    "alerts without telegram",
			file:    "config.json",
			body:    `{"sounds": {"dir": "/s"}, "logging": {"alert": {"enabled": true}}}`,
			wantMsg: "telegram",
		},
		{
			name:    "trailing data",
			file:    "config.json",
			body:    `{"sounds": {"dir": "/s"}}{}`,
			wantMsg: "trailing",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.body)
			_, err := NewManager(path).Load()
			if err == nil {
				t.Fatal("expected load failure")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestSubscribePublish(t *testing.T) {
	t.Parallel()
	m := NewManager("unused")
	ch := m.Subscribe(1)

	cfg := &Config{}
	m.publish(cfg)
	select {
	case got := <-ch:
		if got != cfg {
			t.Fatal("wrong config delivered")
		}
	default:
		t.Fatal("subscriber did not receive the published config")
	}

	// A full buffer drops the stale item, not the newest.
	first, second := &Config{}, &Config{}
	m.publish(first)
	m.publish(second)
	if got := <-ch; got != second {
		t.Fatal("expected the newest config after overflow")
	}

	m.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Fatal("channel must be closed after Unsubscribe")
	}
}
