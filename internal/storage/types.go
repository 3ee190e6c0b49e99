package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures playout audit storage.
//
// Driver values:
//   - "file": dependency-free JSON Lines backend
//   - "sqlite": SQLite database file
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// PlayRecord is one playout attempt. Keep it compact and schema-stable.
type PlayRecord struct {
	At       time.Time
	Position int
	Sound    string
	Path     string
	OK       bool
	Error    string
	TookMS   int64
}
