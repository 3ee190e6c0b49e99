// Package storage keeps the playout audit log: every play attempt with its
// outcome, queryable for the operator console and pruned by housekeeping.
package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	logx "carillon/pkg/logx"
)

// Store is the audit persistence API used by the playout loop, the operator
// console, and housekeeping.
type Store interface {
	AppendPlay(ctx context.Context, rec PlayRecord) error
	RecentPlays(ctx context.Context, limit int) ([]PlayRecord, error)
	PrunePlays(ctx context.Context, olderThan time.Time) (int64, error)
	Close() error
}

// Open initializes the configured store.
// It returns (nil, nil) if storage is disabled.
func Open(cfg Config, log logx.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" || driver == "none" {
		return nil, nil
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	switch driver {
	case "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown storage driver: " + driver)
	}
}
