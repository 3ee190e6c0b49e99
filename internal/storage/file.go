package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	logx "carillon/pkg/logx"
)

// fileStore is a dependency-free persistence backend: an append-only JSON
// Lines file. Pruning rewrites the file atomically through a temp file.
type fileStore struct {
	log logx.Logger

	mu   sync.Mutex
	path string
	f    *os.File
}

type playLine struct {
	At       time.Time `json:"at"`
	Position int       `json:"pos"`
	Sound    string    `json:"sound"`
	Path     string    `json:"path"`
	OK       bool      `json:"ok"`
	Error    string    `json:"err,omitempty"`
	TookMS   int64     `json:"took_ms"`
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}
	if filepath.Ext(path) == "" {
		path += ".plays.jsonl"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	return &fileStore{log: log, path: path, f: f}, nil
}

func (s *fileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

func (s *fileStore) AppendPlay(ctx context.Context, rec PlayRecord) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return errors.New("play log closed")
	}
	return json.NewEncoder(s.f).Encode(fromRecord(rec))
}

func (s *fileStore) RecentPlays(ctx context.Context, limit int) ([]PlayRecord, error) {
	_ = ctx
	if limit <= 0 {
		limit = 20
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.readAllLocked()
	if err != nil {
		return nil, err
	}
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	out := make([]PlayRecord, 0, len(lines))
	for _, ln := range lines {
		out = append(out, toRecord(ln))
	}
	return out, nil
}

func (s *fileStore) PrunePlays(ctx context.Context, olderThan time.Time) (int64, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.readAllLocked()
	if err != nil {
		return 0, err
	}
	keep := lines[:0]
	for _, ln := range lines {
		if !ln.At.Before(olderThan) {
			keep = append(keep, ln)
		}
	}
	dropped := int64(len(lines) - len(keep))
	if dropped == 0 {
		return 0, nil
	}

	tmp := s.path + ".tmp"
	tf, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, err
	}
	enc := json.NewEncoder(tf)
	for _, ln := range keep {
		if err := enc.Encode(ln); err != nil {
			_ = tf.Close()
			_ = os.Remove(tmp)
			return 0, err
		}
	}
	if err := tf.Close(); err != nil {
		_ = os.Remove(tmp)
		return 0, err
	}

	// Swap the compacted file in, then reopen the append handle.
	if s.f != nil {
		_ = s.f.Close()
		s.f = nil
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return 0, err
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return dropped, err
	}
	s.f = f
	return dropped, nil
}

func (s *fileStore) readAllLocked() ([]playLine, error) {
	rf, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer rf.Close()

	var out []playLine
	sc := bufio.NewScanner(rf)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var ln playLine
		if err := json.Unmarshal(sc.Bytes(), &ln); err != nil {
			// A torn trailing line (crash mid-write) is dropped, not fatal.
			s.log.Warn("skipping corrupt play log line", logx.Err(err))
			continue
		}
		out = append(out, ln)
	}
	return out, sc.Err()
}

func fromRecord(r PlayRecord) playLine {
	return playLine{At: r.At, Position: r.Position, Sound: r.Sound, Path: r.Path, OK: r.OK, Error: r.Error, TookMS: r.TookMS}
}

func toRecord(l playLine) PlayRecord {
	return PlayRecord{At: l.At, Position: l.Position, Sound: l.Sound, Path: l.Path, OK: l.OK, Error: l.Error, TookMS: l.TookMS}
}
