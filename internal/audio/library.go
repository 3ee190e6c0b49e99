// Package audio resolves sound references against the configured library
// directory and plays them through an external player process.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultExt is appended to tune names entered without an extension.
	DefaultExt = ".mp3"

	strikePrefix = "Strike"
	strikeCount  = 12
)

// StrikeHour maps a 24-hour clock hour to the strike count 1..12, with
// twelve strikes at noon and midnight.
func StrikeHour(t time.Time) int {
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	return h
}

// Library locates sound files under a single base directory.
type Library struct {
	dir string
	ext string
}

func NewLibrary(dir, ext string) Library {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		ext = DefaultExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return Library{dir: dir, ext: ext}
}

func (l Library) Dir() string { return l.dir }

// TunePath resolves a user-given tune name, appending the library extension
// when the name carries none. Names are case sensitive.
func (l Library) TunePath(name string) string {
	if !strings.EqualFold(filepath.Ext(name), l.ext) {
		name += l.ext
	}
	return filepath.Join(l.dir, name)
}

// StrikePath resolves one of the twelve numbered strike files.
func (l Library) StrikePath(hour int) string {
	return filepath.Join(l.dir, strikePrefix+strconv.Itoa(hour)+l.ext)
}

// Verify checks that the file at path exists and is readable.
func (l Library) Verify(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("sound file %s: %w", path, err)
	}
	return f.Close()
}

// VerifyStrikes checks that all twelve strike files are present. Striking
// the hour needs the complete set.
func (l Library) VerifyStrikes() error {
	for h := 1; h <= strikeCount; h++ {
		if err := l.Verify(l.StrikePath(h)); err != nil {
			return err
		}
	}
	return nil
}

// VerifyTune checks a user-given tune name for readability.
func (l Library) VerifyTune(name string) error {
	return l.Verify(l.TunePath(name))
}
