package audio

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	logx "carillon/pkg/logx"
)

// PlaybackError reports a sound that could not be played: missing file,
// unreadable file, or a player process failure.
type PlaybackError struct {
	Path string
	Err  error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback of %s failed: %v", e.Path, e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }

// Player is the blocking audio collaborator: Play returns only when the
// sound has finished (or failed).
type Player interface {
	Play(ctx context.Context, path string) error
}

// ExecPlayer shells out to an external player binary and waits for it to
// exit. The invocation is command + args + path; default is "mpg123 -q".
type ExecPlayer struct {
	lib     Library
	command string
	args    []string
	log     logx.Logger
}

func NewExecPlayer(lib Library, command string, args []string, log logx.Logger) *ExecPlayer {
	if command == "" {
		command = "mpg123"
		args = []string{"-q"}
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &ExecPlayer{lib: lib, command: command, args: args, log: log}
}

func (p *ExecPlayer) Play(ctx context.Context, path string) error {
	if err := p.lib.Verify(path); err != nil {
		return &PlaybackError{Path: path, Err: err}
	}

	start := time.Now()
	argv := append(append([]string(nil), p.args...), path)
	cmd := exec.CommandContext(ctx, p.command, argv...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return &PlaybackError{Path: path, Err: fmt.Errorf("%s: %w: %s", p.command, err, trimOutput(out))}
	}
	p.log.Debug("played", logx.String("path", path), logx.Duration("took", time.Since(start)))
	return nil
}

func trimOutput(b []byte) string {
	const maxN = 200
	s := string(b)
	if len(s) > maxN {
		s = s[:maxN] + "..."
	}
	return s
}
