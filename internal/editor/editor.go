// Package editor is the line-oriented operator console: it turns raw input
// into validated schedule mutations. Operators are not technical; every
// rejection says what was wrong and what was expected, and no malformed
// input ever reaches the rule store.
package editor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"carillon/internal/audio"
	"carillon/internal/schedule"
	"carillon/internal/storage"
	logx "carillon/pkg/logx"
)

type Editor struct {
	store *schedule.Store
	lib   audio.Library
	audit storage.Store // may be nil
	in    io.Reader
	out   io.Writer
	log   logx.Logger
}

func New(store *schedule.Store, lib audio.Library, audit storage.Store, in io.Reader, out io.Writer, log logx.Logger) *Editor {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Editor{store: store, lib: lib, audit: audit, in: in, out: out, log: log}
}

// Run serves the console until ctx is cancelled or input ends. Input is
// read on its own goroutine so shutdown never waits on a blocked read.
func (e *Editor) Run(ctx context.Context) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(e.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	writeInstructions(e.out)
	for {
		fmt.Fprintln(e.out)
		writeSchedule(e.out, e.store.Snapshot())
		fmt.Fprint(e.out, "> ")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			e.handle(ctx, strings.TrimRight(line, "\r\n"))
		}
	}
}

func (e *Editor) handle(ctx context.Context, line string) {
	switch strings.TrimSpace(line) {
	case "?":
		writeInstructions(e.out)
		return
	case "":
		return // the loop redisplays the schedule
	case "h", "H":
		e.showHistory(ctx)
		return
	}

	first := strings.Split(line, " ")[0]
	pos, err := strconv.Atoi(first)
	if err != nil {
		fmt.Fprintln(e.out, "Error: Input must begin with a line number")
		return
	}

	// A bare line number deletes that entry.
	if len(strings.Fields(line)) == 1 {
		if err := e.store.DeleteAt(pos); err != nil {
			if errors.Is(err, schedule.ErrNotFound) {
				fmt.Fprintf(e.out, "No line %d to delete\n", pos)
			} else {
				fmt.Fprintf(e.out, "Error: %v\n", err)
			}
			return
		}
		e.log.Info("rule deleted", logx.Int("position", pos))
		return
	}

	entry, err := ParseEntry(line)
	if err != nil {
		fmt.Fprintf(e.out, "Error: %v\n", err)
		return
	}
	if err := e.verifySound(entry.Rule.Sound); err != nil {
		fmt.Fprintf(e.out, "Error: %v - check sPeLLing\n", err)
		return
	}

	e.store.UpsertAt(entry.Position, entry.Rule)
	e.log.Info("rule upserted",
		logx.Int("position", entry.Position),
		logx.String("rule", entry.Rule.String()),
	)
}

// verifySound confirms the referenced files are readable before the rule is
// accepted. Striking needs the complete set of twelve hour files.
func (e *Editor) verifySound(s schedule.SoundRef) error {
	if s.IsStrike() {
		return e.lib.VerifyStrikes()
	}
	return e.lib.VerifyTune(string(s))
}

func (e *Editor) showHistory(ctx context.Context) {
	if e.audit == nil {
		fmt.Fprintln(e.out, "Playout history is not enabled")
		return
	}
	recs, err := e.audit.RecentPlays(ctx, 10)
	if err != nil {
		fmt.Fprintf(e.out, "Error: %v\n", err)
		return
	}
	writeHistory(e.out, recs)
}
