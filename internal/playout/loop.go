package playout

import (
	"context"
	"errors"
	"time"

	"carillon/internal/audio"
	"carillon/internal/schedule"
	"carillon/internal/storage"
	logx "carillon/pkg/logx"
)

// Loop is the scheduling engine. Once per minute it snapshots the rule
// store, evaluates every rule independently, and plays each match to
// completion before looking at the next one. Playback is intentionally
// serialized on this goroutine: matches that a long playback pushes past
// their minute are skipped, never queued.
type Loop struct {
	store  *schedule.Store
	lib    audio.Library
	player audio.Player
	clock  Clock
	audit  storage.Store // may be nil
	log    logx.Logger
}

func NewLoop(store *schedule.Store, lib audio.Library, player audio.Player, clock Clock, audit storage.Store, log logx.Logger) *Loop {
	if clock == nil {
		clock = SystemClock{}
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Loop{store: store, lib: lib, player: player, clock: clock, audit: audit, log: log}
}

// Run ticks until ctx is cancelled. It never stops on a bad rule: a rule
// whose sound cannot be resolved or played is reported, removed from the
// store, and the scan continues.
func (l *Loop) Run(ctx context.Context) error {
	l.log.Info("playout loop started")
	for {
		now, err := l.clock.WaitMinute(ctx)
		if err != nil {
			l.log.Info("playout loop stopped")
			return err
		}
		l.tick(ctx, now)
		if err := l.clock.SleepUntilNext(ctx); err != nil {
			l.log.Info("playout loop stopped")
			return err
		}
	}
}

func (l *Loop) tick(ctx context.Context, now time.Time) {
	rules := l.store.Snapshot()

	// Healing deletes shift later positions down; track how many this tick
	// already removed so the next delete still lands on the right rule.
	removed := 0
	for i, r := range rules {
		if !schedule.IsDue(r, now) {
			continue
		}
		pos := i + 1 - removed
		if err := l.playRule(ctx, r, now, pos); err != nil {
			if ctx.Err() != nil {
				return
			}
			l.log.Error("scheduled playout failed; removing rule",
				logx.Int("position", pos),
				logx.String("rule", r.String()),
				logx.Err(err),
			)
			// Best effort: the editor may have already deleted it.
			if derr := l.store.DeleteAt(pos); derr == nil {
				removed++
			} else if !errors.Is(derr, schedule.ErrNotFound) {
				l.log.Warn("rule removal failed", logx.Int("position", pos), logx.Err(derr))
			}
		}
	}
}

func (l *Loop) playRule(ctx context.Context, r schedule.Rule, now time.Time, pos int) error {
	var path string
	if r.Sound.IsStrike() {
		path = l.lib.StrikePath(audio.StrikeHour(now))
	} else {
		path = l.lib.TunePath(string(r.Sound))
	}

	start := time.Now()
	err := l.player.Play(ctx, path)
	l.record(ctx, storage.PlayRecord{
		At:       now,
		Position: pos,
		Sound:    string(r.Sound),
		Path:     path,
		OK:       err == nil,
		Error:    errString(err),
		TookMS:   time.Since(start).Milliseconds(),
	})
	return err
}

func (l *Loop) record(ctx context.Context, rec storage.PlayRecord) {
	if l.audit == nil {
		return
	}
	if err := l.audit.AppendPlay(ctx, rec); err != nil {
		l.log.Warn("audit append failed", logx.Err(err))
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
