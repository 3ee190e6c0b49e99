package playout

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"carillon/internal/audio"
	"carillon/internal/schedule"
	logx "carillon/pkg/logx"
)

// fakeClock hands out a scripted sequence of minute boundaries, then fails
// WaitMinute so Run returns.
type fakeClock struct {
	times []time.Time
	i     int
}

func (c *fakeClock) WaitMinute(ctx context.Context) (time.Time, error) {
	if c.i >= len(c.times) {
		return time.Time{}, context.Canceled
	}
	now := c.times[c.i]
	c.i++
	return now, nil
}

func (c *fakeClock) SleepUntilNext(ctx context.Context) error { return nil }

type fakePlayer struct {
	played []string
	fail   string // paths containing this substring fail
}

func (p *fakePlayer) Play(ctx context.Context, path string) error {
	p.played = append(p.played, path)
	if p.fail != "" && strings.Contains(path, p.fail) {
		return &audio.PlaybackError{Path: path, Err: errors.New("boom")}
	}
	return nil
}

// 2021-12-26 was a Sunday.
func tick(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func newTestLoop(store *schedule.Store, clock Clock, player audio.Player) *Loop {
	lib := audio.NewLibrary("/sounds", "")
	return NewLoop(store, lib, player, clock, nil, logx.Nop())
}

func TestLoopPlaysDueRule(t *testing.T) {
	t.Parallel()
	store := schedule.NewStore(schedule.NewWeekdayRule(0, 6, 9, 9, 0, "Bell"))
	clock := &fakeClock{times: []time.Time{tick(2021, time.December, 26, 9, 0)}}
	player := &fakePlayer{}

	if err := newTestLoop(store, clock, player).Run(context.Background()); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v", err)
	}
	want := []string{filepath.Join("/sounds", "Bell.mp3")}
	if len(player.played) != 1 || player.played[0] != want[0] {
		t.Fatalf("played %v, want %v", player.played, want)
	}
}

func TestLoopStrikeExpansion(t *testing.T) {
	t.Parallel()
	xmas := schedule.Date{Year: 2021, Month: time.December, Day: 25}
	store := schedule.NewStore(schedule.NewDateRule(xmas, 0, 23, 0, schedule.Strike))
	clock := &fakeClock{times: []time.Time{
		tick(2021, time.December, 25, 6, 0),  // due: six strikes
		tick(2021, time.December, 26, 6, 0),  // wrong date
		tick(2021, time.December, 25, 0, 0),  // due: midnight strikes twelve
		tick(2021, time.December, 25, 13, 0), // due: one o'clock
	}}
	player := &fakePlayer{}

	_ = newTestLoop(store, clock, player).Run(context.Background())

	want := []string{
		filepath.Join("/sounds", "Strike6.mp3"),
		filepath.Join("/sounds", "Strike12.mp3"),
		filepath.Join("/sounds", "Strike1.mp3"),
	}
	if len(player.played) != len(want) {
		t.Fatalf("played %v, want %v", player.played, want)
	}
	for i := range want {
		if player.played[i] != want[i] {
			t.Fatalf("played[%d] = %q, want %q", i, player.played[i], want[i])
		}
	}
}

func TestLoopRemovesFailingRuleAndContinues(t *testing.T) {
	t.Parallel()
	noon := tick(2021, time.December, 26, 12, 0)
	store := schedule.NewStore(
		schedule.NewWeekdayRule(0, 6, 12, 12, 0, "First"),
		schedule.NewWeekdayRule(0, 6, 12, 12, 0, "Second"),
		schedule.NewWeekdayRule(0, 6, 12, 12, 0, "Broken"),
		schedule.NewWeekdayRule(0, 6, 12, 12, 0, "Last"),
	)
	clock := &fakeClock{times: []time.Time{noon, noon.Add(24 * time.Hour)}}
	player := &fakePlayer{fail: "Broken"}

	_ = newTestLoop(store, clock, player).Run(context.Background())

	// The bad rule is gone, everything else survived in order.
	if store.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", store.Len())
	}
	for _, r := range store.Snapshot() {
		if r.Sound == "Broken" {
			t.Fatal("failing rule must have been removed")
		}
	}

	// Both ticks ran: four attempts the first minute, three the second. The
	// rule after the failing one was still evaluated in the same tick.
	if len(player.played) != 7 {
		t.Fatalf("played %d sounds, want 7: %v", len(player.played), player.played)
	}
	if !strings.Contains(player.played[3], "Last") {
		t.Fatalf("rule after the failing one was skipped: %v", player.played)
	}
}

func TestLoopSameTickDeleteAdjustsPositions(t *testing.T) {
	t.Parallel()
	noon := tick(2021, time.December, 26, 12, 0)
	store := schedule.NewStore(
		schedule.NewWeekdayRule(0, 6, 12, 12, 0, "BrokenA"),
		schedule.NewWeekdayRule(0, 6, 12, 12, 0, "Keep"),
		schedule.NewWeekdayRule(0, 6, 12, 12, 0, "BrokenB"),
	)
	clock := &fakeClock{times: []time.Time{noon}}
	player := &fakePlayer{fail: "Broken"}

	_ = newTestLoop(store, clock, player).Run(context.Background())

	snap := store.Snapshot()
	if len(snap) != 1 || snap[0].Sound != "Keep" {
		t.Fatalf("snapshot after healing = %v, want only Keep", snap)
	}
}

func TestLoopQuietMinute(t *testing.T) {
	t.Parallel()
	store := schedule.NewStore(schedule.NewWeekdayRule(0, 6, 9, 9, 0, "Bell"))
	clock := &fakeClock{times: []time.Time{tick(2021, time.December, 26, 10, 0)}}
	player := &fakePlayer{}

	_ = newTestLoop(store, clock, player).Run(context.Background())
	if len(player.played) != 0 {
		t.Fatalf("played %v during a quiet minute", player.played)
	}
}
