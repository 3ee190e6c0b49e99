package schedule

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound reports a delete aimed past the end of the schedule.
var ErrNotFound = errors.New("no rule at position")

// Store is the shared, ordered rule collection. Positions are 1-based for
// operator addressing. One playout goroutine snapshots it every minute while
// the editor goroutine mutates it; a single mutex makes every operation
// atomic and Snapshot returns an independent copy so the evaluator never
// observes a mutation mid-scan.
type Store struct {
	mu    sync.Mutex
	rules []Rule
}

func NewStore(rules ...Rule) *Store {
	s := &Store{}
	if len(rules) > 0 {
		s.rules = append(s.rules, rules...)
	}
	return s
}

// Snapshot returns a point-in-time copy of the schedule in position order.
func (s *Store) Snapshot() []Rule {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// UpsertAt replaces the rule at pos, or appends when pos exceeds the current
// length. Any positive position is accepted.
func (s *Store) UpsertAt(pos int, r Rule) {
	if pos < 1 {
		pos = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if pos > len(s.rules) {
		s.rules = append(s.rules, r)
		return
	}
	s.rules[pos-1] = r
}

// DeleteAt removes the rule at pos. Positions after it shift down by one.
func (s *Store) DeleteAt(pos int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pos < 1 || pos > len(s.rules) {
		return fmt.Errorf("%w %d", ErrNotFound, pos)
	}
	s.rules = append(s.rules[:pos-1], s.rules[pos:]...)
	return nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rules)
}

// DefaultRules is the tower-clock schedule pre-populated at startup: the
// warning tune a minute before the hour, strikes on the hour, and chimes on
// each quarter, every day across [startHour, endHour].
func DefaultRules(startHour, endHour int) []Rule {
	allWeek := func(minute int, sound SoundRef) Rule {
		return NewWeekdayRule(0, 6, startHour, endHour, minute, sound)
	}
	return []Rule{
		allWeek(59, "Hour"),
		allWeek(0, Strike),
		allWeek(15, "Quarter"),
		allWeek(30, "Half"),
		allWeek(45, "ThreeQuarter"),
	}
}
