package scoreboard

import (
	"sort"

	"github.com/mcoot/knockout/internal/model"
)

// entry is a score plus the sequence number of its last accepted update
type entry struct {
	model.ScoreEntry
	seq uint64
}

// ScoreBoard ranks the results of the current round, best first
type ScoreBoard struct {
	entries   []entry
	ascending bool
	seq       uint64
}

// New creates an empty ScoreBoard. Ascending boards rank smaller values higher.
func New(ascending bool) *ScoreBoard {
	return &ScoreBoard{ascending: ascending}
}

// SubmitScore records a player's result if it improves on their previous one.
// Any value improves on a missing, unfinished or DNF result; a finished result
// is only replaced by a strictly better finished result. Returns whether the
// board changed.
func (b *ScoreBoard) SubmitScore(login, nickname string, value int) bool {
	i := b.find(login)
	if i < 0 {
		b.seq++
		b.entries = append(b.entries, entry{
			ScoreEntry: model.ScoreEntry{Login: login, Nickname: nickname, Value: value},
			seq:        b.seq,
		})
		b.reposition(len(b.entries) - 1)
		return true
	}

	if !b.isImprovement(b.entries[i].Value, value) {
		return false
	}

	b.seq++
	b.entries[i].Value = value
	b.entries[i].seq = b.seq
	if nickname != "" {
		b.entries[i].Nickname = nickname
	}
	b.reposition(i)
	return true
}

// Set overwrites a player's result unconditionally
func (b *ScoreBoard) Set(login, nickname string, value int) {
	b.seq++
	i := b.find(login)
	if i < 0 {
		b.entries = append(b.entries, entry{
			ScoreEntry: model.ScoreEntry{Login: login, Nickname: nickname, Value: value},
			seq:        b.seq,
		})
	} else {
		b.entries[i].Value = value
		b.entries[i].seq = b.seq
		if nickname != "" {
			b.entries[i].Nickname = nickname
		}
	}
	b.resort()
}

// Remove drops a player's result
func (b *ScoreBoard) Remove(login string) {
	if i := b.find(login); i >= 0 {
		b.entries = append(b.entries[:i], b.entries[i+1:]...)
	}
}

// SetSortingOrder switches between ascending (times) and descending (points) ranking
func (b *ScoreBoard) SetSortingOrder(ascending bool) {
	if b.ascending == ascending {
		return
	}
	b.ascending = ascending
	b.resort()
}

// IsAscending reports the current sorting order
func (b *ScoreBoard) IsAscending() bool {
	return b.ascending
}

// Reset clears all results
func (b *ScoreBoard) Reset() {
	b.entries = nil
}

// Entries returns the ranking, best first
func (b *ScoreBoard) Entries() []model.ScoreEntry {
	result := make([]model.ScoreEntry, len(b.entries))
	for i, e := range b.entries {
		result[i] = e.ScoreEntry
	}
	return result
}

// Get returns a player's current result
func (b *ScoreBoard) Get(login string) (model.ScoreEntry, bool) {
	i := b.find(login)
	if i < 0 {
		return model.ScoreEntry{}, false
	}
	return b.entries[i].ScoreEntry, true
}

// Len returns the number of results
func (b *ScoreBoard) Len() int {
	return len(b.entries)
}

// CountFinished returns the number of players with a real result
func (b *ScoreBoard) CountFinished() int {
	count := 0
	for _, e := range b.entries {
		if e.HasFinished() {
			count++
		}
	}
	return count
}

func (b *ScoreBoard) find(login string) int {
	for i := range b.entries {
		if b.entries[i].Login == login {
			return i
		}
	}
	return -1
}

func (b *ScoreBoard) isImprovement(prev, next int) bool {
	if prev <= 0 {
		return true
	}
	if next <= 0 {
		return false
	}
	if b.ascending {
		return next < prev
	}
	return next > prev
}

// reposition moves the entry at i to its sorted position, assuming every
// other entry is already in order
func (b *ScoreBoard) reposition(i int) {
	for i > 0 && b.better(b.entries[i], b.entries[i-1]) {
		b.entries[i], b.entries[i-1] = b.entries[i-1], b.entries[i]
		i--
	}
	for i < len(b.entries)-1 && b.better(b.entries[i+1], b.entries[i]) {
		b.entries[i], b.entries[i+1] = b.entries[i+1], b.entries[i]
		i++
	}
}

func (b *ScoreBoard) resort() {
	sort.SliceStable(b.entries, func(i, j int) bool {
		return b.better(b.entries[i], b.entries[j])
	})
}

// better reports whether x ranks strictly ahead of y
func (b *ScoreBoard) better(x, y entry) bool {
	cx, cy := class(x.Value), class(y.Value)
	if cx != cy {
		return cx < cy
	}
	switch cx {
	case classFinished:
		if x.Value != y.Value {
			if b.ascending {
				return x.Value < y.Value
			}
			return x.Value > y.Value
		}
		return x.seq < y.seq
	case classDidNotFinish:
		// The player who dropped out last survived longest
		return x.seq > y.seq
	default:
		return x.seq < y.seq
	}
}

const (
	classFinished = iota
	classNotFinishedYet
	classDidNotFinish
)

func class(value int) int {
	switch {
	case value > 0:
		return classFinished
	case value == model.HasNotFinishedYet:
		return classNotFinishedYet
	default:
		return classDidNotFinish
	}
}
