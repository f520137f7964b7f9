package elimination

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects how many players are knocked out each round
type Mode int

const (
	ModeNone       Mode = iota // One per round
	ModeConstant               // A fixed number per round
	ModeExtra                  // One per N players left
	ModeTiebreaker             // The eliminations still owed after a tied round
	ModeDynamic                // A curve spread over a target number of rounds
)

var modeNames = [...]string{
	ModeNone:       "none",
	ModeConstant:   "constant",
	ModeExtra:      "extra",
	ModeTiebreaker: "tiebreaker",
	ModeDynamic:    "dynamic",
}

// ErrInvalidValue is returned when a mode's parameter is out of range
var ErrInvalidValue = errors.New("invalid elimination value")

// String returns the mode's lower-case name
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// HasValue reports whether the mode takes a parameter
func (m Mode) HasValue() bool {
	return m != ModeNone
}

// ParseMode looks up a mode by name. Tiebreaker is internal and cannot be selected.
func ParseMode(name string) (Mode, bool) {
	switch strings.ToLower(name) {
	case "none", "off":
		return ModeNone, true
	case "constant", "const":
		return ModeConstant, true
	case "extra":
		return ModeExtra, true
	case "dynamic":
		return ModeDynamic, true
	default:
		return ModeNone, false
	}
}

// Validate checks a mode's parameter
func Validate(mode Mode, value int) error {
	switch mode {
	case ModeNone:
		return nil
	case ModeConstant, ModeExtra, ModeTiebreaker:
		if value < 1 {
			return fmt.Errorf("%w: %s needs a value of at least 1", ErrInvalidValue, mode)
		}
	case ModeDynamic:
		if value < 2 {
			return fmt.Errorf("%w: dynamic needs at least 2 rounds", ErrInvalidValue)
		}
	default:
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidValue, mode)
	}
	return nil
}

// Plan is the number of eliminations chosen for one round
type Plan struct {
	Count int
	Mode  Mode
	Value int
}
