package command

import (
	"errors"
	"fmt"

	"github.com/mcoot/knockout/internal/services/elimination"
)

// Kind identifies a parsed chat command
type Kind int

const (
	KindHelp Kind = iota + 1
	KindStart
	KindStop
	KindSkip
	KindRestart
	KindAdd
	KindRemove
	KindLives
	KindMulti
	KindRounds
	KindOpenWarmup
	KindFalseStart
	KindTiebreaker
	KindAuthorSkip
	KindSettings
	KindStatus
	KindOptIn
	KindOptOut
)

var kindNames = map[Kind]string{
	KindHelp:       "help",
	KindStart:      "start",
	KindStop:       "stop",
	KindSkip:       "skip",
	KindRestart:    "restart",
	KindAdd:        "add",
	KindRemove:     "remove",
	KindLives:      "lives",
	KindMulti:      "multi",
	KindRounds:     "rounds",
	KindOpenWarmup: "openwarmup",
	KindFalseStart: "falsestart",
	KindTiebreaker: "tiebreaker",
	KindAuthorSkip: "authorskip",
	KindSettings:   "settings",
	KindStatus:     "status",
	KindOptIn:      "opt in",
	KindOptOut:     "opt out",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsAdmin reports whether only administrators may issue the command
func (k Kind) IsAdmin() bool {
	switch k {
	case KindHelp, KindStatus, KindSettings, KindOptIn, KindOptOut:
		return false
	default:
		return true
	}
}

// Command is a parsed /ko or /opt chat command. Which fields are meaningful
// depends on Kind.
type Command struct {
	Kind Kind

	// start now
	Now bool
	// skip warmup, restart warmup
	Warmup bool
	// add, remove, and lives for a single player
	Login string
	// lives
	Lives int
	// multi
	Mode  elimination.Mode
	Value int
	// rounds, falsestart, authorskip
	Count int
	// openwarmup, tiebreaker
	Enabled bool
}

// ErrNotCommand is returned for chat lines that are not addressed to the knockout
var ErrNotCommand = errors.New("not a knockout command")

// SyntaxError describes a malformed command and how to use it
type SyntaxError struct {
	Usage string
	Err   error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v (usage: %s)", e.Err, e.Usage)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
