package model

// Special score values
const (
	HasNotFinishedYet = 0
	DidNotFinish      = -1
)

// ScoreEntry is one player's result for the current round
type ScoreEntry struct {
	Login    string
	Nickname string
	Value    int // Time in ms or points; see HasNotFinishedYet and DidNotFinish
}

// HasFinished is true when the entry holds a real time or score
func (e ScoreEntry) HasFinished() bool {
	return e.Value > 0
}

// DisplayName returns the nickname, falling back to the login
func (e ScoreEntry) DisplayName() string {
	if e.Nickname != "" {
		return e.Nickname
	}
	return e.Login
}
