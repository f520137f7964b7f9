package model

// MatchStatus is the knockout's lifecycle state
type MatchStatus int

const (
	MatchIdle MatchStatus = iota
	MatchStarting                // Waiting for the next track to begin
	MatchStartingNow             // Waiting for the next round to begin
	MatchWarmup
	MatchRunning
	MatchRestartingRound
	MatchRestartingTrack
	MatchSkippingWarmup
	MatchSkippingTrack
	MatchTiebreaker
	MatchStopping
)

var matchStatusNames = [...]string{
	MatchIdle:            "Idle",
	MatchStarting:        "Starting",
	MatchStartingNow:     "StartingNow",
	MatchWarmup:          "Warmup",
	MatchRunning:         "Running",
	MatchRestartingRound: "RestartingRound",
	MatchRestartingTrack: "RestartingTrack",
	MatchSkippingWarmup:  "SkippingWarmup",
	MatchSkippingTrack:   "SkippingTrack",
	MatchTiebreaker:      "Tiebreaker",
	MatchStopping:        "Stopping",
}

// String returns the display name of the state
func (s MatchStatus) String() string {
	if s < 0 || int(s) >= len(matchStatusNames) {
		return "Unknown"
	}
	return matchStatusNames[s]
}

// IsLive is true while rounds are being played for the knockout
func (s MatchStatus) IsLive() bool {
	switch s {
	case MatchWarmup, MatchRunning, MatchRestartingRound, MatchRestartingTrack,
		MatchSkippingWarmup, MatchSkippingTrack, MatchTiebreaker:
		return true
	default:
		return false
	}
}

// IsReplaying is true while a round or track is being restarted or skipped
func (s MatchStatus) IsReplaying() bool {
	switch s {
	case MatchRestartingRound, MatchRestartingTrack, MatchSkippingWarmup, MatchSkippingTrack:
		return true
	default:
		return false
	}
}

// KnockoutSnapshot is a read-only view of the knockout for external consumers
type KnockoutSnapshot struct {
	Status                MatchStatus
	RoundNumber           int
	FalseStartCount       int
	EliminationsThisRound int
	EliminationMode       string
	Players               []PlayerRecord
	Scores                []ScoreEntry
}
