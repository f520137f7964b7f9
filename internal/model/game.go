package model

// GameMode is the dedicated server's scripted game mode
type GameMode int

const (
	GameModeRounds GameMode = iota
	GameModeTimeAttack
	GameModeTeam
	GameModeLaps
	GameModeStunts
	GameModeCup
)

var gameModeNames = [...]string{
	GameModeRounds:     "Rounds",
	GameModeTimeAttack: "TimeAttack",
	GameModeTeam:       "Team",
	GameModeLaps:       "Laps",
	GameModeStunts:     "Stunts",
	GameModeCup:        "Cup",
}

// String returns the mode's display name
func (m GameMode) String() string {
	if m < 0 || int(m) >= len(gameModeNames) {
		return "Unknown"
	}
	return gameModeNames[m]
}

// IsRoundBased is true for modes where every player races the same round once
func (m GameMode) IsRoundBased() bool {
	switch m {
	case GameModeRounds, GameModeTeam, GameModeLaps, GameModeCup:
		return true
	default:
		return false
	}
}

// ScoresAscending is true when a smaller score ranks higher
func (m GameMode) ScoresAscending() bool {
	return m != GameModeStunts
}

// ServerStatus is the dedicated server's lifecycle status code
type ServerStatus int

const (
	ServerStatusWaiting         ServerStatus = 1
	ServerStatusLaunching       ServerStatus = 2
	ServerStatusSynchronization ServerStatus = 3
	ServerStatusPlay            ServerStatus = 4
	ServerStatusFinish          ServerStatus = 5
	ServerStatusExit            ServerStatus = 6
)

// SpectatorMode is the argument of the server's force-spectator command
type SpectatorMode int

const (
	SpectatorUserSelectable SpectatorMode = 0
	SpectatorForced         SpectatorMode = 1
	PlayerForced            SpectatorMode = 2
)

// ServerPlayer is a connected player as reported by the server
type ServerPlayer struct {
	Login       string
	Nickname    string
	IsSpectator bool
}

// TrackInfo describes a track on the server
type TrackInfo struct {
	UID        string
	Name       string
	Author     string
	AuthorTime int // ms, or points in Stunts
}
