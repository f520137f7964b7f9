package model

// PlayerStatus is a participant's standing in the knockout
type PlayerStatus int

const (
	StatusPlaying PlayerStatus = iota
	StatusPlayingDisconnected
	StatusShelved // Set aside during a tiebreaker, still in the knockout
	StatusShelvedDisconnected
	StatusKnockedOut // Eliminated but still allowed on track
	StatusKnockedOutSpectating
	StatusOptingOut // Asked not to take part in the next knockout
)

var playerStatusNames = [...]string{
	StatusPlaying:              "Playing",
	StatusPlayingDisconnected:  "PlayingDisconnected",
	StatusShelved:              "Shelved",
	StatusShelvedDisconnected:  "ShelvedDisconnected",
	StatusKnockedOut:           "KnockedOut",
	StatusKnockedOutSpectating: "KnockedOutSpectating",
	StatusOptingOut:            "OptingOut",
}

// String returns the display name of the status
func (s PlayerStatus) String() string {
	if s < 0 || int(s) >= len(playerStatusNames) {
		return "Unknown"
	}
	return playerStatusNames[s]
}

// IsValid reports whether s is one of the declared statuses
func (s PlayerStatus) IsValid() bool {
	return s >= StatusPlaying && s <= StatusOptingOut
}

// InContention is true for players taking part in the current round
func (s PlayerStatus) InContention() bool {
	return s == StatusPlaying || s == StatusPlayingDisconnected
}

// IsShelved is true for players waiting out a tiebreaker
func (s PlayerStatus) IsShelved() bool {
	return s == StatusShelved || s == StatusShelvedDisconnected
}

// IsKnockedOut is true for eliminated players
func (s PlayerStatus) IsKnockedOut() bool {
	return s == StatusKnockedOut || s == StatusKnockedOutSpectating
}

// IsDisconnected is true for players who left the server but keep their place
func (s PlayerStatus) IsDisconnected() bool {
	return s == StatusPlayingDisconnected || s == StatusShelvedDisconnected
}

// Disconnected returns the disconnected counterpart of s, or s itself if it has none
func (s PlayerStatus) Disconnected() PlayerStatus {
	switch s {
	case StatusPlaying:
		return StatusPlayingDisconnected
	case StatusShelved:
		return StatusShelvedDisconnected
	default:
		return s
	}
}

// Connected returns the connected counterpart of s, or s itself if it has none
func (s PlayerStatus) Connected() PlayerStatus {
	switch s {
	case StatusPlayingDisconnected:
		return StatusPlaying
	case StatusShelvedDisconnected:
		return StatusShelved
	default:
		return s
	}
}

// PlayerRecord is a participant tracked by the registry
type PlayerRecord struct {
	Login    string
	Nickname string
	Status   PlayerStatus
	Lives    int
}

// DisplayName returns the nickname, falling back to the login
func (p PlayerRecord) DisplayName() string {
	if p.Nickname != "" {
		return p.Nickname
	}
	return p.Login
}
