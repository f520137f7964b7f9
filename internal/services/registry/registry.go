package registry

import (
	"log/slog"
	"sort"

	"github.com/mcoot/knockout/internal/model"
)

// Registry owns the authoritative set of knockout participants
type Registry struct {
	players map[string]*model.PlayerRecord
	logger  *slog.Logger
}

// New creates an empty Registry
func New(logger *slog.Logger) *Registry {
	return &Registry{
		players: make(map[string]*model.PlayerRecord),
		logger:  logger.With(slog.String("component", "registry")),
	}
}

// Add inserts a player or replaces the status and lives of an existing one.
// An empty nickname keeps the existing nickname.
func (r *Registry) Add(login, nickname string, status model.PlayerStatus, lives int) {
	if lives < 0 {
		lives = 0
	}
	if p, ok := r.players[login]; ok {
		if nickname != "" {
			p.Nickname = nickname
		}
		p.Status = status
		p.Lives = lives
		return
	}
	r.players[login] = &model.PlayerRecord{
		Login:    login,
		Nickname: nickname,
		Status:   status,
		Lives:    lives,
	}
}

// Remove deletes a player
func (r *Registry) Remove(login string) {
	if _, ok := r.players[login]; !ok {
		r.warnUnknown("remove", login)
		return
	}
	delete(r.players, login)
}

// SetStatus changes a player's status
func (r *Registry) SetStatus(login string, status model.PlayerStatus) {
	p, ok := r.players[login]
	if !ok {
		r.warnUnknown("set status", login)
		return
	}
	p.Status = status
}

// SetLives changes a player's remaining lives
func (r *Registry) SetLives(login string, lives int) {
	p, ok := r.players[login]
	if !ok {
		r.warnUnknown("set lives", login)
		return
	}
	if lives < 0 {
		lives = 0
	}
	p.Lives = lives
}

// SetNickname changes a player's nickname
func (r *Registry) SetNickname(login, nickname string) {
	p, ok := r.players[login]
	if !ok {
		r.warnUnknown("set nickname", login)
		return
	}
	p.Nickname = nickname
}

// SubtractLife takes one life from a player. It returns true if the player has
// no lives left, in which case the player is now knocked out.
func (r *Registry) SubtractLife(login string) bool {
	p, ok := r.players[login]
	if !ok {
		r.warnUnknown("subtract life", login)
		return false
	}
	if p.Lives > 0 {
		p.Lives--
	}
	if p.Lives == 0 {
		p.Status = model.StatusKnockedOut
		return true
	}
	return false
}

// ApplyStatusTransition moves every player in status from into status to and
// returns how many were moved
func (r *Registry) ApplyStatusTransition(from, to model.PlayerStatus) int {
	moved := 0
	for _, p := range r.players {
		if p.Status == from {
			p.Status = to
			moved++
		}
	}
	return moved
}

// Reset removes every player except those in one of the kept statuses
func (r *Registry) Reset(keep ...model.PlayerStatus) {
	for login, p := range r.players {
		if !hasStatus(keep, p.Status) {
			delete(r.players, login)
		}
	}
}

// Get returns a copy of a player's record
func (r *Registry) Get(login string) (model.PlayerRecord, bool) {
	p, ok := r.players[login]
	if !ok {
		return model.PlayerRecord{}, false
	}
	return *p, true
}

// Has reports whether the login is known
func (r *Registry) Has(login string) bool {
	_, ok := r.players[login]
	return ok
}

// FilterByStatus returns the players in any of the given statuses, sorted by login
func (r *Registry) FilterByStatus(statuses ...model.PlayerStatus) []model.PlayerRecord {
	return r.filter(func(p *model.PlayerRecord) bool {
		return hasStatus(statuses, p.Status)
	})
}

// Playing returns the players in contention for the current round
func (r *Registry) Playing() []model.PlayerRecord {
	return r.filter(func(p *model.PlayerRecord) bool {
		return p.Status.InContention()
	})
}

// PlayingOrShelved returns every player still in the knockout
func (r *Registry) PlayingOrShelved() []model.PlayerRecord {
	return r.filter(func(p *model.PlayerRecord) bool {
		return p.Status.InContention() || p.Status.IsShelved()
	})
}

// CountPlaying returns the number of players in contention for the current round
func (r *Registry) CountPlaying() int {
	count := 0
	for _, p := range r.players {
		if p.Status.InContention() {
			count++
		}
	}
	return count
}

// CountPlayingOrShelved returns the number of players still in the knockout
func (r *Registry) CountPlayingOrShelved() int {
	count := 0
	for _, p := range r.players {
		if p.Status.InContention() || p.Status.IsShelved() {
			count++
		}
	}
	return count
}

// All returns every player, sorted by login
func (r *Registry) All() []model.PlayerRecord {
	return r.filter(func(*model.PlayerRecord) bool { return true })
}

// Len returns the number of known players
func (r *Registry) Len() int {
	return len(r.players)
}

func (r *Registry) filter(keep func(p *model.PlayerRecord) bool) []model.PlayerRecord {
	result := make([]model.PlayerRecord, 0, len(r.players))
	for _, p := range r.players {
		if keep(p) {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Login < result[j].Login
	})
	return result
}

func (r *Registry) warnUnknown(op, login string) {
	r.logger.Warn("unknown player",
		slog.String("operation", op),
		slog.String("login", login),
	)
}

func hasStatus(statuses []model.PlayerStatus, status model.PlayerStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
