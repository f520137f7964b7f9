package model

import "time"

// KnockoutID uniquely identifies a finished knockout
type KnockoutID string

// Elimination records a player being knocked out
type Elimination struct {
	Login    string
	Nickname string
	Round    int
}

// KnockoutResult is the archived outcome of a knockout
type KnockoutResult struct {
	ID             KnockoutID
	Winner         string // Login; empty when everyone was knocked out
	WinnerNickname string
	Rounds         int
	Players        int
	Eliminations   []Elimination // In elimination order
	StartedAt      time.Time
	EndedAt        time.Time
}

// WinCount is a player's number of knockout wins
type WinCount struct {
	Login    string
	Nickname string
	Wins     int
}
