package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound      = errors.New("player not found")
	ErrPlayerNotConnected  = errors.New("player is not connected")
	ErrAlreadyParticipant  = errors.New("player is already in the knockout")
	ErrNotParticipant      = errors.New("player is not in the knockout")
	ErrInsufficientPlayers = errors.New("insufficient players to start a knockout")
	ErrInvalidLives        = errors.New("lives must be at least 1")

	// Knockout errors
	ErrKnockoutInProgress   = errors.New("a knockout is already in progress")
	ErrNoKnockoutInProgress = errors.New("no knockout in progress")
	ErrNotInWarmup          = errors.New("the server is not in warmup")
	ErrNotAdmin             = errors.New("insufficient permissions")

	// Host errors
	ErrQueryFailed     = errors.New("server query failed")
	ErrUnknownCallback = errors.New("unknown callback type")

	// Archive errors
	ErrResultNotFound = errors.New("knockout result not found")
)
