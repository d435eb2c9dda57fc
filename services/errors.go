package services

import "errors"

// Errors returned by the tournament services and mapped to HTTP / websocket
// responses by the handlers.
var (
	// Roster
	ErrPlayerNameRequired = errors.New("player name is required")
	ErrPlayerNameReserved = errors.New("player name is reserved")
	ErrPlayerNameConflict = errors.New("player name is already taken")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrTooManyPlayers     = errors.New("tournament roster is full")
	ErrNotEnoughPlayers   = errors.New("not enough players to start the tournament")

	// Lifecycle
	ErrTournamentAlreadyStarted = errors.New("tournament has already started")
	ErrTournamentNotStarted     = errors.New("tournament has not started")

	// Ledger
	ErrHistoryUnavailable = errors.New("bracket history is not configured")
)
