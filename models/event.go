package models

import "time"

// EventKind names an accepted mutation recorded in the bracket ledger.
type EventKind string

const (
	EventBracketBuilt EventKind = "bracket_built"
	EventWinnerSet    EventKind = "winner_set"
	EventWinnerClear  EventKind = "winner_cleared"
	EventChampion     EventKind = "champion"
	EventReset        EventKind = "reset"
)

// BracketEvent is one row of the append-only ledger.
type BracketEvent struct {
	ID          int64     `json:"id" db:"id"`
	RunID       string    `json:"run_id" db:"run_id"`
	Kind        EventKind `json:"kind" db:"kind"`
	Round       *int      `json:"round,omitempty" db:"round"`
	Position    *int      `json:"position,omitempty" db:"position"`
	Entrant     *string   `json:"entrant,omitempty" db:"entrant"`
	Invalidated int       `json:"invalidated" db:"invalidated"`
	Players     []string  `json:"players,omitempty" db:"players"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
