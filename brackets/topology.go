package brackets

import (
	"fmt"

	"github.com/Dosada05/bracket-live/models"
)

// Address locates a match inside a bracket.
type Address struct {
	Round    int `json:"round"`
	Position int `json:"position"`
}

func (a Address) String() string {
	return fmt.Sprintf("R%dM%d", a.Round, a.Position)
}

// NextSlot returns the match fed by the winner of a and the slot index the
// winner lands in. ok is false for the final round. This is the only place
// the (round, position) -> (round+1, position/2, position%2) mapping lives.
func NextSlot(b models.Bracket, a Address) (next Address, slot int, ok bool) {
	if a.Round < 0 || a.Round+1 >= len(b) {
		return Address{}, 0, false
	}
	next = Address{Round: a.Round + 1, Position: a.Position / 2}
	if next.Position < 0 || next.Position >= len(b[next.Round]) {
		return Address{}, 0, false
	}
	return next, a.Position % 2, true
}

// Feeders returns the matches feeding slot 0 and slot 1 of a. A feeder is
// absent for round 0 and for the trailing slot of a round built from an odd
// number of matches.
func Feeders(b models.Bracket, a Address) (feeders [2]Address, present [2]bool) {
	if a.Round <= 0 || a.Round >= len(b) {
		return feeders, present
	}
	prev := b[a.Round-1]
	for slot := 0; slot < 2; slot++ {
		pos := 2*a.Position + slot
		if pos < len(prev) {
			feeders[slot] = Address{Round: a.Round - 1, Position: pos}
			present[slot] = true
		}
	}
	return feeders, present
}

func matchAt(b models.Bracket, a Address) (*models.Match, error) {
	if a.Round < 0 || a.Round >= len(b) || a.Position < 0 || a.Position >= len(b[a.Round]) {
		return nil, fmt.Errorf("%w: %s (bracket has %d rounds)", ErrInvalidMatchAddress, a, len(b))
	}
	return &b[a.Round][a.Position], nil
}

// MatchAt returns a copy of the match at a.
func MatchAt(b models.Bracket, a Address) (models.Match, error) {
	m, err := matchAt(b, a)
	if err != nil {
		return models.Match{}, err
	}
	return *m, nil
}

func sameEntrant(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
