package brackets

import (
	"fmt"

	"github.com/Dosada05/bracket-live/models"
)

// Outcome describes what a SetWinner call touched.
type Outcome struct {
	// Changed lists the target match and every match whose slot was rewritten.
	Changed []Address `json:"changed"`
	// Invalidated lists downstream matches whose winner was cleared.
	Invalidated []Address `json:"invalidated"`
	Champion    *string   `json:"champion"`
	Complete    bool      `json:"complete"`
}

func (o *Outcome) merge(other Outcome) {
	o.Changed = append(o.Changed, other.Changed...)
	o.Invalidated = append(o.Invalidated, other.Invalidated...)
	o.Champion = other.Champion
	o.Complete = other.Complete
}

// SetWinner records winner (nil clears it) for the match at (round, position)
// and pushes the result forward. A downstream slot that changes value clears
// that match's winner, and the clearing cascades until the final round or the
// first slot that already held the propagated value. b is mutated in place;
// on error it is left untouched.
func SetWinner(b models.Bracket, round, position int, winner *string) (Outcome, error) {
	at := Address{Round: round, Position: position}
	m, err := matchAt(b, at)
	if err != nil {
		return Outcome{}, err
	}
	if m.IsBye && !sameEntrant(m.Winner, winner) {
		return Outcome{}, fmt.Errorf("%w: %s", ErrImmutableByeMatch, at)
	}
	if winner != nil && !m.HasSlot(*winner) {
		return Outcome{}, fmt.Errorf("%w: %q does not play in %s", ErrInvalidWinner, *winner, at)
	}

	out := Outcome{Changed: []Address{at}}
	m.Winner = models.CloneRef(winner)
	propagate(b, at, winner, &out)

	out.Champion = Champion(b)
	out.Complete = out.Champion != nil
	return out, nil
}

func propagate(b models.Bracket, from Address, value *string, out *Outcome) {
	for {
		next, slot, ok := NextSlot(b, from)
		if !ok {
			return
		}
		child := &b[next.Round][next.Position]
		if sameEntrant(child.Slots[slot], value) {
			return
		}
		child.Slots[slot] = models.CloneRef(value)
		out.Changed = append(out.Changed, next)
		if child.Winner == nil {
			return
		}
		child.Winner = nil
		out.Invalidated = append(out.Invalidated, next)
		from, value = next, nil
	}
}

// AdvanceByes pushes every auto-resolved bye winner of round 0 into its
// next-round slot.
func AdvanceByes(b models.Bracket) (Outcome, error) {
	var out Outcome
	if len(b) == 0 {
		return out, nil
	}
	for _, m := range b[0] {
		if !m.IsBye || m.Winner == nil {
			continue
		}
		step, err := SetWinner(b, m.Round, m.Position, m.Winner)
		if err != nil {
			return out, err
		}
		out.merge(step)
	}
	return out, nil
}
