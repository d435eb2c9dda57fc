package brackets

import (
	"fmt"

	"github.com/Dosada05/bracket-live/models"
)

// Champion returns the winner of the final match, or nil while undecided.
func Champion(b models.Bracket) *string {
	if len(b) == 0 {
		return nil
	}
	final := b[b.FinalRound()]
	if len(final) != 1 {
		return nil
	}
	return models.CloneRef(final[0].Winner)
}

// CurrentRound is the first round that still has an undecided match. Once
// every match is decided it is the final round. An empty bracket yields 0.
func CurrentRound(b models.Bracket) int {
	for r, round := range b {
		for i := range round {
			if !round[i].Decided() {
				return r
			}
		}
	}
	if len(b) == 0 {
		return 0
	}
	return len(b) - 1
}

// RoundLabel names round roundIndex of a bracket with totalRounds rounds.
func RoundLabel(roundIndex, totalRounds int) string {
	switch totalRounds - roundIndex {
	case 0, 1:
		return "Final"
	case 2:
		return "Semi-Finals"
	case 3:
		return "Quarter-Finals"
	}
	return ordinal(roundIndex+1) + " Round"
}

// RoundLabels returns RoundLabel for every round of b.
func RoundLabels(b models.Bracket) []string {
	labels := make([]string, len(b))
	for r := range b {
		labels[r] = RoundLabel(r, len(b))
	}
	return labels
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// Validate checks the shape of b and every slot/winner invariant: round
// sizes halve (rounding up) down to one match, each winner sits in its
// match, and every later-round slot is either unset or the current winner of
// its feeder.
func Validate(b models.Bracket) error {
	if len(b) == 0 {
		return fmt.Errorf("%w: no rounds", ErrInconsistentBracket)
	}
	if len(b[len(b)-1]) != 1 {
		return fmt.Errorf("%w: final round has %d matches", ErrInconsistentBracket, len(b[len(b)-1]))
	}
	for r, round := range b {
		if len(round) == 0 {
			return fmt.Errorf("%w: round %d is empty", ErrInconsistentBracket, r)
		}
		if len(round) == 1 && r != len(b)-1 {
			return fmt.Errorf("%w: round %d has a single match but is not the final", ErrInconsistentBracket, r)
		}
		if r > 0 && len(round) != (len(b[r-1])+1)/2 {
			return fmt.Errorf("%w: round %d has %d matches, want %d", ErrInconsistentBracket, r, len(round), (len(b[r-1])+1)/2)
		}
		for p := range round {
			if err := validateMatch(b, Address{Round: r, Position: p}); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateMatch(b models.Bracket, at Address) error {
	m := &b[at.Round][at.Position]
	if m.Round != at.Round || m.Position != at.Position {
		return fmt.Errorf("%w: %s is labelled R%dM%d", ErrInconsistentBracket, at, m.Round, m.Position)
	}
	if m.Winner != nil && !m.HasSlot(*m.Winner) {
		return fmt.Errorf("%w: %s winner %q is not in its slots", ErrInconsistentBracket, at, *m.Winner)
	}
	hasBye := m.HasSlot(models.Bye)
	if m.IsBye != hasBye {
		return fmt.Errorf("%w: %s bye flag does not match its slots", ErrInconsistentBracket, at)
	}
	if m.IsBye && m.Winner != nil && *m.Winner == models.Bye {
		return fmt.Errorf("%w: %s bye won its own match", ErrInconsistentBracket, at)
	}
	if at.Round == 0 {
		return nil
	}
	if hasBye {
		return fmt.Errorf("%w: %s holds a bye outside round 0", ErrInconsistentBracket, at)
	}
	feeders, present := Feeders(b, at)
	for slot := 0; slot < 2; slot++ {
		if m.Slots[slot] == nil {
			continue
		}
		if !present[slot] {
			return fmt.Errorf("%w: %s slot %d has no feeder but holds %q", ErrInconsistentBracket, at, slot, *m.Slots[slot])
		}
		feeder := b[feeders[slot].Round][feeders[slot].Position]
		if !sameEntrant(feeder.Winner, m.Slots[slot]) {
			return fmt.Errorf("%w: %s slot %d holds %q but %s was won by %s", ErrInconsistentBracket, at, slot, *m.Slots[slot], feeders[slot], describe(feeder.Winner))
		}
	}
	return nil
}

func describe(p *string) string {
	if p == nil {
		return "nobody"
	}
	return fmt.Sprintf("%q", *p)
}
