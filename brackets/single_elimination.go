package brackets

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dosada05/bracket-live/models"
)

const MinEntrants = 2

type SingleEliminationGenerator struct {
}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (models.Bracket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Build(params.Entrants)
}

// ValidateEntrants rejects lists the bracket invariants cannot hold for:
// too few entrants, blank names, the reserved bye value and duplicates.
func ValidateEntrants(entrants []string) error {
	if len(entrants) < MinEntrants {
		return fmt.Errorf("%w: at least %d entrants required, got %d", ErrInvalidEntrantList, MinEntrants, len(entrants))
	}
	seen := make(map[string]struct{}, len(entrants))
	for i, e := range entrants {
		if strings.TrimSpace(e) == "" {
			return fmt.Errorf("%w: entrant #%d is empty", ErrInvalidEntrantList, i+1)
		}
		if e == models.Bye {
			return fmt.Errorf("%w: %q is reserved", ErrInvalidEntrantList, models.Bye)
		}
		if _, dup := seen[e]; dup {
			return fmt.Errorf("%w: duplicate entrant %q", ErrInvalidEntrantList, e)
		}
		seen[e] = struct{}{}
	}
	return nil
}

// Build seeds entrants, in the given order, into a single elimination
// bracket. An odd field gets one bye appended; later rounds halve (rounding
// up) until a single final match remains. Byes are not padded up to the next
// power of two.
func Build(entrants []string) (models.Bracket, error) {
	if err := ValidateEntrants(entrants); err != nil {
		return nil, err
	}

	field := make([]string, len(entrants), len(entrants)+1)
	copy(field, entrants)
	if len(field)%2 != 0 {
		field = append(field, models.Bye)
	}

	first := make(models.Round, 0, len(field)/2)
	for i := 0; i < len(field); i += 2 {
		first = append(first, newOpeningMatch(i/2, field[i], field[i+1]))
	}

	bracket := models.Bracket{first}
	for size := len(first); size > 1; {
		size = (size + 1) / 2
		roundIdx := len(bracket)
		round := make(models.Round, size)
		for p := range round {
			round[p] = models.Match{Round: roundIdx, Position: p}
		}
		bracket = append(bracket, round)
	}

	return bracket, nil
}

func newOpeningMatch(position int, p1, p2 string) models.Match {
	m := models.Match{
		Round:    0,
		Position: position,
		Slots:    [2]*string{models.Ref(p1), models.Ref(p2)},
	}
	if p1 == models.Bye || p2 == models.Bye {
		m.IsBye = true
		switch {
		case p1 != models.Bye:
			m.Winner = models.Ref(p1)
		case p2 != models.Bye:
			m.Winner = models.Ref(p2)
		}
	}
	return m
}
