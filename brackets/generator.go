package brackets

import (
	"context"

	"github.com/Dosada05/bracket-live/models"
)

type GenerateBracketParams struct {
	// Entrants in seeding order. The generator never reorders them.
	Entrants []string
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) (models.Bracket, error)

	GetName() string
}
