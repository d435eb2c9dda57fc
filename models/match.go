package models

// Bye is the reserved entrant value for an automatic pass with no opponent.
const Bye = "BYE"

// Match is a single pairing inside a round. A nil slot or winner means
// "not decided yet".
type Match struct {
	Slots    [2]*string `json:"slots"`
	Winner   *string    `json:"winner"`
	IsBye    bool       `json:"isBye"`
	Round    int        `json:"round"`
	Position int        `json:"position"`
}

// Round is an ordered list of matches sharing the same round index.
type Round []Match

// Bracket is an ordered list of rounds, round 0 first and the final last.
type Bracket []Round

// Ref returns a pointer to a copy of s.
func Ref(s string) *string {
	return &s
}

// CloneRef copies the value behind p so the result never aliases p.
func CloneRef(p *string) *string {
	if p == nil {
		return nil
	}
	return Ref(*p)
}

// HasSlot reports whether entrant currently occupies one of the match slots.
func (m *Match) HasSlot(entrant string) bool {
	for _, s := range m.Slots {
		if s != nil && *s == entrant {
			return true
		}
	}
	return false
}

// Decided reports whether the match has a winner.
func (m *Match) Decided() bool {
	return m.Winner != nil
}

// Clone returns a deep copy of the bracket.
func (b Bracket) Clone() Bracket {
	if b == nil {
		return nil
	}
	out := make(Bracket, len(b))
	for r, round := range b {
		out[r] = make(Round, len(round))
		for p, m := range round {
			out[r][p] = Match{
				Slots:    [2]*string{CloneRef(m.Slots[0]), CloneRef(m.Slots[1])},
				Winner:   CloneRef(m.Winner),
				IsBye:    m.IsBye,
				Round:    m.Round,
				Position: m.Position,
			}
		}
	}
	return out
}

// FinalRound returns the index of the last round, or -1 for an empty bracket.
func (b Bracket) FinalRound() int {
	return len(b) - 1
}
