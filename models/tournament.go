package models

import "time"

// Phase is the lifecycle stage of the tournament as shown to observers.
type Phase string

const (
	PhaseSetup      Phase = "setup"
	PhaseTournament Phase = "tournament"
	PhaseComplete   Phase = "complete"
)

// TournamentState is the full snapshot broadcast to observers after every
// accepted mutation.
type TournamentState struct {
	RunID             string    `json:"runId,omitempty"`
	Name              string    `json:"name,omitempty"`
	Phase             Phase     `json:"phase"`
	Players           []string  `json:"players"`
	TournamentRounds  Bracket   `json:"tournamentRounds"`
	RoundLabels       []string  `json:"roundLabels"`
	CurrentRound      int       `json:"currentRound"`
	TournamentStarted bool      `json:"tournamentStarted"`
	Champion          *string   `json:"champion"`
	MaxPlayers        int       `json:"maxPlayers"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Clone returns a copy that shares no mutable memory with s.
func (s TournamentState) Clone() TournamentState {
	out := s
	out.Players = append([]string{}, s.Players...)
	out.RoundLabels = append([]string{}, s.RoundLabels...)
	out.TournamentRounds = s.TournamentRounds.Clone()
	if out.TournamentRounds == nil {
		out.TournamentRounds = Bracket{}
	}
	out.Champion = CloneRef(s.Champion)
	return out
}
