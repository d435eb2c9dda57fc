package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/bracket-live/brackets"
	"github.com/Dosada05/bracket-live/models"
)

// SelectWinner records winner (nil clears) for a match and cascades the
// change through the later rounds.
func (s *tournamentService) SelectWinner(ctx context.Context, round, position int, winner *string) (models.TournamentState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.TournamentStarted {
		return models.TournamentState{}, ErrTournamentNotStarted
	}
	return s.selectWinnerLocked(round, position, winner)
}

// ToggleWinner makes player the winner of the match, or clears the winner if
// player already holds it.
func (s *tournamentService) ToggleWinner(ctx context.Context, round, position int, player string) (models.TournamentState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.TournamentStarted {
		return models.TournamentState{}, ErrTournamentNotStarted
	}
	match, err := brackets.MatchAt(s.state.TournamentRounds, brackets.Address{Round: round, Position: position})
	if err != nil {
		return models.TournamentState{}, err
	}

	winner := models.Ref(player)
	if match.Winner != nil && *match.Winner == player {
		winner = nil
	}
	return s.selectWinnerLocked(round, position, winner)
}

func (s *tournamentService) selectWinnerLocked(round, position int, winner *string) (models.TournamentState, error) {
	previousChampion := s.state.Champion

	out, err := brackets.SetWinner(s.state.TournamentRounds, round, position, winner)
	if err != nil {
		return models.TournamentState{}, err
	}
	s.refreshDerivedLocked()

	logger := s.logger.With(
		slog.String("run_id", s.state.RunID),
		slog.Int("round", round),
		slog.Int("position", position))

	event := models.BracketEvent{
		Kind:        models.EventWinnerSet,
		Round:       &round,
		Position:    &position,
		Entrant:     models.CloneRef(winner),
		Invalidated: len(out.Invalidated),
	}
	if winner == nil {
		event.Kind = models.EventWinnerClear
	}
	s.recordLocked(event)

	if len(out.Invalidated) > 0 {
		logger.Info("winner change invalidated downstream matches",
			slog.String("winner", derefString(winner)),
			slog.Int("invalidated", len(out.Invalidated)))
	} else {
		logger.Debug("winner recorded", slog.String("winner", derefString(winner)))
	}

	if out.Champion != nil && derefString(previousChampion) != *out.Champion {
		logger.Info("tournament complete", slog.String("champion", *out.Champion))
		s.recordLocked(models.BracketEvent{Kind: models.EventChampion, Entrant: models.CloneRef(out.Champion)})
	}

	state := s.commitLocked()
	if state.Phase == models.PhaseComplete && derefString(previousChampion) != derefString(state.Champion) && s.archiver != nil {
		s.archiver.ArchiveAsync(state.Clone())
	}
	return state, nil
}
