package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/bracket-live/models"
)

// Roster operations. The roster can only change before the bracket is built.

func (s *tournamentService) UpdatePlayers(ctx context.Context, names []string) (models.TournamentState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.TournamentStarted {
		return models.TournamentState{}, ErrTournamentAlreadyStarted
	}
	roster, err := normalizeRoster(names, s.maxPlayers)
	if err != nil {
		return models.TournamentState{}, err
	}

	s.state.Players = roster
	s.logger.Debug("roster replaced", slog.Int("players", len(roster)))
	return s.commitLocked(), nil
}

func (s *tournamentService) AddPlayer(ctx context.Context, name string) (models.TournamentState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.TournamentStarted {
		return models.TournamentState{}, ErrTournamentAlreadyStarted
	}
	trimmed, err := normalizePlayerName(name)
	if err != nil {
		return models.TournamentState{}, err
	}
	if indexOf(s.state.Players, trimmed) >= 0 {
		return models.TournamentState{}, fmt.Errorf("%w: %q", ErrPlayerNameConflict, trimmed)
	}
	if len(s.state.Players) >= s.maxPlayers {
		return models.TournamentState{}, fmt.Errorf("%w: limit is %d", ErrTooManyPlayers, s.maxPlayers)
	}

	s.state.Players = append(s.state.Players, trimmed)
	s.logger.Debug("player added", slog.String("player", trimmed), slog.Int("players", len(s.state.Players)))
	return s.commitLocked(), nil
}

func (s *tournamentService) RemovePlayer(ctx context.Context, name string) (models.TournamentState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.TournamentStarted {
		return models.TournamentState{}, ErrTournamentAlreadyStarted
	}
	i := indexOf(s.state.Players, name)
	if i < 0 {
		return models.TournamentState{}, fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
	}

	players := cloneNames(s.state.Players)
	s.state.Players = append(players[:i], players[i+1:]...)
	s.logger.Debug("player removed", slog.String("player", name), slog.Int("players", len(s.state.Players)))
	return s.commitLocked(), nil
}
