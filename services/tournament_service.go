package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Dosada05/bracket-live/brackets"
	"github.com/Dosada05/bracket-live/models"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"
)

const DefaultMaxPlayers = 32

// StatePublisher receives a private copy of every committed snapshot.
type StatePublisher interface {
	PublishState(state models.TournamentState)
}

// EventSink accepts ledger events without blocking the caller.
type EventSink interface {
	Enqueue(event models.BracketEvent)
}

// Archiver stores a finished bracket somewhere outside the process.
type Archiver interface {
	ArchiveAsync(state models.TournamentState)
}

type TournamentService interface {
	State(ctx context.Context) models.TournamentState
	// Observe calls fn with the current snapshot while no mutation can run,
	// so a new observer can be attached without missing an update.
	Observe(ctx context.Context, fn func(state models.TournamentState))

	UpdatePlayers(ctx context.Context, names []string) (models.TournamentState, error)
	AddPlayer(ctx context.Context, name string) (models.TournamentState, error)
	RemovePlayer(ctx context.Context, name string) (models.TournamentState, error)

	Start(ctx context.Context) (models.TournamentState, error)
	SelectWinner(ctx context.Context, round, position int, winner *string) (models.TournamentState, error)
	ToggleWinner(ctx context.Context, round, position int, player string) (models.TournamentState, error)
	Reset(ctx context.Context) (models.TournamentState, error)
}

type TournamentServiceConfig struct {
	MaxPlayers int
	Generator  brackets.BracketGenerator
	Publisher  StatePublisher
	Events     EventSink
	Archiver   Archiver
	Logger     *slog.Logger

	// Test hooks; zero values use the production behaviour.
	Shuffle  func(names []string)
	Now      func() time.Time
	NewRunID func() string
	NewName  func() string
}

// tournamentService owns the single authoritative tournament. Every
// operation holds mu for its whole duration, including bracket cascades and
// snapshot publication, so observers only ever see committed states and in
// commit order.
type tournamentService struct {
	mu    sync.Mutex
	state models.TournamentState

	maxPlayers int
	generator  brackets.BracketGenerator
	publisher  StatePublisher
	events     EventSink
	archiver   Archiver
	logger     *slog.Logger

	shuffle  func(names []string)
	now      func() time.Time
	newRunID func() string
	newName  func() string
}

func NewTournamentService(cfg TournamentServiceConfig) TournamentService {
	s := &tournamentService{
		maxPlayers: cfg.MaxPlayers,
		generator:  cfg.Generator,
		publisher:  cfg.Publisher,
		events:     cfg.Events,
		archiver:   cfg.Archiver,
		logger:     cfg.Logger,
		shuffle:    cfg.Shuffle,
		now:        cfg.Now,
		newRunID:   cfg.NewRunID,
		newName:    cfg.NewName,
	}
	if s.maxPlayers < brackets.MinEntrants {
		s.maxPlayers = DefaultMaxPlayers
	}
	if s.generator == nil {
		s.generator = brackets.NewSingleEliminationGenerator()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.shuffle == nil {
		s.shuffle = shuffleNames
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newRunID == nil {
		s.newRunID = uuid.NewString
	}
	if s.newName == nil {
		s.newName = func() string { return petname.Generate(2, "-") }
	}
	s.state = s.initialState()
	return s
}

func shuffleNames(names []string) {
	rand.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})
}

func (s *tournamentService) initialState() models.TournamentState {
	return models.TournamentState{
		Phase:            models.PhaseSetup,
		Players:          []string{},
		TournamentRounds: models.Bracket{},
		RoundLabels:      []string{},
		MaxPlayers:       s.maxPlayers,
		UpdatedAt:        s.now().UTC(),
	}
}

func (s *tournamentService) State(ctx context.Context) models.TournamentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *tournamentService) Observe(ctx context.Context, fn func(state models.TournamentState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state.Clone())
}

func (s *tournamentService) Start(ctx context.Context) (models.TournamentState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.TournamentStarted {
		return models.TournamentState{}, ErrTournamentAlreadyStarted
	}
	if len(s.state.Players) < brackets.MinEntrants {
		return models.TournamentState{}, fmt.Errorf("%w: need at least %d, have %d", ErrNotEnoughPlayers, brackets.MinEntrants, len(s.state.Players))
	}

	players := cloneNames(s.state.Players)
	s.shuffle(players)

	bracket, err := s.generator.GenerateBracket(ctx, brackets.GenerateBracketParams{Entrants: players})
	if err != nil {
		return models.TournamentState{}, fmt.Errorf("failed to generate %s bracket: %w", s.generator.GetName(), err)
	}
	if _, err := brackets.AdvanceByes(bracket); err != nil {
		return models.TournamentState{}, fmt.Errorf("failed to advance byes: %w", err)
	}
	if err := brackets.Validate(bracket); err != nil {
		return models.TournamentState{}, err
	}

	s.state.RunID = s.newRunID()
	s.state.Name = s.newName()
	s.state.Players = players
	s.state.TournamentRounds = bracket
	s.state.TournamentStarted = true
	s.refreshDerivedLocked()

	s.logger.Info("tournament started",
		slog.String("run_id", s.state.RunID),
		slog.String("name", s.state.Name),
		slog.String("format", s.generator.GetName()),
		slog.Int("players", len(players)),
		slog.Int("rounds", len(bracket)))

	s.recordLocked(models.BracketEvent{Kind: models.EventBracketBuilt, Players: cloneNames(players)})
	return s.commitLocked(), nil
}

func (s *tournamentService) Reset(ctx context.Context) (models.TournamentState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.RunID != "" {
		s.recordLocked(models.BracketEvent{Kind: models.EventReset})
	}
	s.logger.Info("tournament reset", slog.String("run_id", s.state.RunID))
	s.state = s.initialState()
	return s.commitLocked(), nil
}

// refreshDerivedLocked recomputes every field derived from the bracket.
func (s *tournamentService) refreshDerivedLocked() {
	b := s.state.TournamentRounds
	s.state.RoundLabels = brackets.RoundLabels(b)
	s.state.CurrentRound = brackets.CurrentRound(b)
	s.state.Champion = brackets.Champion(b)
	switch {
	case !s.state.TournamentStarted:
		s.state.Phase = models.PhaseSetup
	case s.state.Champion != nil:
		s.state.Phase = models.PhaseComplete
	default:
		s.state.Phase = models.PhaseTournament
	}
}

// commitLocked stamps the state, publishes it and returns the caller's copy.
func (s *tournamentService) commitLocked() models.TournamentState {
	s.state.UpdatedAt = s.now().UTC()
	if s.publisher != nil {
		s.publisher.PublishState(s.state.Clone())
	}
	return s.state.Clone()
}

func (s *tournamentService) recordLocked(event models.BracketEvent) {
	if s.events == nil {
		return
	}
	event.RunID = s.state.RunID
	event.CreatedAt = s.now().UTC()
	s.events.Enqueue(event)
}
