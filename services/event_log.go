package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/bracket-live/models"
	"github.com/Dosada05/bracket-live/repositories"
)

const (
	defaultEventBuffer   = 1024
	defaultFlushInterval = 500 * time.Millisecond
	eventWriteTimeout    = 5 * time.Second
)

// EventLog persists bracket events off the request path. Enqueue never
// blocks; Run drains the queue into the repository in batches.
type EventLog struct {
	repo          repositories.EventRepository
	queue         chan models.BracketEvent
	flushInterval time.Duration
	logger        *slog.Logger
}

func NewEventLog(repo repositories.EventRepository, logger *slog.Logger) *EventLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventLog{
		repo:          repo,
		queue:         make(chan models.BracketEvent, defaultEventBuffer),
		flushInterval: defaultFlushInterval,
		logger:        logger.With(slog.String("component", "event_log")),
	}
}

func (l *EventLog) Enqueue(event models.BracketEvent) {
	if l == nil || l.repo == nil {
		return
	}
	select {
	case l.queue <- event:
	default:
		l.logger.Warn("event queue full, dropping event",
			slog.String("run_id", event.RunID),
			slog.String("kind", string(event.Kind)))
	}
}

// Run writes queued events until ctx is done, then flushes what is left.
func (l *EventLog) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.flushInterval)
	defer ticker.Stop()

	batch := make([]*models.BracketEvent, 0, 64)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventWriteTimeout)
		defer cancel()
		if err := l.repo.CreateBatch(writeCtx, batch); err != nil {
			l.logger.Error("failed to persist bracket events", slog.Int("events", len(batch)), slog.Any("error", err))
		} else {
			l.logger.Debug("bracket events persisted", slog.Int("events", len(batch)))
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case event := <-l.queue:
					batch = append(batch, &event)
				default:
					flush()
					return nil
				}
			}
		case event := <-l.queue:
			batch = append(batch, &event)
			if len(batch) == cap(batch) {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// History returns the recorded events of one run, oldest first.
func (l *EventLog) History(ctx context.Context, runID string) ([]*models.BracketEvent, error) {
	if l == nil || l.repo == nil {
		return nil, ErrHistoryUnavailable
	}
	events, err := l.repo.ListByRun(ctx, runID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventRunIDInvalid) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load history for run %s: %w", runID, err)
	}
	return events, nil
}
