package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/bracket-live/models"
	"github.com/Dosada05/bracket-live/storage"
)

const (
	archiveKeyPrefix      = "brackets"
	defaultArchiveTimeout = 30 * time.Second
)

var ErrArchiveRunIDRequired = errors.New("cannot archive a bracket without a run id")

// ArchiveService uploads finished brackets as JSON documents.
type ArchiveService struct {
	uploader storage.FileUploader
	timeout  time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewArchiveService(uploader storage.FileUploader, logger *slog.Logger) *ArchiveService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArchiveService{
		uploader: uploader,
		timeout:  defaultArchiveTimeout,
		logger:   logger.With(slog.String("component", "archive")),
	}
}

func ArchiveKey(runID string) string {
	return fmt.Sprintf("%s/%s.json", archiveKeyPrefix, runID)
}

// Archive uploads state under ArchiveKey(state.RunID).
func (a *ArchiveService) Archive(ctx context.Context, state models.TournamentState) (*storage.UploadResult, error) {
	if state.RunID == "" {
		return nil, ErrArchiveRunIDRequired
	}
	body, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode bracket %s: %w", state.RunID, err)
	}
	result, err := a.uploader.Upload(ctx, ArchiveKey(state.RunID), "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to archive bracket %s: %w", state.RunID, err)
	}
	return result, nil
}

// ArchiveAsync runs Archive in the background with its own timeout. It is a
// no-op after Shutdown.
func (a *ArchiveService) ArchiveAsync(state models.TournamentState) {
	if a == nil || a.uploader == nil {
		return
	}
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		a.logger.Warn("archive service is shut down, bracket not archived", slog.String("run_id", state.RunID))
		return
	}
	a.wg.Add(1)
	a.mu.Unlock()

	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()

		logger := a.logger.With(slog.String("run_id", state.RunID))
		result, err := a.Archive(ctx, state)
		if err != nil {
			if storage.IsRetryable(err) {
				logger.Warn("bracket archive failed, storage unavailable", slog.Any("error", err))
			} else {
				logger.Error("bracket archive failed", slog.Any("error", err))
			}
			return
		}
		logger.Info("bracket archived", slog.String("key", result.Key), slog.String("location", result.Location))
	}()
}

// Shutdown stops accepting archives and blocks until in-flight uploads
// finish or ctx is done.
func (a *ArchiveService) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
