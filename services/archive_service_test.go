package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/bracket-live/models"
	"github.com/Dosada05/bracket-live/storage"
)

type memoryUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newMemoryUploader() *memoryUploader {
	return &memoryUploader{objects: map[string][]byte{}, types: map[string]string{}}
}

func (u *memoryUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if u.err != nil {
		return nil, u.err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = body
	u.types[key] = contentType
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *memoryUploader) GetPublicURL(key string) string {
	return storage.PublicURL("https://cdn.example.com", key)
}

func (u *memoryUploader) object(key string) ([]byte, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	b, ok := u.objects[key]
	return b, ok
}

func finishedState() models.TournamentState {
	bracket := models.Bracket{{{
		Slots:  [2]*string{models.Ref("A"), models.Ref("B")},
		Winner: models.Ref("A"),
	}}}
	return models.TournamentState{
		RunID:             "0f9b7a55-1c2e-4e0b-8f55-3c1b9d1e2a77",
		Name:              "quiet-heron",
		Phase:             models.PhaseComplete,
		Players:           []string{"A", "B"},
		TournamentRounds:  bracket,
		RoundLabels:       []string{"Final"},
		TournamentStarted: true,
		Champion:          models.Ref("A"),
	}
}

func TestArchiveUploadsJSON(t *testing.T) {
	uploader := newMemoryUploader()
	archive := NewArchiveService(uploader, slog.New(slog.NewTextHandler(io.Discard, nil)))
	state := finishedState()

	result, err := archive.Archive(context.Background(), state)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	wantKey := "brackets/" + state.RunID + ".json"
	if result.Key != wantKey || result.Location != "https://cdn.example.com/"+wantKey {
		t.Fatalf("result = %+v", result)
	}

	body, ok := uploader.object(wantKey)
	if !ok {
		t.Fatalf("object %s not uploaded", wantKey)
	}
	if uploader.types[wantKey] != "application/json" {
		t.Fatalf("content type = %q", uploader.types[wantKey])
	}
	var decoded models.TournamentState
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("archived body is not JSON: %v", err)
	}
	if derefString(decoded.Champion) != "A" || decoded.RunID != state.RunID {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestArchiveRequiresRunID(t *testing.T) {
	archive := NewArchiveService(newMemoryUploader(), nil)
	state := finishedState()
	state.RunID = ""
	if _, err := archive.Archive(context.Background(), state); !errors.Is(err, ErrArchiveRunIDRequired) {
		t.Fatalf("err = %v", err)
	}
}

func TestArchiveAsyncAndShutdown(t *testing.T) {
	uploader := newMemoryUploader()
	archive := NewArchiveService(uploader, slog.New(slog.NewTextHandler(io.Discard, nil)))
	state := finishedState()

	archive.ArchiveAsync(state)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := archive.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if _, ok := uploader.object(ArchiveKey(state.RunID)); !ok {
		t.Fatalf("async archive did not upload")
	}
}

func TestArchiveAsyncSurvivesUploadFailure(t *testing.T) {
	uploader := newMemoryUploader()
	uploader.err = errors.New("bucket unavailable")
	archive := NewArchiveService(uploader, slog.New(slog.NewTextHandler(io.Discard, nil)))

	archive.ArchiveAsync(finishedState())
	if err := archive.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestNilArchiveServiceIsNoop(t *testing.T) {
	var archive *ArchiveService
	archive.ArchiveAsync(finishedState())
}

func TestArchiveAsyncAfterShutdownIsDropped(t *testing.T) {
	uploader := newMemoryUploader()
	archive := NewArchiveService(uploader, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := archive.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	state := finishedState()
	archive.ArchiveAsync(state)
	if err := archive.Shutdown(context.Background()); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
	if _, ok := uploader.object(ArchiveKey(state.RunID)); ok {
		t.Fatalf("archive accepted after shutdown")
	}
}

func TestArchiveAsyncConcurrentWithShutdown(t *testing.T) {
	uploader := newMemoryUploader()
	archive := NewArchiveService(uploader, slog.New(slog.NewTextHandler(io.Discard, nil)))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			state := finishedState()
			state.RunID = fmt.Sprintf("run-%d", i)
			archive.ArchiveAsync(state)
		}(i)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := archive.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	wg.Wait()
	if err := archive.Shutdown(ctx); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
}
