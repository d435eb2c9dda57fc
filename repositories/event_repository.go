package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/bracket-live/models"
	"github.com/lib/pq"
)

type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

var (
	ErrEventRunIDInvalid = errors.New("bracket event run id is invalid")
	ErrEventKindInvalid  = errors.New("bracket event kind is invalid")
)

type EventRepository interface {
	Create(ctx context.Context, exec SQLExecutor, event *models.BracketEvent) error
	// CreateBatch writes events in a single transaction.
	CreateBatch(ctx context.Context, events []*models.BracketEvent) error
	ListByRun(ctx context.Context, runID string) ([]*models.BracketEvent, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

func (r *postgresEventRepository) Create(ctx context.Context, exec SQLExecutor, event *models.BracketEvent) error {
	query := `
		INSERT INTO bracket_events
			(run_id, kind, round, position, entrant, invalidated, players, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := exec.QueryRowContext(ctx, query,
		event.RunID,
		event.Kind,
		event.Round,
		event.Position,
		event.Entrant,
		event.Invalidated,
		pq.Array(event.Players),
		event.CreatedAt,
	).Scan(&event.ID)

	return r.handleEventError(err)
}

func (r *postgresEventRepository) CreateBatch(ctx context.Context, events []*models.BracketEvent) (err error) {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit bracket events: %w", cErr)
		}
	}()

	for i, event := range events {
		if err = r.Create(ctx, tx, event); err != nil {
			return fmt.Errorf("failed to insert bracket event %d of %d: %w", i+1, len(events), err)
		}
	}
	return nil
}

func (r *postgresEventRepository) ListByRun(ctx context.Context, runID string) ([]*models.BracketEvent, error) {
	query := `
		SELECT id, run_id, kind, round, position, entrant, invalidated, players, created_at
		FROM bracket_events
		WHERE run_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bracket events for run %s: %w", runID, r.handleEventError(err))
	}
	defer rows.Close()

	events := make([]*models.BracketEvent, 0)
	for rows.Next() {
		var event models.BracketEvent
		if scanErr := rows.Scan(
			&event.ID,
			&event.RunID,
			&event.Kind,
			&event.Round,
			&event.Position,
			&event.Entrant,
			&event.Invalidated,
			pq.Array(&event.Players),
			&event.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan bracket event row: %w", scanErr)
		}
		events = append(events, &event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during bracket event rows iteration: %w", err)
	}
	return events, nil
}

func (r *postgresEventRepository) handleEventError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "22P02": // invalid_text_representation, a run id that is not a uuid
			return fmt.Errorf("%w: %v", ErrEventRunIDInvalid, err)
		case "23514": // check_violation
			if pqErr.Constraint == "bracket_events_kind_check" {
				return fmt.Errorf("%w: %v", ErrEventKindInvalid, err)
			}
		}
	}
	return err
}
