package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestHandleEventError(t *testing.T) {
	repo := &postgresEventRepository{}
	other := errors.New("connection reset")

	tests := []struct {
		name    string
		err     error
		want    error
		wantNil bool
	}{
		{name: "nil", err: nil, wantNil: true},
		{name: "bad run id", err: &pq.Error{Code: "22P02"}, want: ErrEventRunIDInvalid},
		{name: "wrapped bad run id", err: fmt.Errorf("insert: %w", &pq.Error{Code: "22P02"}), want: ErrEventRunIDInvalid},
		{name: "bad kind", err: &pq.Error{Code: "23514", Constraint: "bracket_events_kind_check"}, want: ErrEventKindInvalid},
		{name: "other check", err: &pq.Error{Code: "23514", Constraint: "something_else"}},
		{name: "no rows", err: sql.ErrNoRows, want: sql.ErrNoRows},
		{name: "plain", err: other, want: other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repo.handleEventError(tt.err)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("handleEventError(nil) = %v", got)
				}
				return
			}
			if tt.want == nil {
				if errors.Is(got, ErrEventRunIDInvalid) || errors.Is(got, ErrEventKindInvalid) {
					t.Fatalf("handleEventError(%v) = %v, want it passed through", tt.err, got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Fatalf("handleEventError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
