package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dosada05/bracket-live/brackets"
	"github.com/Dosada05/bracket-live/services"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantKind   string
	}{
		{fmt.Errorf("wrapped: %w", brackets.ErrInvalidWinner), http.StatusUnprocessableEntity, kindValidation},
		{brackets.ErrInvalidEntrantList, http.StatusUnprocessableEntity, kindValidation},
		{services.ErrNotEnoughPlayers, http.StatusBadRequest, kindBadRequest},
		{services.ErrPlayerNameReserved, http.StatusBadRequest, kindBadRequest},
		{brackets.ErrInvalidMatchAddress, http.StatusNotFound, kindNotFound},
		{services.ErrPlayerNotFound, http.StatusNotFound, kindNotFound},
		{brackets.ErrImmutableByeMatch, http.StatusConflict, kindConflict},
		{services.ErrTournamentAlreadyStarted, http.StatusConflict, kindConflict},
		{services.ErrHistoryUnavailable, http.StatusServiceUnavailable, kindUnavailable},
		{errors.New("disk on fire"), http.StatusInternalServerError, kindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, kind := classifyError(tt.err)
			if status != tt.wantStatus || kind != tt.wantKind {
				t.Fatalf("classifyError = %d %q, want %d %q", status, kind, tt.wantStatus, tt.wantKind)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type input struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"name":"Ann"}`, ""},
		{"empty", ``, "must not be empty"},
		{"syntax", `{"name":}`, "badly-formed"},
		{"wrong type", `{"name":3}`, "incorrect JSON type"},
		{"unknown field", `{"nickname":"A"}`, "unknown key"},
		{"two values", `{"name":"A"}{"name":"B"}`, "single JSON value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst input
			err := decodeJSON(strings.NewReader(tt.body), &dst)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestOriginChecker(t *testing.T) {
	request := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	open := originChecker([]string{"*"})
	if !open(request("https://evil.example")) {
		t.Fatalf("wildcard should allow every origin")
	}

	strict := originChecker([]string{"https://brackets.example.com"})
	if !strict(request("https://brackets.example.com")) {
		t.Fatalf("listed origin rejected")
	}
	if strict(request("https://evil.example")) {
		t.Fatalf("unlisted origin accepted")
	}
	if !strict(request("")) {
		t.Fatalf("non-browser clients without an Origin should be accepted")
	}
}
