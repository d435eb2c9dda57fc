package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Dosada05/bracket-live/models"
	"github.com/Dosada05/bracket-live/services"
	"github.com/go-chi/chi/v5"
)

// HistoryReader returns the ledger of a tournament run.
type HistoryReader interface {
	History(ctx context.Context, runID string) ([]*models.BracketEvent, error)
}

type TournamentHandler struct {
	tournamentService services.TournamentService
	history           HistoryReader
}

func NewTournamentHandler(ts services.TournamentService, history HistoryReader) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
		history:           history,
	}
}

// GetStateHandler handles GET /api/tournament
func (h *TournamentHandler) GetStateHandler(w http.ResponseWriter, r *http.Request) {
	state := h.tournamentService.State(r.Context())
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": state}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartHandler handles POST /api/tournament/start
func (h *TournamentHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	state, err := h.tournamentService.Start(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": state}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResetHandler handles POST /api/tournament/reset
func (h *TournamentHandler) ResetHandler(w http.ResponseWriter, r *http.Request) {
	state, err := h.tournamentService.Reset(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": state}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CurrentHistoryHandler handles GET /api/tournament/history
func (h *TournamentHandler) CurrentHistoryHandler(w http.ResponseWriter, r *http.Request) {
	runID := h.tournamentService.State(r.Context()).RunID
	if runID == "" {
		mapServiceErrorToHTTP(w, r, services.ErrTournamentNotStarted)
		return
	}
	h.writeHistory(w, r, runID)
}

// RunHistoryHandler handles GET /api/runs/{runID}/events
func (h *TournamentHandler) RunHistoryHandler(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if runID == "" {
		badRequestResponse(w, r, errors.New("missing runID in URL path"))
		return
	}
	h.writeHistory(w, r, runID)
}

func (h *TournamentHandler) writeHistory(w http.ResponseWriter, r *http.Request, runID string) {
	if h.history == nil {
		mapServiceErrorToHTTP(w, r, services.ErrHistoryUnavailable)
		return
	}
	events, err := h.history.History(r.Context(), runID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if events == nil {
		events = []*models.BracketEvent{}
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"run_id": runID, "events": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// HealthHandler handles GET /healthz
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "ok"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
