package handlers

import (
	"net/http"

	"github.com/Dosada05/bracket-live/services"
)

type MatchHandler struct {
	tournamentService services.TournamentService
}

func NewMatchHandler(ts services.TournamentService) *MatchHandler {
	return &MatchHandler{tournamentService: ts}
}

// selectWinnerInput carries the new winner; null or a missing field clears it.
type selectWinnerInput struct {
	Winner *string `json:"winner"`
}

type toggleWinnerInput struct {
	Player string `json:"player"`
}

func matchAddressFromURL(r *http.Request) (round, position int, err error) {
	if round, err = getIndexFromURL(r, "round"); err != nil {
		return 0, 0, err
	}
	if position, err = getIndexFromURL(r, "position"); err != nil {
		return 0, 0, err
	}
	return round, position, nil
}

// SelectWinnerHandler handles PUT /api/tournament/matches/{round}/{position}/winner
func (h *MatchHandler) SelectWinnerHandler(w http.ResponseWriter, r *http.Request) {
	round, position, err := matchAddressFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input selectWinnerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	state, err := h.tournamentService.SelectWinner(r.Context(), round, position, input.Winner)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": state}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ToggleWinnerHandler handles POST /api/tournament/matches/{round}/{position}/toggle
func (h *MatchHandler) ToggleWinnerHandler(w http.ResponseWriter, r *http.Request) {
	round, position, err := matchAddressFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input toggleWinnerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	state, err := h.tournamentService.ToggleWinner(r.Context(), round, position, input.Player)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": state}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
