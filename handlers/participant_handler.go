package handlers

import (
	"net/http"
	"net/url"

	"github.com/Dosada05/bracket-live/services"
	"github.com/go-chi/chi/v5"
)

type ParticipantHandler struct {
	tournamentService services.TournamentService
}

func NewParticipantHandler(ts services.TournamentService) *ParticipantHandler {
	return &ParticipantHandler{tournamentService: ts}
}

type updatePlayersInput struct {
	Players []string `json:"players"`
}

type addPlayerInput struct {
	Name string `json:"name"`
}

// UpdatePlayersHandler handles PUT /api/tournament/players
func (h *ParticipantHandler) UpdatePlayersHandler(w http.ResponseWriter, r *http.Request) {
	var input updatePlayersInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	state, err := h.tournamentService.UpdatePlayers(r.Context(), input.Players)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": state}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AddPlayerHandler handles POST /api/tournament/players
func (h *ParticipantHandler) AddPlayerHandler(w http.ResponseWriter, r *http.Request) {
	var input addPlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	state, err := h.tournamentService.AddPlayer(r.Context(), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": state}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemovePlayerHandler handles DELETE /api/tournament/players/{name}
func (h *ParticipantHandler) RemovePlayerHandler(w http.ResponseWriter, r *http.Request) {
	name, err := playerNameFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	state, err := h.tournamentService.RemovePlayer(r.Context(), name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": state}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// playerNameFromURL returns the {name} path parameter. chi matches against
// r.URL.RawPath when it is set (an escaped "/" in the name), and the parameter
// is still escaped in that case; otherwise it is already decoded.
func playerNameFromURL(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, nil
	}
	return url.PathUnescape(name)
}
