package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/services"
	"github.com/google/uuid"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

type announceWinnerRequest struct {
	WinnerID uuid.UUID `json:"winner_id"`
	// Status the client last saw; a mismatch means its bracket view is stale.
	CurrentStatus models.TournamentStatus `json:"current_status,omitempty"`
}

// AnnounceWinnerHandler godoc
// @Summary Announce a match winner
// @Description Records the winner and advances the bracket. Round-robin results can be corrected by announcing again.
// @Tags matches
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param matchID path string true "Match ID"
// @Param input body announceWinnerRequest true "Winner"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "result already set, invalid winner, stale status"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/matches/{matchID}/winner [post]
func (h *MatchHandler) AnnounceWinnerHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := getUUIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input announceWinnerRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.WinnerID == uuid.Nil {
		badRequestResponse(w, r, errors.New("winner_id is required"))
		return
	}

	match, err := h.matchService.AnnounceWinner(r.Context(), tournamentID, matchID, input.WinnerID, input.CurrentStatus)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
