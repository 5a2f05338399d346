package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Dosada05/bracket-pool/services"
	"github.com/go-chi/chi/v5"
)

type ResultHandler struct {
	resultService services.ResultService
}

func NewResultHandler(rs services.ResultService) *ResultHandler {
	return &ResultHandler{resultService: rs}
}

type recordResultInput struct {
	GameID       string `json:"game_id"`
	WinnerTeamID string `json:"winner_team_id"`
}

// ListResults godoc
// @Summary Recorded game results for a year
// @Tags results
// @Produce json
// @Param year path int true "Tournament year"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "No bracket for this year"
// @Router /years/{year}/results [get]
func (h *ResultHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	year, err := getYearFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	results, err := h.resultService.GetResults(r.Context(), year)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"results": results}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordResult godoc
// @Summary Record or correct the winner of a game
// @Tags admin
// @Accept json
// @Produce json
// @Param year path int true "Tournament year"
// @Param body body recordResultInput true "Game and winning team"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Unknown game"
// @Failure 409 {object} map[string]interface{} "Result breaks the advancement chain"
// @Security BearerAuth
// @Router /admin/years/{year}/results [post]
func (h *ResultHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	year, err := getYearFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input recordResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.GameID = strings.TrimSpace(input.GameID)
	input.WinnerTeamID = strings.TrimSpace(input.WinnerTeamID)
	if input.GameID == "" || input.WinnerTeamID == "" {
		badRequestResponse(w, r, errors.New("game_id and winner_team_id are required"))
		return
	}

	result, err := h.resultService.RecordResult(r.Context(), year, input.GameID, input.WinnerTeamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemoveResult godoc
// @Summary Remove a recorded result
// @Tags admin
// @Description Refused while the next game of the winner already has a result.
// @Param year path int true "Tournament year"
// @Param gameID path string true "Game ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "A later result depends on it"
// @Security BearerAuth
// @Router /admin/years/{year}/results/{gameID} [delete]
func (h *ResultHandler) RemoveResult(w http.ResponseWriter, r *http.Request) {
	year, err := getYearFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	gameID := chi.URLParam(r, "gameID")
	if gameID == "" {
		badRequestResponse(w, r, errors.New("missing gameID in URL path"))
		return
	}

	if err := h.resultService.RemoveResult(r.Context(), year, gameID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
