package handlers

import (
	"net/http"

	"github.com/Dosada05/bracket-pool/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
	exportService    services.ExportService
}

func NewStandingsHandler(ss services.StandingsService, es services.ExportService) *StandingsHandler {
	return &StandingsHandler{standingsService: ss, exportService: es}
}

// GetStandings godoc
// @Summary Leaderboard of submitted entries
// @Tags standings
// @Produce json
// @Param year path int true "Tournament year"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "No bracket for this year"
// @Router /years/{year}/standings [get]
func (h *StandingsHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	year, err := getYearFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.standingsService.GetStandings(r.Context(), year)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"year": year, "standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ExportStandings godoc
// @Summary Upload the current standings as CSV
// @Tags admin
// @Produce json
// @Param year path int true "Tournament year"
// @Success 200 {object} map[string]string "Public URL of the export"
// @Failure 503 {object} map[string]string "Storage not configured"
// @Security BearerAuth
// @Router /admin/years/{year}/standings/export [post]
func (h *StandingsHandler) ExportStandings(w http.ResponseWriter, r *http.Request) {
	year, err := getYearFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	location, err := h.exportService.ExportStandings(r.Context(), year)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"location": location}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
