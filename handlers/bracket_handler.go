package handlers

import (
	"net/http"

	"github.com/Dosada05/bracket-pool/models"
	"github.com/Dosada05/bracket-pool/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bs services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bs}
}

type importSeedingInput struct {
	Regions []models.Region `json:"regions"`
}

// GetBracket godoc
// @Summary Bracket for a tournament year
// @Tags bracket
// @Produce json
// @Param year path int true "Tournament year"
// @Success 200 {object} map[string]interface{} "Regions, games in play order, scoring rules"
// @Failure 400 {object} map[string]string "Invalid year"
// @Failure 404 {object} map[string]string "No seeding published"
// @Router /years/{year}/bracket [get]
func (h *BracketHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	year, err := getYearFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	graph, err := h.bracketService.GetGraph(r.Context(), year)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": graph}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ImportSeeding godoc
// @Summary Publish the seeding table of a year
// @Tags admin
// @Description Four regions of sixteen seeded teams. A year can be published once.
// @Accept json
// @Produce json
// @Param year path int true "Tournament year"
// @Param body body importSeedingInput true "Regions with their teams"
// @Success 201 {object} map[string]interface{} "Generated bracket"
// @Failure 400 {object} map[string]string "Malformed JSON"
// @Failure 409 {object} map[string]string "Year already published"
// @Failure 422 {object} map[string]interface{} "Seeding problems"
// @Security BearerAuth
// @Router /admin/years/{year}/seeding [put]
func (h *BracketHandler) ImportSeeding(w http.ResponseWriter, r *http.Request) {
	year, err := getYearFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input importSeedingInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	graph, err := h.bracketService.ImportSeeding(r.Context(), models.SeedingTable{Year: year, Regions: input.Regions})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bracket": graph}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
