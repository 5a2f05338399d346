package handlers

import (
	"net/http"

	"github.com/Dosada05/bracket-pool/middleware"
	"github.com/Dosada05/bracket-pool/models"
	"github.com/Dosada05/bracket-pool/services"
)

type EntryHandler struct {
	entryService services.EntryService
}

func NewEntryHandler(es services.EntryService) *EntryHandler {
	return &EntryHandler{entryService: es}
}

type createEntryInput struct {
	Name string `json:"name"`
}

type savePicksInput struct {
	Picks models.PickSet `json:"picks"`
}

// CreateEntry godoc
// @Summary Start a new bracket entry
// @Tags entries
// @Accept json
// @Produce json
// @Param year path int true "Tournament year"
// @Param body body createEntryInput true "Entry name"
// @Success 201 {object} map[string]interface{} "Created draft entry"
// @Failure 400 {object} map[string]string "Missing name"
// @Failure 404 {object} map[string]string "No bracket for this year"
// @Failure 409 {object} map[string]string "Name taken"
// @Security BearerAuth
// @Router /years/{year}/entries [post]
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	year, err := getYearFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input createEntryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entry, err := h.entryService.CreateEntry(r.Context(), userID, year, input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"entry": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMyEntries godoc
// @Summary Entries of the current user for a year
// @Tags entries
// @Produce json
// @Param year path int true "Tournament year"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /years/{year}/entries [get]
func (h *EntryHandler) ListMyEntries(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	year, err := getYearFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.entryService.ListEntries(r.Context(), year, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"entries": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetEntry godoc
// @Summary Entry with its picks
// @Tags entries
// @Description Drafts are visible to their owner only.
// @Produce json
// @Param entryID path int true "Entry ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /entries/{entryID} [get]
func (h *EntryHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	userID, entryID, ok := h.identify(w, r)
	if !ok {
		return
	}

	entry, err := h.entryService.GetEntry(r.Context(), userID, entryID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"entry": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SavePicks godoc
// @Summary Replace the picks of a draft entry
// @Tags entries
// @Description Partial pick sets are accepted; every pick must follow from the picks of its feeder games.
// @Accept json
// @Produce json
// @Param entryID path int true "Entry ID"
// @Param body body savePicksInput true "Game id to team id"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 409 {object} map[string]string "Entry already submitted"
// @Failure 422 {object} map[string]interface{} "Pick violations"
// @Security BearerAuth
// @Router /entries/{entryID}/picks [put]
func (h *EntryHandler) SavePicks(w http.ResponseWriter, r *http.Request) {
	userID, entryID, ok := h.identify(w, r)
	if !ok {
		return
	}

	var input savePicksInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Picks == nil {
		input.Picks = models.PickSet{}
	}

	entry, err := h.entryService.SavePicks(r.Context(), userID, entryID, input.Picks)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"entry": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CheckEntry godoc
// @Summary Report whether an entry can be submitted
// @Tags entries
// @Produce json
// @Param entryID path int true "Entry ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /entries/{entryID}/validation [get]
func (h *EntryHandler) CheckEntry(w http.ResponseWriter, r *http.Request) {
	userID, entryID, ok := h.identify(w, r)
	if !ok {
		return
	}

	result, err := h.entryService.CheckEntry(r.Context(), userID, entryID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"validation": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SubmitEntry godoc
// @Summary Submit a complete entry
// @Tags entries
// @Description Requires a pick for all 63 games. Submitted entries are frozen.
// @Produce json
// @Param entryID path int true "Entry ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Already submitted"
// @Failure 422 {object} map[string]interface{} "Incomplete or invalid picks"
// @Security BearerAuth
// @Router /entries/{entryID}/submit [post]
func (h *EntryHandler) SubmitEntry(w http.ResponseWriter, r *http.Request) {
	userID, entryID, ok := h.identify(w, r)
	if !ok {
		return
	}

	entry, err := h.entryService.SubmitEntry(r.Context(), userID, entryID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"entry": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ScoreEntry godoc
// @Summary Score an entry against the recorded results
// @Tags entries
// @Produce json
// @Param entryID path int true "Entry ID"
// @Success 200 {object} map[string]interface{} "Totals and per-game breakdown"
// @Security BearerAuth
// @Router /entries/{entryID}/score [get]
func (h *EntryHandler) ScoreEntry(w http.ResponseWriter, r *http.Request) {
	userID, entryID, ok := h.identify(w, r)
	if !ok {
		return
	}

	score, err := h.entryService.ScoreEntry(r.Context(), userID, entryID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"score": score}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EntryHandler) identify(w http.ResponseWriter, r *http.Request) (userID, entryID int, ok bool) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return 0, 0, false
	}
	entryID, err = getIDFromURL(r, "entryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, 0, false
	}
	return userID, entryID, true
}
