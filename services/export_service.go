package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/bracket-pool/models"
	"github.com/Dosada05/bracket-pool/storage"
)

type ExportService interface {
	ExportStandings(ctx context.Context, year int) (string, error)
}

type exportService struct {
	standingsService StandingsService
	store            storage.ObjectStore
	logger           *slog.Logger
}

// NewExportService accepts a nil store; exports then fail with ErrExportUnavailable.
func NewExportService(standingsService StandingsService, store storage.ObjectStore, logger *slog.Logger) ExportService {
	return &exportService{
		standingsService: standingsService,
		store:            store,
		logger:           loggerOrDefault(logger),
	}
}

func StandingsExportKey(year int) string {
	return fmt.Sprintf("standings/%d/standings.csv", year)
}

var standingsHeader = []string{
	"rank", "entry_id", "entry_name", "user_id", "total", "base_points", "bonus_points", "correct", "max_possible", "computed_at",
}

func (s *exportService) ExportStandings(ctx context.Context, year int) (string, error) {
	if s.store == nil {
		return "", ErrExportUnavailable
	}

	standings, err := s.standingsService.GetStandings(ctx, year)
	if err != nil {
		return "", err
	}

	body, err := renderStandingsCSV(standings)
	if err != nil {
		return "", fmt.Errorf("failed to render standings for %d: %w", year, err)
	}

	res, err := s.store.Put(ctx, StandingsExportKey(year), "text/csv; charset=utf-8", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to upload standings for %d: %w", year, err)
	}

	s.logger.Info("standings exported", "year", year, "entries", len(standings), "location", res.Location)
	return res.Location, nil
}

// spreadsheetSafe keeps user text from being read as a formula when the CSV is opened in a spreadsheet.
func spreadsheetSafe(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

func renderStandingsCSV(standings []models.Standing) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(standingsHeader); err != nil {
		return nil, err
	}
	for _, st := range standings {
		record := []string{
			strconv.Itoa(st.Rank),
			strconv.Itoa(st.EntryID),
			spreadsheetSafe(st.EntryName),
			strconv.Itoa(st.UserID),
			strconv.Itoa(st.Total),
			strconv.Itoa(st.BasePoints),
			strconv.Itoa(st.BonusPoints),
			strconv.Itoa(st.Correct),
			strconv.Itoa(st.MaxPossible),
			st.ComputedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
