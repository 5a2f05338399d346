package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Dosada05/bracket-pool/brackets"
	"github.com/Dosada05/bracket-pool/models"
	"github.com/Dosada05/bracket-pool/repositories"
	"golang.org/x/sync/errgroup"
)

const defaultScoringWorkers = 8

type StandingsService interface {
	GetStandings(ctx context.Context, year int) ([]models.Standing, error)
}

type standingsService struct {
	entryRepo      repositories.EntryRepository
	resultRepo     repositories.ResultRepository
	bracketService BracketService
	workers        int
	logger         *slog.Logger
	now            func() time.Time
}

func NewStandingsService(
	entryRepo repositories.EntryRepository,
	resultRepo repositories.ResultRepository,
	bracketService BracketService,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		entryRepo:      entryRepo,
		resultRepo:     resultRepo,
		bracketService: bracketService,
		workers:        defaultScoringWorkers,
		logger:         loggerOrDefault(logger),
		now:            time.Now,
	}
}

func (s *standingsService) GetStandings(ctx context.Context, year int) ([]models.Standing, error) {
	graph, err := s.bracketService.GetGraph(ctx, year)
	if err != nil {
		return nil, err
	}

	submitted := models.EntryStatusSubmitted
	entries, err := s.entryRepo.ListByYear(ctx, year, &submitted)
	if err != nil {
		return nil, fmt.Errorf("failed to list submitted entries for %d: %w", year, err)
	}
	stored, err := s.resultRepo.ListByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load results for %d: %w", year, err)
	}
	results := models.ResultSetFrom(stored)

	computedAt := s.now().UTC()
	standings := make([]models.Standing, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			score, err := brackets.ScoreBracket(graph, entry.Picks, results)
			if err != nil {
				return fmt.Errorf("failed to score entry %d: %w", entry.ID, err)
			}
			standings[i] = models.Standing{
				EntryID:     entry.ID,
				EntryName:   entry.Name,
				UserID:      entry.UserID,
				Total:       score.Total,
				BasePoints:  score.BasePoints,
				BonusPoints: score.BonusPoints,
				Correct:     score.Correct,
				MaxPossible: score.MaxPossible,
				ComputedAt:  computedAt,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rankStandings(standings)
	s.logger.Debug("standings computed", "year", year, "entries", len(standings), "results", len(results))
	return standings, nil
}

// rankStandings orders by total, then correct picks, then max possible.
// Rows equal on all three share a rank and the next rank is skipped.
func rankStandings(standings []models.Standing) {
	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		if a.Correct != b.Correct {
			return a.Correct > b.Correct
		}
		if a.MaxPossible != b.MaxPossible {
			return a.MaxPossible > b.MaxPossible
		}
		return a.EntryID < b.EntryID
	})

	for i := range standings {
		if i > 0 && tiedStanding(standings[i-1], standings[i]) {
			standings[i].Rank = standings[i-1].Rank
			continue
		}
		standings[i].Rank = i + 1
	}
}

func tiedStanding(a, b models.Standing) bool {
	return a.Total == b.Total && a.Correct == b.Correct && a.MaxPossible == b.MaxPossible
}
