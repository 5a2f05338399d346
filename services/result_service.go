package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Dosada05/bracket-pool/brackets"
	"github.com/Dosada05/bracket-pool/hub"
	"github.com/Dosada05/bracket-pool/models"
	"github.com/Dosada05/bracket-pool/repositories"
)

// Broadcaster pushes live updates to subscribers of a room.
type Broadcaster interface {
	BroadcastToRoom(room string, message hub.Message)
}

type ResultService interface {
	RecordResult(ctx context.Context, year int, gameID, winnerTeamID string) (*models.GameResult, error)
	RemoveResult(ctx context.Context, year int, gameID string) error
	GetResults(ctx context.Context, year int) ([]models.GameResult, error)
}

type resultService struct {
	resultRepo       repositories.ResultRepository
	bracketService   BracketService
	standingsService StandingsService
	broadcaster      Broadcaster
	logger           *slog.Logger

	// mu serialises the read-check-write of a year's results.
	mu sync.Mutex
}

func NewResultService(
	resultRepo repositories.ResultRepository,
	bracketService BracketService,
	standingsService StandingsService,
	broadcaster Broadcaster,
	logger *slog.Logger,
) ResultService {
	return &resultService{
		resultRepo:       resultRepo,
		bracketService:   bracketService,
		standingsService: standingsService,
		broadcaster:      broadcaster,
		logger:           loggerOrDefault(logger),
	}
}

type resultRemovedPayload struct {
	Year   int    `json:"year"`
	GameID string `json:"game_id"`
}

type standingsPayload struct {
	Year      int               `json:"year"`
	Standings []models.Standing `json:"standings"`
}

func (s *resultService) RecordResult(ctx context.Context, year int, gameID, winnerTeamID string) (*models.GameResult, error) {
	graph, err := s.bracketService.GetGraph(ctx, year)
	if err != nil {
		return nil, err
	}
	if _, ok := graph.Game(gameID); !ok {
		return nil, ErrUnknownGame
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.currentResults(ctx, year)
	if err != nil {
		return nil, err
	}
	current[gameID] = winnerTeamID
	if res := brackets.ValidateResults(graph, current); !res.OK {
		return nil, &brackets.InconsistentResultSetError{Violations: res.Violations}
	}

	result := &models.GameResult{Year: year, GameID: gameID, WinnerTeamID: winnerTeamID}
	if err := s.resultRepo.Upsert(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to record result: %w", err)
	}

	s.logger.Info("result recorded", "year", year, "game_id", gameID, "winner_team_id", winnerTeamID)
	s.broadcast(year, hub.MessageResultRecorded, result)
	s.broadcastStandings(ctx, year)
	return result, nil
}

func (s *resultService) RemoveResult(ctx context.Context, year int, gameID string) error {
	graph, err := s.bracketService.GetGraph(ctx, year)
	if err != nil {
		return err
	}
	game, ok := graph.Game(gameID)
	if !ok {
		return ErrUnknownGame
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.currentResults(ctx, year)
	if err != nil {
		return err
	}
	if _, recorded := current[gameID]; !recorded {
		return ErrResultNotFound
	}
	if game.Next != "" {
		if _, dependent := current[game.Next]; dependent {
			return ErrResultHasDependents
		}
	}

	if err := s.resultRepo.Delete(ctx, year, gameID); err != nil {
		if errors.Is(err, repositories.ErrResultNotFound) {
			return ErrResultNotFound
		}
		return fmt.Errorf("failed to remove result: %w", err)
	}

	s.logger.Info("result removed", "year", year, "game_id", gameID)
	s.broadcast(year, hub.MessageResultRemoved, resultRemovedPayload{Year: year, GameID: gameID})
	s.broadcastStandings(ctx, year)
	return nil
}

func (s *resultService) GetResults(ctx context.Context, year int) ([]models.GameResult, error) {
	if _, err := s.bracketService.GetGraph(ctx, year); err != nil {
		return nil, err
	}
	results, err := s.resultRepo.ListByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list results for %d: %w", year, err)
	}
	return results, nil
}

func (s *resultService) currentResults(ctx context.Context, year int) (models.ResultSet, error) {
	stored, err := s.resultRepo.ListByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load results for %d: %w", year, err)
	}
	return models.ResultSetFrom(stored), nil
}

func (s *resultService) broadcast(year int, messageType string, payload interface{}) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastToRoom(hub.YearRoom(year), hub.Message{Type: messageType, Payload: payload})
}

func (s *resultService) broadcastStandings(ctx context.Context, year int) {
	if s.broadcaster == nil || s.standingsService == nil {
		return
	}
	standings, err := s.standingsService.GetStandings(ctx, year)
	if err != nil {
		s.logger.Error("failed to refresh standings after result change", "year", year, "error", err)
		return
	}
	s.broadcast(year, hub.MessageStandings, standingsPayload{Year: year, Standings: standings})
}
