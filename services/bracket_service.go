package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/Dosada05/bracket-pool/brackets"
	"github.com/Dosada05/bracket-pool/models"
	"github.com/Dosada05/bracket-pool/repositories"
	"golang.org/x/sync/singleflight"
)

type BracketService interface {
	ImportSeeding(ctx context.Context, table models.SeedingTable) (*brackets.Graph, error)
	GetGraph(ctx context.Context, year int) (*brackets.Graph, error)
}

type bracketService struct {
	seedingRepo repositories.SeedingRepository
	generator   brackets.BracketGenerator
	rules       brackets.ScoringRules
	pairing     brackets.FinalFourPairing
	logger      *slog.Logger

	mu     sync.RWMutex
	graphs map[int]*brackets.Graph
	group  singleflight.Group
}

func NewBracketService(
	seedingRepo repositories.SeedingRepository,
	rules brackets.ScoringRules,
	pairing brackets.FinalFourPairing,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		seedingRepo: seedingRepo,
		generator:   brackets.NewRegionalGenerator(),
		rules:       rules,
		pairing:     pairing,
		logger:      loggerOrDefault(logger),
		graphs:      make(map[int]*brackets.Graph),
	}
}

func (s *bracketService) ImportSeeding(ctx context.Context, table models.SeedingTable) (*brackets.Graph, error) {
	if table.Year <= 0 {
		return nil, ErrInvalidYear
	}

	graph, err := s.generate(table)
	if err != nil {
		return nil, err
	}

	if err := s.seedingRepo.Create(ctx, &table); err != nil {
		if errors.Is(err, repositories.ErrSeedingConflict) {
			return nil, ErrSeedingAlreadyPublished
		}
		return nil, fmt.Errorf("failed to store seeding for %d: %w", table.Year, err)
	}

	s.mu.Lock()
	s.graphs[table.Year] = graph
	s.mu.Unlock()

	s.logger.Info("seeding imported", "year", table.Year, "games", graph.Len())
	return graph, nil
}

func (s *bracketService) GetGraph(ctx context.Context, year int) (*brackets.Graph, error) {
	if year <= 0 {
		return nil, ErrInvalidYear
	}

	s.mu.RLock()
	graph, ok := s.graphs[year]
	s.mu.RUnlock()
	if ok {
		return graph, nil
	}

	// The load is shared by every waiter, so one caller's cancellation must not end it.
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(strconv.Itoa(year), func() (interface{}, error) {
		s.mu.RLock()
		cached, ok := s.graphs[year]
		s.mu.RUnlock()
		if ok {
			return cached, nil
		}

		table, err := s.seedingRepo.GetByYear(loadCtx, year)
		if err != nil {
			if errors.Is(err, repositories.ErrSeedingNotFound) {
				return nil, ErrSeedingNotFound
			}
			return nil, fmt.Errorf("failed to load seeding for %d: %w", year, err)
		}
		graph, err := s.generate(*table)
		if err != nil {
			return nil, fmt.Errorf("stored seeding for %d no longer generates a bracket: %w", year, err)
		}

		s.mu.Lock()
		s.graphs[year] = graph
		s.mu.Unlock()
		return graph, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*brackets.Graph), nil
}

func (s *bracketService) generate(table models.SeedingTable) (*brackets.Graph, error) {
	return s.generator.GenerateBracket(brackets.GenerateBracketParams{
		Seeding: table,
		Rules:   s.rules,
		Pairing: s.pairing,
	})
}
