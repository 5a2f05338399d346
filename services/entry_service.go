package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/bracket-pool/brackets"
	"github.com/Dosada05/bracket-pool/models"
	"github.com/Dosada05/bracket-pool/repositories"
)

const maxEntryNameLength = 64

type EntryService interface {
	CreateEntry(ctx context.Context, userID, year int, name string) (*models.Entry, error)
	GetEntry(ctx context.Context, userID, entryID int) (*models.Entry, error)
	ListEntries(ctx context.Context, year, userID int) ([]*models.Entry, error)
	SavePicks(ctx context.Context, userID, entryID int, picks models.PickSet) (*models.Entry, error)
	CheckEntry(ctx context.Context, userID, entryID int) (*brackets.ValidationResult, error)
	SubmitEntry(ctx context.Context, userID, entryID int) (*models.Entry, error)
	ScoreEntry(ctx context.Context, userID, entryID int) (*brackets.Score, error)
}

type entryService struct {
	entryRepo      repositories.EntryRepository
	resultRepo     repositories.ResultRepository
	bracketService BracketService
	logger         *slog.Logger
	now            func() time.Time
}

func NewEntryService(
	entryRepo repositories.EntryRepository,
	resultRepo repositories.ResultRepository,
	bracketService BracketService,
	logger *slog.Logger,
) EntryService {
	return &entryService{
		entryRepo:      entryRepo,
		resultRepo:     resultRepo,
		bracketService: bracketService,
		logger:         loggerOrDefault(logger),
		now:            time.Now,
	}
}

func (s *entryService) CreateEntry(ctx context.Context, userID, year int, name string) (*models.Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEntryNameRequired
	}
	if len(name) > maxEntryNameLength {
		return nil, fmt.Errorf("%w: entry name longer than %d characters", ErrValidationFailed, maxEntryNameLength)
	}

	// Entries only exist for years with a published bracket.
	if _, err := s.bracketService.GetGraph(ctx, year); err != nil {
		return nil, err
	}

	entry := &models.Entry{
		UserID: userID,
		Year:   year,
		Name:   name,
		Status: models.EntryStatusDraft,
		Picks:  models.PickSet{},
	}
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		if errors.Is(err, repositories.ErrEntryNameConflict) {
			return nil, ErrEntryNameConflict
		}
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	s.logger.Info("entry created", "entry_id", entry.ID, "user_id", userID, "year", year)
	return entry, nil
}

// GetEntry returns a draft only to its owner; submitted entries are public.
func (s *entryService) GetEntry(ctx context.Context, userID, entryID int) (*models.Entry, error) {
	entry, err := s.loadEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !entry.Frozen() && entry.UserID != userID {
		return nil, ErrEntryNotFound
	}
	return entry, nil
}

func (s *entryService) ListEntries(ctx context.Context, year, userID int) ([]*models.Entry, error) {
	if year <= 0 {
		return nil, ErrInvalidYear
	}
	entries, err := s.entryRepo.ListByUser(ctx, userID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for user %d: %w", userID, err)
	}
	if entries == nil {
		return []*models.Entry{}, nil
	}
	return entries, nil
}

func (s *entryService) SavePicks(ctx context.Context, userID, entryID int, picks models.PickSet) (*models.Entry, error) {
	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Frozen() {
		return nil, ErrEntryFrozen
	}

	graph, err := s.bracketService.GetGraph(ctx, entry.Year)
	if err != nil {
		return nil, err
	}

	picks = picks.Clone()
	if res := brackets.Validate(graph, picks); !res.OK {
		return nil, &PickValidationError{Result: res}
	}

	if err := s.entryRepo.ReplacePicks(ctx, entry.ID, picks); err != nil {
		if errors.Is(err, repositories.ErrEntryNotDraft) {
			return nil, ErrEntryFrozen
		}
		if errors.Is(err, repositories.ErrEntryNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to save picks for entry %d: %w", entry.ID, err)
	}

	entry.Picks = picks
	return entry, nil
}

func (s *entryService) CheckEntry(ctx context.Context, userID, entryID int) (*brackets.ValidationResult, error) {
	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	graph, err := s.bracketService.GetGraph(ctx, entry.Year)
	if err != nil {
		return nil, err
	}
	res := brackets.ValidateComplete(graph, entry.Picks)
	return &res, nil
}

func (s *entryService) SubmitEntry(ctx context.Context, userID, entryID int) (*models.Entry, error) {
	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Frozen() {
		return nil, ErrEntryFrozen
	}

	graph, err := s.bracketService.GetGraph(ctx, entry.Year)
	if err != nil {
		return nil, err
	}

	// Completeness is checked against the picks the repository holds under
	// its lock, not the copy loaded above.
	var submitted models.PickSet
	at := s.now().UTC()
	err = s.entryRepo.MarkSubmitted(ctx, entry.ID, at, func(picks models.PickSet) error {
		if res := brackets.ValidateComplete(graph, picks); !res.OK {
			return &PickValidationError{Result: res}
		}
		submitted = picks
		return nil
	})
	if err != nil {
		var perr *PickValidationError
		switch {
		case errors.As(err, &perr):
			return nil, perr
		case errors.Is(err, repositories.ErrEntryNotDraft):
			return nil, ErrEntryFrozen
		case errors.Is(err, repositories.ErrEntryNotFound):
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to submit entry %d: %w", entry.ID, err)
	}

	entry.Picks = submitted
	entry.Status = models.EntryStatusSubmitted
	entry.SubmittedAt = &at
	s.logger.Info("entry submitted", "entry_id", entry.ID, "user_id", userID, "year", entry.Year)
	return entry, nil
}

func (s *entryService) ScoreEntry(ctx context.Context, userID, entryID int) (*brackets.Score, error) {
	entry, err := s.GetEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	graph, err := s.bracketService.GetGraph(ctx, entry.Year)
	if err != nil {
		return nil, err
	}
	results, err := s.resultRepo.ListByYear(ctx, entry.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to load results for %d: %w", entry.Year, err)
	}
	return brackets.ScoreBracket(graph, entry.Picks, models.ResultSetFrom(results))
}

func (s *entryService) loadEntry(ctx context.Context, entryID int) (*models.Entry, error) {
	entry, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repositories.ErrEntryNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to load entry %d: %w", entryID, err)
	}
	return entry, nil
}

func (s *entryService) ownedEntry(ctx context.Context, userID, entryID int) (*models.Entry, error) {
	entry, err := s.loadEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, ErrForbiddenOperation
	}
	return entry, nil
}
