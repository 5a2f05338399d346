package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/bracket-pool/models"
)

var ErrResultNotFound = errors.New("game result not found")

type ResultRepository interface {
	ListByYear(ctx context.Context, year int) ([]models.GameResult, error)
	Upsert(ctx context.Context, result *models.GameResult) error
	Delete(ctx context.Context, year int, gameID string) error
}

type postgresResultRepository struct {
	db *sql.DB
}

func NewPostgresResultRepository(db *sql.DB) ResultRepository {
	return &postgresResultRepository{db: db}
}

func (r *postgresResultRepository) ListByYear(ctx context.Context, year int) ([]models.GameResult, error) {
	query := `
		SELECT year, game_id, winner_team_id, recorded_at
		FROM game_results
		WHERE year = $1
		ORDER BY recorded_at ASC, game_id ASC`
	rows, err := r.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list results for %d: %w", year, err)
	}
	defer rows.Close()

	results := make([]models.GameResult, 0)
	for rows.Next() {
		var res models.GameResult
		if err := rows.Scan(&res.Year, &res.GameID, &res.WinnerTeamID, &res.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// Upsert records a winner, replacing any earlier correction for the same game.
func (r *postgresResultRepository) Upsert(ctx context.Context, result *models.GameResult) error {
	query := `
		INSERT INTO game_results (year, game_id, winner_team_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (year, game_id)
		DO UPDATE SET winner_team_id = EXCLUDED.winner_team_id, recorded_at = now()
		RETURNING recorded_at`
	err := r.db.QueryRowContext(ctx, query, result.Year, result.GameID, result.WinnerTeamID).Scan(&result.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to record result for %s: %w", result.GameID, err)
	}
	return nil
}

func (r *postgresResultRepository) Delete(ctx context.Context, year int, gameID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM game_results WHERE year = $1 AND game_id = $2`, year, gameID)
	if err != nil {
		return fmt.Errorf("failed to delete result for %s: %w", gameID, err)
	}
	return checkAffectedRows(result, ErrResultNotFound)
}
