package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/bracket-pool/models"
)

var (
	ErrSeedingNotFound = errors.New("seeding not found")
	ErrSeedingConflict = errors.New("seeding already published for year")
)

type SeedingRepository interface {
	Create(ctx context.Context, table *models.SeedingTable) error
	GetByYear(ctx context.Context, year int) (*models.SeedingTable, error)
}

type postgresSeedingRepository struct {
	db *sql.DB
}

func NewPostgresSeedingRepository(db *sql.DB) SeedingRepository {
	return &postgresSeedingRepository{db: db}
}

func (r *postgresSeedingRepository) Create(ctx context.Context, table *models.SeedingTable) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, region := range table.Regions {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO seeding_regions (year, name, position) VALUES ($1, $2, $3)`,
				table.Year, region.Name, region.Position)
			if err != nil {
				return err
			}
		}

		rows := make([][]interface{}, 0, 64)
		for _, region := range table.Regions {
			for _, team := range region.Teams {
				rows = append(rows, []interface{}{table.Year, team.ID, team.Name, team.Seed, region.Name})
			}
		}
		return copyRows(ctx, tx, "seeding_teams", []string{"year", "id", "name", "seed", "region"}, rows)
	})
	if err != nil {
		if _, ok := pqConstraint(err, pqUniqueViolation); ok {
			return ErrSeedingConflict
		}
		return fmt.Errorf("failed to create seeding for %d: %w", table.Year, err)
	}
	return nil
}

func (r *postgresSeedingRepository) GetByYear(ctx context.Context, year int) (*models.SeedingTable, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, position FROM seeding_regions WHERE year = $1 ORDER BY position, name`, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list regions for %d: %w", year, err)
	}
	defer rows.Close()

	table := &models.SeedingTable{Year: year}
	index := make(map[string]int)
	for rows.Next() {
		var region models.Region
		if err := rows.Scan(&region.Name, &region.Position); err != nil {
			return nil, fmt.Errorf("failed to scan region: %w", err)
		}
		index[region.Name] = len(table.Regions)
		table.Regions = append(table.Regions, region)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(table.Regions) == 0 {
		return nil, ErrSeedingNotFound
	}

	teamRows, err := r.db.QueryContext(ctx,
		`SELECT id, name, seed, region FROM seeding_teams WHERE year = $1 ORDER BY region, seed`, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for %d: %w", year, err)
	}
	defer teamRows.Close()

	for teamRows.Next() {
		var team models.Team
		if err := teamRows.Scan(&team.ID, &team.Name, &team.Seed, &team.Region); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		i, ok := index[team.Region]
		if !ok {
			return nil, fmt.Errorf("team %s references unknown region %s", team.ID, team.Region)
		}
		table.Regions[i].Teams = append(table.Regions[i].Teams, team)
	}
	return table, teamRows.Err()
}
