package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/bracket-pool/models"
	"github.com/lib/pq"
)

var (
	ErrEntryNotFound     = errors.New("entry not found")
	ErrEntryNameConflict = errors.New("entry name already taken for this year")
	ErrEntryNotDraft     = errors.New("entry is not a draft")
)

type EntryRepository interface {
	Create(ctx context.Context, entry *models.Entry) error
	GetByID(ctx context.Context, id int) (*models.Entry, error)
	ListByYear(ctx context.Context, year int, status *models.EntryStatus) ([]*models.Entry, error)
	ListByUser(ctx context.Context, userID, year int) ([]*models.Entry, error)
	ReplacePicks(ctx context.Context, entryID int, picks models.PickSet) error
	MarkSubmitted(ctx context.Context, entryID int, at time.Time, check func(models.PickSet) error) error
}

type postgresEntryRepository struct {
	db *sql.DB
}

func NewPostgresEntryRepository(db *sql.DB) EntryRepository {
	return &postgresEntryRepository{db: db}
}

const entryColumns = `id, user_id, year, name, status, created_at, submitted_at`

func (r *postgresEntryRepository) Create(ctx context.Context, entry *models.Entry) error {
	query := `
		INSERT INTO entries (user_id, year, name, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, entry.UserID, entry.Year, entry.Name, entry.Status).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		if constraint, ok := pqConstraint(err, pqUniqueViolation); ok && constraint == "entries_year_name_key" {
			return ErrEntryNameConflict
		}
		return fmt.Errorf("failed to create entry: %w", err)
	}
	if entry.Picks == nil {
		entry.Picks = models.PickSet{}
	}
	return nil
}

func (r *postgresEntryRepository) GetByID(ctx context.Context, id int) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`
	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get entry %d: %w", id, err)
	}
	if err := r.attachPicks(ctx, []*models.Entry{entry}); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *postgresEntryRepository) ListByYear(ctx context.Context, year int, status *models.EntryStatus) ([]*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE year = $1`
	args := []interface{}{year}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY id ASC`
	return r.list(ctx, query, args...)
}

func (r *postgresEntryRepository) ListByUser(ctx context.Context, userID, year int) ([]*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE user_id = $1 AND year = $2 ORDER BY id ASC`
	return r.list(ctx, query, userID, year)
}

// ReplacePicks swaps the whole pick set of a draft entry in one transaction.
func (r *postgresEntryRepository) ReplacePicks(ctx context.Context, entryID int, picks models.PickSet) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockDraft(ctx, tx, entryID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM entry_picks WHERE entry_id = $1`, entryID); err != nil {
			return fmt.Errorf("failed to clear picks for entry %d: %w", entryID, err)
		}

		rows := make([][]interface{}, 0, len(picks))
		for gameID, teamID := range picks {
			rows = append(rows, []interface{}{entryID, gameID, teamID})
		}
		return copyRows(ctx, tx, "entry_picks", []string{"entry_id", "game_id", "team_id"}, rows)
	})
}

// MarkSubmitted freezes a draft entry. check sees the picks as stored under
// the row lock and can veto the submission with its own error.
func (r *postgresEntryRepository) MarkSubmitted(ctx context.Context, entryID int, at time.Time, check func(models.PickSet) error) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockDraft(ctx, tx, entryID); err != nil {
			return err
		}

		picks, err := loadPicks(ctx, tx, entryID)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(picks); err != nil {
				return err
			}
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE entries SET status = $1, submitted_at = $2 WHERE id = $3 AND status = $4`,
			models.EntryStatusSubmitted, at, entryID, models.EntryStatusDraft)
		if err != nil {
			return fmt.Errorf("failed to submit entry %d: %w", entryID, err)
		}
		return checkAffectedRows(result, ErrEntryNotDraft)
	})
}

// lockDraft takes the row lock on an entry and fails unless it is still a draft.
func lockDraft(ctx context.Context, tx *sql.Tx, entryID int) error {
	var status models.EntryStatus
	err := tx.QueryRowContext(ctx, `SELECT status FROM entries WHERE id = $1 FOR UPDATE`, entryID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("failed to lock entry %d: %w", entryID, err)
	}
	if status != models.EntryStatusDraft {
		return ErrEntryNotDraft
	}
	return nil
}

func loadPicks(ctx context.Context, tx *sql.Tx, entryID int) (models.PickSet, error) {
	rows, err := tx.QueryContext(ctx, `SELECT game_id, team_id FROM entry_picks WHERE entry_id = $1`, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load picks for entry %d: %w", entryID, err)
	}
	defer rows.Close()

	picks := models.PickSet{}
	for rows.Next() {
		var gameID, teamID string
		if err := rows.Scan(&gameID, &teamID); err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		picks[gameID] = teamID
	}
	return picks, rows.Err()
}

func (r *postgresEntryRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachPicks(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// attachPicks loads picks for all entries with a single query.
func (r *postgresEntryRepository) attachPicks(ctx context.Context, entries []*models.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	byID := make(map[int]*models.Entry, len(entries))
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		e.Picks = models.PickSet{}
		byID[e.ID] = e
		ids = append(ids, int64(e.ID))
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT entry_id, game_id, team_id FROM entry_picks WHERE entry_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load picks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entryID        int
			gameID, teamID string
		)
		if err := rows.Scan(&entryID, &gameID, &teamID); err != nil {
			return fmt.Errorf("failed to scan pick: %w", err)
		}
		if e, ok := byID[entryID]; ok {
			e.Picks[gameID] = teamID
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	entry := &models.Entry{}
	var submittedAt sql.NullTime
	if err := row.Scan(&entry.ID, &entry.UserID, &entry.Year, &entry.Name, &entry.Status, &entry.CreatedAt, &submittedAt); err != nil {
		return nil, err
	}
	if submittedAt.Valid {
		t := submittedAt.Time
		entry.SubmittedAt = &t
	}
	return entry, nil
}
