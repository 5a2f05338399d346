package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/bracket-pool/brackets"
	"github.com/Dosada05/bracket-pool/hub"
	"github.com/Dosada05/bracket-pool/models"
	"github.com/Dosada05/bracket-pool/repositories"
	"github.com/Dosada05/bracket-pool/storage"
	"github.com/stretchr/testify/require"
)

const testYear = 2025

func testSeeding(year int) models.SeedingTable {
	regions := []struct {
		name     string
		position models.RegionPosition
	}{
		{"East", models.PositionTopLeft},
		{"West", models.PositionBottomLeft},
		{"South", models.PositionTopRight},
		{"Midwest", models.PositionBottomRight},
	}
	table := models.SeedingTable{Year: year}
	for _, r := range regions {
		region := models.Region{Name: r.name, Position: r.position}
		for seed := 1; seed <= brackets.TeamsPerRegion; seed++ {
			region.Teams = append(region.Teams, models.Team{
				ID:   fmt.Sprintf("%s-%02d", brackets.RegionSlug(r.name), seed),
				Name: fmt.Sprintf("%s %d", r.name, seed),
				Seed: seed,
			})
		}
		table.Regions = append(table.Regions, region)
	}
	return table
}

// chalk plays every game in order with the better seed winning unless overridden.
func chalk(g *brackets.Graph, overrides map[string]string) map[string]string {
	winners := make(map[string]string, g.Len())
	for _, game := range g.Games() {
		if w, ok := overrides[game.ID]; ok {
			winners[game.ID] = w
			continue
		}
		sides := g.Contestants(game, winners)
		a, _ := g.Team(sides[0])
		b, _ := g.Team(sides[1])
		if b.Seed < a.Seed {
			winners[game.ID] = b.ID
		} else {
			winners[game.ID] = a.ID
		}
	}
	return winners
}

type fakeSeedingRepo struct {
	mu     sync.Mutex
	tables map[int]models.SeedingTable
	gets   int
	delay  time.Duration
}

func newFakeSeedingRepo() *fakeSeedingRepo {
	return &fakeSeedingRepo{tables: make(map[int]models.SeedingTable)}
}

func (r *fakeSeedingRepo) Create(_ context.Context, table *models.SeedingTable) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tables[table.Year]; ok {
		return repositories.ErrSeedingConflict
	}
	r.tables[table.Year] = *table
	return nil
}

func (r *fakeSeedingRepo) GetByYear(ctx context.Context, year int) (*models.SeedingTable, error) {
	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	table, ok := r.tables[year]
	if !ok {
		return nil, repositories.ErrSeedingNotFound
	}
	return &table, nil
}

func (r *fakeSeedingRepo) getCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gets
}

type fakeEntryRepo struct {
	mu      sync.Mutex
	nextID  int
	entries map[int]*models.Entry

	// beforeSubmit runs under the lock, ahead of the submit check.
	beforeSubmit func(e *models.Entry)
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: make(map[int]*models.Entry)}
}

func copyEntry(e *models.Entry) *models.Entry {
	c := *e
	c.Picks = e.Picks.Clone()
	return &c
}

func (r *fakeEntryRepo) Create(_ context.Context, entry *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.Year == entry.Year && e.Name == entry.Name {
			return repositories.ErrEntryNameConflict
		}
	}
	r.nextID++
	entry.ID = r.nextID
	entry.CreatedAt = time.Date(2025, 3, 17, 12, 0, 0, 0, time.UTC)
	r.entries[entry.ID] = copyEntry(entry)
	return nil
}

func (r *fakeEntryRepo) GetByID(_ context.Context, id int) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, repositories.ErrEntryNotFound
	}
	return copyEntry(e), nil
}

func (r *fakeEntryRepo) ListByYear(_ context.Context, year int, status *models.EntryStatus) ([]*models.Entry, error) {
	return r.filter(func(e *models.Entry) bool {
		return e.Year == year && (status == nil || e.Status == *status)
	}), nil
}

func (r *fakeEntryRepo) ListByUser(_ context.Context, userID, year int) ([]*models.Entry, error) {
	return r.filter(func(e *models.Entry) bool { return e.UserID == userID && e.Year == year }), nil
}

func (r *fakeEntryRepo) filter(keep func(*models.Entry) bool) []*models.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Entry, 0)
	for _, e := range r.entries {
		if keep(e) {
			out = append(out, copyEntry(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeEntryRepo) ReplacePicks(_ context.Context, entryID int, picks models.PickSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[entryID]
	if !ok {
		return repositories.ErrEntryNotFound
	}
	if e.Status != models.EntryStatusDraft {
		return repositories.ErrEntryNotDraft
	}
	e.Picks = picks.Clone()
	return nil
}

func (r *fakeEntryRepo) MarkSubmitted(_ context.Context, entryID int, at time.Time, check func(models.PickSet) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[entryID]
	if !ok {
		return repositories.ErrEntryNotFound
	}
	if e.Status != models.EntryStatusDraft {
		return repositories.ErrEntryNotDraft
	}
	if r.beforeSubmit != nil {
		r.beforeSubmit(e)
	}
	if check != nil {
		if err := check(e.Picks.Clone()); err != nil {
			return err
		}
	}
	e.Status = models.EntryStatusSubmitted
	e.SubmittedAt = &at
	return nil
}

// put stores an entry directly, bypassing the service.
func (r *fakeEntryRepo) put(e models.Entry) *models.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	e.ID = r.nextID
	r.entries[e.ID] = copyEntry(&e)
	return copyEntry(&e)
}

type fakeResultRepo struct {
	mu      sync.Mutex
	results map[int]map[string]models.GameResult
	listErr error
	clock   int
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{results: make(map[int]map[string]models.GameResult)}
}

func (r *fakeResultRepo) ListByYear(_ context.Context, year int) ([]models.GameResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]models.GameResult, 0, len(r.results[year]))
	for _, res := range r.results[year] {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

func (r *fakeResultRepo) Upsert(_ context.Context, result *models.GameResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.results[result.Year] == nil {
		r.results[result.Year] = make(map[string]models.GameResult)
	}
	r.clock++
	result.RecordedAt = time.Date(2025, 3, 20, 0, 0, r.clock, 0, time.UTC)
	r.results[result.Year][result.GameID] = *result
	return nil
}

func (r *fakeResultRepo) Delete(_ context.Context, year int, gameID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.results[year][gameID]; !ok {
		return repositories.ErrResultNotFound
	}
	delete(r.results[year], gameID)
	return nil
}

// load records winners without going through the consistency check.
func (r *fakeResultRepo) load(year int, winners map[string]string) {
	for gameID, teamID := range winners {
		_ = r.Upsert(context.Background(), &models.GameResult{Year: year, GameID: gameID, WinnerTeamID: teamID})
	}
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	messages []hub.Message
	rooms    []string
}

func (b *fakeBroadcaster) BroadcastToRoom(room string, message hub.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rooms = append(b.rooms, room)
	b.messages = append(b.messages, message)
}

func (b *fakeBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.messages))
	for i, m := range b.messages {
		out[i] = m.Type
	}
	return out
}

type fakeStore struct {
	key         string
	contentType string
	body        []byte
	err         error
}

func (s *fakeStore) Put(_ context.Context, key, contentType string, body io.Reader) (*storage.PutResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return nil, err
	}
	s.key, s.contentType, s.body = key, contentType, buf.Bytes()
	return &storage.PutResult{Key: key, Location: s.PublicURL(key)}, nil
}

func (s *fakeStore) PublicURL(key string) string { return "https://cdn.example.com/" + key }

type fixture struct {
	seeding   *fakeSeedingRepo
	entries   *fakeEntryRepo
	results   *fakeResultRepo
	hub       *fakeBroadcaster
	bracket   BracketService
	entry     EntryService
	standings StandingsService
	result    ResultService
	graph     *brackets.Graph
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		seeding: newFakeSeedingRepo(),
		entries: newFakeEntryRepo(),
		results: newFakeResultRepo(),
		hub:     &fakeBroadcaster{},
	}
	f.bracket = NewBracketService(f.seeding, brackets.DefaultScoringRules(), brackets.DefaultFinalFourPairing(), nil)
	f.entry = NewEntryService(f.entries, f.results, f.bracket, nil)
	f.standings = NewStandingsService(f.entries, f.results, f.bracket, nil)
	f.result = NewResultService(f.results, f.bracket, f.standings, f.hub, nil)

	g, err := f.bracket.ImportSeeding(context.Background(), testSeeding(testYear))
	require.NoError(t, err)
	f.graph = g
	return f
}

// submitted stores a submitted entry for userID with the given picks.
func (f *fixture) submitted(userID int, name string, picks map[string]string) *models.Entry {
	now := time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC)
	return f.entries.put(models.Entry{
		UserID:      userID,
		Year:        testYear,
		Name:        name,
		Status:      models.EntryStatusSubmitted,
		Picks:       models.PickSet(picks).Clone(),
		SubmittedAt: &now,
	})
}
