package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Dosada05/bracket-pool/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStandingsRanksSubmittedEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	chalkPicks := chalk(f.graph, nil)
	upsetPicks := chalk(f.graph, map[string]string{"east-r64-2": "east-09"})

	a := f.submitted(1, "chalk", chalkPicks)
	b := f.submitted(2, "upset", upsetPicks)
	c := f.submitted(3, "chalk twin", chalkPicks)
	f.entries.put(models.Entry{UserID: 4, Year: testYear, Name: "draft", Status: models.EntryStatusDraft, Picks: models.PickSet(chalkPicks)})

	f.results.load(testYear, map[string]string{"east-r64-1": "east-01", "east-r64-2": "east-09"})

	standings, err := f.standings.GetStandings(ctx, testYear)
	require.NoError(t, err)
	require.Len(t, standings, 3, "drafts are not ranked")

	assert.Equal(t, b.ID, standings[0].EntryID)
	assert.Equal(t, 1, standings[0].Rank)
	assert.Equal(t, 1+3, standings[0].Total)
	assert.Equal(t, 2, standings[0].BonusPoints)
	assert.Equal(t, 2, standings[0].Correct)

	assert.Equal(t, []int{a.ID, c.ID}, []int{standings[1].EntryID, standings[2].EntryID})
	assert.Equal(t, 2, standings[1].Rank)
	assert.Equal(t, 2, standings[2].Rank)
	assert.Equal(t, 1, standings[1].Total)
	assert.False(t, standings[1].ComputedAt.IsZero())
}

func TestRankStandingsTieBreaks(t *testing.T) {
	standings := []models.Standing{
		{EntryID: 1, Total: 10, Correct: 5, MaxPossible: 100},
		{EntryID: 2, Total: 12, Correct: 4, MaxPossible: 90},
		{EntryID: 3, Total: 10, Correct: 6, MaxPossible: 80},
		{EntryID: 4, Total: 10, Correct: 5, MaxPossible: 120},
		{EntryID: 5, Total: 10, Correct: 5, MaxPossible: 100},
		{EntryID: 6, Total: 3, Correct: 1, MaxPossible: 50},
	}
	rankStandings(standings)

	var order, ranks []int
	for _, s := range standings {
		order = append(order, s.EntryID)
		ranks = append(ranks, s.Rank)
	}
	assert.Equal(t, []int{2, 3, 4, 1, 5, 6}, order)
	assert.Equal(t, []int{1, 2, 3, 4, 4, 6}, ranks)
}

func TestGetStandingsEmptyYear(t *testing.T) {
	f := newFixture(t)
	standings, err := f.standings.GetStandings(context.Background(), testYear)
	require.NoError(t, err)
	assert.Empty(t, standings)

	_, err = f.standings.GetStandings(context.Background(), 1999)
	assert.ErrorIs(t, err, ErrSeedingNotFound)
}

func TestGetStandingsPropagatesRepositoryErrors(t *testing.T) {
	f := newFixture(t)
	f.results.listErr = errors.New("connection reset")

	_, err := f.standings.GetStandings(context.Background(), testYear)
	assert.ErrorContains(t, err, "connection reset")
}

func TestGetStandingsManyEntries(t *testing.T) {
	f := newFixture(t)
	picks := chalk(f.graph, nil)
	for i := 0; i < 40; i++ {
		f.submitted(100+i, fmt.Sprintf("entry %d", i), picks)
	}
	f.results.load(testYear, map[string]string{"west-r64-1": "west-01"})

	standings, err := f.standings.GetStandings(context.Background(), testYear)
	require.NoError(t, err)
	require.Len(t, standings, 40)
	for _, s := range standings {
		assert.Equal(t, 1, s.Rank)
		assert.Equal(t, 1, s.Total)
	}
}
