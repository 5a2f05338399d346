package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/bracket-pool/brackets"
	"github.com/Dosada05/bracket-pool/hub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordResult(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.submitted(1, "chalk", chalk(f.graph, nil))

	res, err := f.result.RecordResult(ctx, testYear, "east-r64-1", "east-01")
	require.NoError(t, err)
	assert.Equal(t, "east-01", res.WinnerTeamID)
	assert.False(t, res.RecordedAt.IsZero())

	results, err := f.result.GetResults(ctx, testYear)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, []string{hub.MessageResultRecorded, hub.MessageStandings}, f.hub.types())
	assert.Equal(t, []string{hub.YearRoom(testYear), hub.YearRoom(testYear)}, f.hub.rooms)
}

func TestRecordResultRejectsInconsistentSets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// No result yet for east-r64-2, so nothing can advance into east-r32-1.
	_, err := f.result.RecordResult(ctx, testYear, "east-r32-1", "east-01")
	var inconsistent *brackets.InconsistentResultSetError
	require.True(t, errors.As(err, &inconsistent))

	_, err = f.result.RecordResult(ctx, testYear, "east-r64-1", "east-05")
	require.ErrorAs(t, err, &inconsistent)
	assert.Equal(t, "east-r64-1", inconsistent.Violations[0].GameID)

	_, err = f.result.RecordResult(ctx, testYear, "east-r64-1", "nobody")
	require.ErrorAs(t, err, &inconsistent)

	_, err = f.result.RecordResult(ctx, testYear, "play-in-1", "east-16")
	assert.ErrorIs(t, err, ErrUnknownGame)

	results, err := f.result.GetResults(ctx, testYear)
	require.NoError(t, err)
	assert.Empty(t, results, "rejected results are never stored")
	assert.Empty(t, f.hub.types())
}

func TestCorrectingAResultWithDependents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, r := range [][2]string{
		{"east-r64-1", "east-01"},
		{"east-r64-2", "east-08"},
		{"east-r32-1", "east-01"},
	} {
		_, err := f.result.RecordResult(ctx, testYear, r[0], r[1])
		require.NoError(t, err, r[0])
	}

	// Flipping east-r64-1 would orphan the east-r32-1 winner.
	_, err := f.result.RecordResult(ctx, testYear, "east-r64-1", "east-16")
	var inconsistent *brackets.InconsistentResultSetError
	require.ErrorAs(t, err, &inconsistent)

	err = f.result.RemoveResult(ctx, testYear, "east-r64-1")
	assert.ErrorIs(t, err, ErrResultHasDependents)

	require.NoError(t, f.result.RemoveResult(ctx, testYear, "east-r32-1"))
	require.NoError(t, f.result.RemoveResult(ctx, testYear, "east-r64-1"))

	_, err = f.result.RecordResult(ctx, testYear, "east-r64-1", "east-16")
	require.NoError(t, err)

	err = f.result.RemoveResult(ctx, testYear, "east-r32-1")
	assert.ErrorIs(t, err, ErrResultNotFound)
	err = f.result.RemoveResult(ctx, testYear, "nope")
	assert.ErrorIs(t, err, ErrUnknownGame)

	assert.Contains(t, f.hub.types(), hub.MessageResultRemoved)
}

func TestRecordResultWithoutBroadcaster(t *testing.T) {
	f := newFixture(t)
	svc := NewResultService(f.results, f.bracket, f.standings, nil, nil)

	_, err := svc.RecordResult(context.Background(), testYear, "west-r64-8", "west-02")
	require.NoError(t, err)
}
