package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/wpmtest/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "wpmtest.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func sampleSession(i int) model.SessionStats {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour)
	return model.SessionStats{
		UUID:        fmt.Sprintf("session-%d", i),
		StartedAt:   start,
		EndedAt:     start.Add(time.Minute),
		DurationSec: 60,
		Typed:       200 + i,
		Errors:      i,
		WPM:         40,
		Accuracy:    0.99,
		WordList:    "builtin",
	}
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		id, err := st.InsertSession(ctx, sampleSession(i), []model.CharStats{
			{Char: "a", Correct: 4, Incorrect: 1},
			{Char: "b", Correct: 2, Incorrect: 0},
		})
		require.NoError(t, err)
		assert.Positive(t, id)
	}

	sessions, err := st.ListSessions(ctx, model.StatsConfig{})
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, 200, sessions[0].Typed)
	assert.Equal(t, 2, sessions[2].Errors)
	assert.Equal(t, 60, sessions[1].DurationSec)
	assert.True(t, sessions[0].EndedAt.Before(sessions[2].EndedAt))

	since := time.Date(2024, 3, 1, 11, 30, 0, 0, time.UTC)
	filtered, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, 202, filtered[0].Typed)
}

func TestListCharAggregatesForSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 2; i++ {
		id, err := st.InsertSession(ctx, sampleSession(i), []model.CharStats{
			{Char: "e", Correct: 3, Incorrect: 2},
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	aggs, err := st.ListCharAggregatesForSessions(ctx, ids)
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	assert.Equal(t, model.CharAggregate{Char: "e", Correct: 6, Incorrect: 4}, aggs[0])

	none, err := st.ListCharAggregatesForSessions(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInsertSessionRejectsDuplicateUUID(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.InsertSession(ctx, sampleSession(1), nil)
	require.NoError(t, err)
	_, err = st.InsertSession(ctx, sampleSession(1), []model.CharStats{{Char: "x", Correct: 1}})
	require.Error(t, err)

	sessions, err := st.ListSessions(ctx, model.StatsConfig{})
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}
