package history

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Record(ctx, Run{
		ID:         "first",
		StartedAt:  base,
		FinishedAt: base.Add(16 * time.Second),
		Outcome:    "skipped",
		ZeroCount:  7,
	}))
	require.NoError(t, s.Record(ctx, Run{
		ID:         "second",
		StartedAt:  base.Add(time.Hour),
		FinishedAt: base.Add(time.Hour + 17*time.Second),
		Outcome:    "published",
		Snapshot:   json.RawMessage(`{"mnav":3}`),
	}))
	require.NoError(t, s.Record(ctx, Run{
		ID:         "third",
		StartedAt:  base.Add(2 * time.Hour),
		FinishedAt: base.Add(2*time.Hour + time.Second),
		Outcome:    "failed",
		Error:      "render: net::ERR_NAME_NOT_RESOLVED",
	}))

	runs, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "third", runs[0].ID)
	assert.Equal(t, "failed", runs[0].Outcome)
	assert.Equal(t, "render: net::ERR_NAME_NOT_RESOLVED", runs[0].Error)
	assert.Nil(t, runs[0].Snapshot)

	assert.Equal(t, "second", runs[1].ID)
	assert.JSONEq(t, `{"mnav":3}`, string(runs[1].Snapshot))
	assert.True(t, runs[1].StartedAt.Equal(base.Add(time.Hour)))
}

func TestRecord_DuplicateID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	r := Run{ID: "dup", StartedAt: time.Now(), FinishedAt: time.Now(), Outcome: "published"}

	require.NoError(t, s.Record(ctx, r))
	assert.Error(t, s.Record(ctx, r))
}
