package publish

import (
	"context"
	"errors"
	"testing"

	"mnavtracker/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fields = map[string]any{
	"mstrPrice":  1234.0,
	"mnav":       3.0,
	"updatetime": "Oct 17, 2026, 10:30 JST",
}

func TestMemory_MergesAndIsIdempotent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Publish(ctx, DefaultPath, map[string]any{"keep": "me"}))
	require.NoError(t, m.Publish(ctx, DefaultPath, fields))
	once := m.Document(DefaultPath)

	require.NoError(t, m.Publish(ctx, DefaultPath, fields))
	twice := m.Document(DefaultPath)

	assert.Equal(t, once, twice)
	assert.Equal(t, "me", twice["keep"])
	assert.Equal(t, 1234.0, twice["mstrPrice"])
	assert.Equal(t, 3, m.Calls())
}

func TestMemory_CanceledContext(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.Publish(ctx, DefaultPath, fields), context.Canceled)
	assert.Nil(t, m.Document(DefaultPath))
}

type failing struct{ err error }

func (f failing) Publish(context.Context, string, map[string]any) error { return f.err }

func TestMulti_StopsAtFirstError(t *testing.T) {
	first, last := NewMemory(), NewMemory()
	boom := errors.New("boom")

	err := Multi{first, failing{boom}, last}.Publish(context.Background(), DefaultPath, fields)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, first.Calls())
	assert.Equal(t, 0, last.Calls())
}

func TestRedis_MirrorsHashAndLatest(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	defer c.Close()
	ctx := context.Background()

	r := NewRedis(c, "mnav:")
	require.NoError(t, r.Publish(ctx, DefaultPath, fields))
	require.NoError(t, r.Publish(ctx, DefaultPath, fields))

	assert.Equal(t, "mnav:params", r.HashKey(DefaultPath))
	hash, err := c.HGetAll(ctx, "mnav:params")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"mstrPrice":  "1234",
		"mnav":       "3",
		"updatetime": "Oct 17, 2026, 10:30 JST",
	}, hash)

	var latest map[string]any
	require.NoError(t, c.GetJSON(ctx, "mnav:latest", &latest))
	assert.Equal(t, 3.0, latest["mnav"])
	assert.False(t, mr.Exists("mnav:mnav:latest"))
}
