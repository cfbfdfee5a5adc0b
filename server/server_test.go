package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mnavtracker/cache"
	"mnavtracker/logger"
	"mnavtracker/publish"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *cache.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { c.Close() })

	srv := httptest.NewServer(New(c, "mnav:", logger.New()).Handler())
	t.Cleanup(srv.Close)
	return srv, c, mr
}

func TestParams_NotPublishedYet(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/params")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestParams_ReturnsMirroredSnapshot(t *testing.T) {
	srv, c, _ := newTestServer(t)
	err := publish.NewRedis(c, "mnav:").Publish(context.Background(), publish.DefaultPath, map[string]any{
		"mnav":       3.0,
		"updatetime": "Oct 17, 2026, 10:30 JST",
	})
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/params")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 3.0, got["mnav"])
	assert.Equal(t, "Oct 17, 2026, 10:30 JST", got["updatetime"])
}

func TestParams_RejectsPost(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/params", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	srv, _, mr := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	mr.Close()
	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
