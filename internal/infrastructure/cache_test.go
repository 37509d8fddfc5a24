package infrastructure_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agurato/cineverse/internal/infrastructure"
)

func TestCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/w500/poster.jpg":
			w.Write([]byte("jpeg-bytes"))
		case "/w500/busy.jpg":
			w.Header().Set("Retry-After", "3600")
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cachePath := t.TempDir()
	cache, err := infrastructure.NewCache(cachePath, srv.Client())
	require.NoError(t, err)

	t.Run("GetCachedPath", func(t *testing.T) {
		path := "/foo/bar"
		abs, err := filepath.Abs(cachePath + path)
		assert.NoError(t, err)
		assert.Equal(t, abs, cache.GetCachedPath(path))
	})

	t.Run("GetCachedPath stays in cache", func(t *testing.T) {
		abs, err := filepath.Abs(filepath.Join(cachePath, "etc/passwd"))
		assert.NoError(t, err)
		assert.Equal(t, abs, cache.GetCachedPath("../../etc/passwd"))
	})

	t.Run("Fetch downloads once", func(t *testing.T) {
		path, hasToWait, err := cache.Fetch(srv.URL+"/w500/poster.jpg", "w500/poster.jpg")
		require.NoError(t, err)
		assert.False(t, hasToWait)
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "jpeg-bytes", string(content))
		assert.True(t, cache.IsCached("w500/poster.jpg"))

		before := hits.Load()
		_, _, err = cache.Fetch(srv.URL+"/w500/poster.jpg", "w500/poster.jpg")
		require.NoError(t, err)
		assert.Equal(t, before, hits.Load())
	})

	t.Run("Fetch rate limited", func(t *testing.T) {
		path, hasToWait, err := cache.Fetch(srv.URL+"/w500/busy.jpg", "w500/busy.jpg")
		assert.NoError(t, err)
		assert.True(t, hasToWait)
		assert.Empty(t, path)
		assert.False(t, cache.IsCached("w500/busy.jpg"))
	})

	t.Run("Fetch missing source", func(t *testing.T) {
		_, _, err := cache.Fetch(srv.URL+"/w500/missing.jpg", "w500/missing.jpg")
		assert.Error(t, err)
		assert.False(t, cache.IsCached("w500/missing.jpg"))
	})
}
