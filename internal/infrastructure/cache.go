package infrastructure

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Cache keeps TMDB images on disk so pages can be served without hitting the CDN each time
type Cache struct {
	cachePath string
	client    *http.Client
}

// NewCache initializes the cache folder
func NewCache(cachePath string, client *http.Client) (*Cache, error) {
	err := os.MkdirAll(cachePath, 0755)
	if err != nil {
		return nil, fmt.Errorf("could not create cache directory: %w", err)
	}
	cachePath, err = filepath.Abs(cachePath)
	if err != nil {
		return nil, fmt.Errorf("could not create cache directory: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	log.Info().Str("path", cachePath).Msg("Using cache directory")

	return &Cache{
		cachePath: cachePath,
		client:    client,
	}, nil
}

// GetCachedPath returns the full path from a filepath in the cache.
// The result never escapes the cache directory.
func (c Cache) GetCachedPath(filePath string) string {
	return filepath.Join(c.cachePath, filepath.Clean("/"+filePath))
}

// IsCached returns true if a filepath is in the cache
func (c Cache) IsCached(filePath string) bool {
	info, err := os.Stat(c.GetCachedPath(filePath))
	return err == nil && !info.IsDir()
}

// Fetch returns the on-disk path of filePath, downloading it from sourceUrl first if needed.
// hasToWait is true when the source rate-limited us; the download is then retried later
// and the caller should fall back to sourceUrl.
func (c Cache) Fetch(sourceUrl, filePath string) (cachedPath string, hasToWait bool, err error) {
	if c.IsCached(filePath) {
		return c.GetCachedPath(filePath), false, nil
	}
	hasToWait, err = c.CacheFile(sourceUrl, filePath)
	if err != nil || hasToWait {
		return "", hasToWait, err
	}
	return c.GetCachedPath(filePath), false, nil
}

// CacheFile caches a file from a sourceUrl to the filePath in the cache folder
// Returns true if the URL returns a Status TooManyRequests (429) and will retry at a later moment
// Returns false if the file was immediately cached
func (c Cache) CacheFile(sourceUrl string, filePath string) (hasToWait bool, err error) {
	target := c.GetCachedPath(filePath)
	// Create directories in the requested path if needed
	parent := filepath.Dir(target)
	if _, err := os.Stat(parent); errors.Is(err, os.ErrNotExist) {
		err = os.MkdirAll(parent, 0755)
		if err != nil {
			return false, err
		}
	}
	// Get file as buffer
	resp, err := c.client.Get(sourceUrl)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusTooManyRequests {
		waitSeconds, err := strconv.Atoi(resp.Header.Get("retry-after"))
		if err != nil {
			waitSeconds = 300 // Wait 5 minutes by default
		}
		time.AfterFunc(time.Duration(waitSeconds)*time.Second, func() {
			if _, err := c.CacheFile(sourceUrl, filePath); err != nil {
				log.Error().Err(err).Str("url", sourceUrl).Msg("Could not cache file after waiting")
			}
		})
		return true, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("could not fetch source file: status %d", resp.StatusCode)
	}
	// Write to a temporary file first so concurrent readers never see a partial image
	out, err := os.CreateTemp(parent, ".download-*")
	if err != nil {
		return false, err
	}
	n, err := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(out.Name())
		return false, err
	}
	if err := os.Rename(out.Name(), target); err != nil {
		os.Remove(out.Name())
		return false, err
	}
	log.Debug().Str("url", sourceUrl).Int64("size", n).Msg("Cached file")

	return false, nil
}
