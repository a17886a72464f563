package infrastructure

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"
)

// Cache stores fetched pages on disk, one file per URL
type Cache struct {
	cachePath string
	ttl       time.Duration
}

// NewCache initializes the cache folder. Entries older than ttl are ignored,
// a non-positive ttl keeps them forever.
func NewCache(cachePath string, ttl time.Duration) *Cache {
	err := os.MkdirAll(cachePath, 0755)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not create cache directory")
	}
	cachePath, err = filepath.Abs(cachePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not create cache directory")
	}
	log.Info().Str("path", cachePath).Dur("ttl", ttl).Msg("Using cache directory")

	return &Cache{
		cachePath: cachePath,
		ttl:       ttl,
	}
}

// GetCachedPath returns the full path of the cached page of a URL
func (c Cache) GetCachedPath(pageURL string) string {
	return filepath.Join(c.cachePath, strconv.FormatUint(xxhash.Sum64String(pageURL), 16)+".html")
}

// GetPage returns the cached page of a URL, if it is present and fresh
func (c Cache) GetPage(pageURL string) ([]byte, bool) {
	path := c.GetCachedPath(pageURL)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}
	page, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("url", pageURL).Msg("Could not read cached page")
		return nil, false
	}
	return page, true
}

// CachePage writes the page of a URL to the cache folder
func (c Cache) CachePage(pageURL string, page []byte) error {
	if len(page) == 0 {
		return errors.New("empty page")
	}
	path := c.GetCachedPath(pageURL)
	tmp, err := os.CreateTemp(c.cachePath, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	_, err = tmp.Write(page)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmp.Name(), 0644)
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	log.Debug().Str("url", pageURL).Int("size", len(page)).Msg("Cached page")
	return nil
}
