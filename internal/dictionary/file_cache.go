package dictionary

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FileCache keeps downloaded word lists on disk so a list is fetched once.
type FileCache struct {
	rootDir string
}

func NewFileCache(cacheDirectory string) *FileCache {
	return &FileCache{
		rootDir: cacheDirectory,
	}
}

// filePath names the cache entry after a hash of the URL.
func (cache *FileCache) filePath(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(cache.rootDir, hex.EncodeToString(sum[:])+".txt")
}

// load returns the cached body of url, calling download on a miss.
func (cache *FileCache) load(url string, download func() ([]byte, error)) ([]byte, error) {
	localFilePath := cache.filePath(url)
	if contents, err := os.ReadFile(localFilePath); err == nil {
		slog.Default().Debug("word list cache hit",
			slog.String("url", url),
			slog.String("path", localFilePath),
		)
		return contents, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", localFilePath, err)
	}

	contents, err := download()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cache.rootDir, 0755); err != nil {
		return contents, fmt.Errorf("os.MkdirAll(%s) > %w", cache.rootDir, err)
	}
	if err := os.WriteFile(localFilePath, contents, 0644); err != nil {
		return contents, fmt.Errorf("os.WriteFile(%s) > %w", localFilePath, err)
	}
	return contents, nil
}
