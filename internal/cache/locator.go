package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrVideoNotFound  = errors.New("cached video not found")
	ErrInvalidVideoID = errors.New("invalid video id")
)

const (
	cachedFilePrefix = "cached_"
	cachedFileExt    = ".mp4"
)

// Locator resolves a logical video identifier to a file path on disk.
//
// An empty identifier resolves to the default video, which is assumed to be
// provisioned by deployment and is not existence-checked. A non-empty
// identifier resolves to its deterministic cache path, re-checked for
// existence on every call. The Locator holds no mutable state and is safe
// for concurrent use.
type Locator struct {
	defaultPath string
	cachePath   string
}

// NewLocator creates a new Locator for the given default video path and
// cache directory.
func NewLocator(defaultPath, cachePath string) *Locator {
	return &Locator{
		defaultPath: defaultPath,
		cachePath:   cachePath,
	}
}

// Resolve returns the file path for the given video ID.
//
// Returns ErrInvalidVideoID if the identifier could be used to escape the
// cache directory, and ErrVideoNotFound if no file exists at the cache path.
func (l *Locator) Resolve(videoID string) (string, error) {
	if videoID == "" {
		return l.defaultPath, nil
	}

	path, err := l.CachedPath(videoID)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrVideoNotFound, videoID)
		}
		return "", fmt.Errorf("failed to stat cache file: %w", err)
	}

	return path, nil
}

// CachedPath returns the deterministic cache path for the given video ID
// without checking for existence. The acquisition gateway uses the same
// mapping when writing downloaded files.
func (l *Locator) CachedPath(videoID string) (string, error) {
	if !ValidVideoID(videoID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVideoID, videoID)
	}
	return filepath.Join(l.cachePath, cachedFilePrefix+videoID+cachedFileExt), nil
}

// DefaultPath returns the default video path.
func (l *Locator) DefaultPath() string {
	return l.defaultPath
}

// CachePath returns the cache directory path.
func (l *Locator) CachePath() string {
	return l.cachePath
}

// ValidVideoID reports whether the identifier is safe to interpolate into a
// cache file name. Identifiers carrying path separators or parent-directory
// references are rejected.
func ValidVideoID(videoID string) bool {
	if videoID == "" {
		return false
	}
	if strings.ContainsAny(videoID, `/\`) {
		return false
	}
	if strings.Contains(videoID, "..") {
		return false
	}
	return true
}
