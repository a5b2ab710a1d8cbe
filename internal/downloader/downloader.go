package downloader

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/shlex"

	"videosnap/internal/cache"
	"videosnap/pkg/models"
)

var (
	ErrDownloadFailed     = errors.New("download failed")
	ErrVideoIDNotFound    = errors.New("video ID not found")
	ErrDownloadInProgress = errors.New("download already in progress for this video")
)

// Downloader acquires YouTube videos via yt-dlp and stores them under the
// locator's deterministic cache path.
type Downloader struct {
	mu       sync.Mutex
	config   *models.Config
	locator  *cache.Locator
	inflight map[string]struct{}
}

// NewDownloader creates a new downloader writing into the locator's cache
// directory.
func NewDownloader(config *models.Config, locator *cache.Locator) *Downloader {
	return &Downloader{
		config:   config,
		locator:  locator,
		inflight: make(map[string]struct{}),
	}
}

// Download fetches the video behind the given YouTube URL and caches it as
// an mp4 file keyed by its video ID. Returns the video ID on success.
//
// Downloads of the same ID are mutually exclusive so a cache entry is never
// written by two yt-dlp processes at once. An already-cached ID returns
// immediately without re-downloading.
func (d *Downloader) Download(ctx context.Context, videoURL string) (string, error) {
	videoID, err := ExtractVideoID(videoURL)
	if err != nil {
		return "", err
	}

	if err := d.acquire(videoID); err != nil {
		return "", err
	}
	defer d.release(videoID)

	outputPath, err := d.locator.CachedPath(videoID)
	if err != nil {
		return "", err
	}

	// Already cached, nothing to do
	if _, err := os.Stat(outputPath); err == nil {
		return videoID, nil
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	if err := d.executeDownload(ctx, videoURL, outputPath); err != nil {
		return "", err
	}

	if _, err := os.Stat(outputPath); err != nil {
		return "", fmt.Errorf("%w: yt-dlp produced no output file", ErrDownloadFailed)
	}

	return videoID, nil
}

// acquire marks the video ID as in flight
func (d *Downloader) acquire(videoID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.inflight[videoID]; ok {
		return fmt.Errorf("%w: %s", ErrDownloadInProgress, videoID)
	}
	d.inflight[videoID] = struct{}{}
	return nil
}

func (d *Downloader) release(videoID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.inflight, videoID)
}

// executeDownload executes yt-dlp to download and merge the video
func (d *Downloader) executeDownload(ctx context.Context, videoURL, outputPath string) error {
	args := []string{
		"--no-playlist",
		"--no-warnings",
		"-f", fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]", d.config.YtdlMaxRes, d.config.YtdlMaxRes),
		"--merge-output-format", "mp4",
		"-o", outputPath,
	}

	if d.config.YtdlAdditionalArgs != "" {
		extra, err := shlex.Split(d.config.YtdlAdditionalArgs)
		if err != nil {
			return fmt.Errorf("failed to parse additional yt-dlp args: %w", err)
		}
		args = append(args, extra...)
	}

	args = append(args, videoURL)

	cmd := exec.CommandContext(ctx, d.config.YtdlPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %v: %s", ErrDownloadFailed, err, string(output))
	}

	return nil
}

// ExtractVideoID extracts the video ID from a YouTube URL
func ExtractVideoID(urlStr string) (string, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrVideoIDNotFound, err)
	}

	host := parsedURL.Hostname()

	// youtu.be short links
	if host == "youtu.be" {
		videoID := strings.TrimPrefix(parsedURL.Path, "/")
		if videoID != "" {
			return videoID, nil
		}
		return "", ErrVideoIDNotFound
	}

	// youtube.com URLs
	if strings.Contains(host, "youtube.com") {
		// /watch?v=VIDEO_ID
		if parsedURL.Path == "/watch" {
			if videoID := parsedURL.Query().Get("v"); videoID != "" {
				return videoID, nil
			}
		}

		// /embed/VIDEO_ID and /v/VIDEO_ID
		for _, prefix := range []string{"/embed/", "/v/", "/shorts/"} {
			if strings.HasPrefix(parsedURL.Path, prefix) {
				if videoID := strings.TrimPrefix(parsedURL.Path, prefix); videoID != "" {
					return videoID, nil
				}
			}
		}
	}

	return "", ErrVideoIDNotFound
}
