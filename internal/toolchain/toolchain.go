// Package toolchain locates the external media tools the service shells out
// to: ffprobe for inspection, ffmpeg for frame extraction and yt-dlp for
// acquisition.
package toolchain

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

const ytdlpReleaseAPI = "https://api.github.com/repos/yt-dlp/yt-dlp/releases/latest"

var ErrToolNotFound = errors.New("required tool not found")

// githubRelease represents a GitHub release
type githubRelease struct {
	TagName string `json:"tag_name"`
	Assets  []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// Find resolves a tool path: an explicit path is checked as-is, a bare name
// is looked up in $PATH.
func Find(tool string) (string, error) {
	p, err := exec.LookPath(tool)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrToolNotFound, tool, err)
	}
	return p, nil
}

// Verify checks that every given tool is resolvable, returning the first
// failure.
func Verify(tools ...string) error {
	for _, tool := range tools {
		if _, err := Find(tool); err != nil {
			return err
		}
	}
	return nil
}

// EnsureYtdlp makes sure a yt-dlp binary exists at the given path,
// downloading the platform build from the official releases when absent.
// A bare command name that resolves via $PATH is accepted as installed.
func EnsureYtdlp(path string) error {
	if _, err := Find(path); err == nil {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return downloadYtdlp(path)
}

// downloadYtdlp fetches the latest yt-dlp release asset for this platform
// and installs it at path, writing to a temp file first so a partial
// download never becomes visible under the final name.
func downloadYtdlp(path string) error {
	resp, err := http.Get(ytdlpReleaseAPI)
	if err != nil {
		return fmt.Errorf("failed to fetch yt-dlp release info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return fmt.Errorf("failed to parse release info: %w", err)
	}

	assetName := ytdlpAssetName()
	var downloadURL string
	for _, asset := range release.Assets {
		if asset.Name == assetName {
			downloadURL = asset.BrowserDownloadURL
			break
		}
	}
	if downloadURL == "" {
		return fmt.Errorf("no yt-dlp asset found for platform: %s", assetName)
	}

	resp, err = http.Get(downloadURL)
	if err != nil {
		return fmt.Errorf("failed to download yt-dlp: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create tool directory: %w", err)
	}

	tmpPath := path + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	_, err = io.Copy(out, resp.Body)
	out.Close()
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Chmod(tmpPath, 0755); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to make executable: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to install yt-dlp: %w", err)
	}

	return nil
}

// ytdlpAssetName returns the release asset name for the current platform
func ytdlpAssetName() string {
	switch runtime.GOOS {
	case "windows":
		return "yt-dlp.exe"
	case "linux":
		if runtime.GOARCH == "arm64" {
			return "yt-dlp_linux_aarch64"
		}
		return "yt-dlp_linux"
	case "darwin":
		return "yt-dlp_macos"
	default:
		return "yt-dlp"
	}
}
