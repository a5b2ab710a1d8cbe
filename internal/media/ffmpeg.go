package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// Stream represents a single stream descriptor from the container.
type Stream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	FrameRate string `json:"r_frame_rate,omitempty"`
}

// Format represents the container-level format fields.
type Format struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

// ProbeResult holds the raw structured description of a media container.
type ProbeResult struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Inspector describes the external media-inspection capability.
type Inspector interface {
	Inspect(ctx context.Context, path string) (*ProbeResult, error)
}

// FrameExtractor describes the external frame-extraction capability. It
// seeks to the given timestamp, decodes one frame and returns it encoded
// as a PNG image.
type FrameExtractor interface {
	ExtractFrame(ctx context.Context, path string, timestamp float64) ([]byte, error)
}

// FFprobeInspector implements Inspector by executing ffprobe.
type FFprobeInspector struct {
	binPath string
}

// NewFFprobeInspector creates an Inspector backed by the ffprobe binary at
// the given path.
func NewFFprobeInspector(binPath string) *FFprobeInspector {
	if binPath == "" {
		binPath = "ffprobe"
	}
	return &FFprobeInspector{binPath: binPath}
}

// Inspect runs ffprobe on the file and parses its JSON output.
func (i *FFprobeInspector) Inspect(ctx context.Context, path string) (*ProbeResult, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		path,
	}

	cmd := exec.CommandContext(ctx, i.binPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w: %s", err, stderr.String())
	}

	var result ProbeResult
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	return &result, nil
}

// FFmpegExtractor implements FrameExtractor by executing ffmpeg with the
// PNG bytes emitted on stdout, no intermediate file.
type FFmpegExtractor struct {
	binPath string
}

// NewFFmpegExtractor creates a FrameExtractor backed by the ffmpeg binary
// at the given path.
func NewFFmpegExtractor(binPath string) *FFmpegExtractor {
	if binPath == "" {
		binPath = "ffmpeg"
	}
	return &FFmpegExtractor{binPath: binPath}
}

// ExtractFrame seeks to the timestamp, decodes exactly one video frame and
// returns it PNG-encoded.
func (e *FFmpegExtractor) ExtractFrame(ctx context.Context, path string, timestamp float64) ([]byte, error) {
	args := []string{
		"-ss", strconv.FormatFloat(timestamp, 'f', -1, 64),
		"-i", path,
		"-vframes", "1",
		"-f", "image2",
		"-c:v", "png",
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, e.binPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %v: %s", ErrExtractionFailed, err, stderr.String())
	}

	return stdout.Bytes(), nil
}
