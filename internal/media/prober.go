package media

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"videosnap/pkg/models"
)

var (
	ErrNoVideoStream = errors.New("no video stream found")
)

// Prober derives normalized video metadata from a container's stream
// descriptors via an Inspector. It keeps no state between calls.
type Prober struct {
	inspector Inspector
}

// NewProber creates a new Prober using the given inspection capability.
func NewProber(inspector Inspector) *Prober {
	return &Prober{inspector: inspector}
}

// Probe inspects the file at path and returns its normalized metadata.
//
// The first stream declared as video is used; if none exists the probe
// fails with ErrNoVideoStream. Codec defaults to "unknown" and dimensions
// to 0 when the stream omits them. Duration comes from the format-level
// fields and is required.
func (p *Prober) Probe(ctx context.Context, path string) (models.VideoMetadata, error) {
	var meta models.VideoMetadata

	result, err := p.inspector.Inspect(ctx, path)
	if err != nil {
		return meta, fmt.Errorf("inspection failed: %w", err)
	}

	var video *Stream
	for idx := range result.Streams {
		if result.Streams[idx].CodecType == "video" {
			video = &result.Streams[idx]
			break
		}
	}
	if video == nil {
		return meta, ErrNoVideoStream
	}

	codec := video.CodecName
	if codec == "" {
		codec = "unknown"
	}

	if result.Format.Duration == "" {
		return meta, errors.New("container format reports no duration")
	}
	duration, err := strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil {
		return meta, fmt.Errorf("failed to parse duration %q: %w", result.Format.Duration, err)
	}

	frameRate := video.FrameRate
	if frameRate == "" {
		frameRate = "0/0"
	}
	framerate, err := ParseFrameRate(frameRate)
	if err != nil {
		return meta, err
	}

	meta = models.VideoMetadata{
		Codec:     codec,
		Width:     video.Width,
		Height:    video.Height,
		Duration:  duration,
		Framerate: framerate,
	}

	return meta, nil
}

// ParseFrameRate parses a rational frame-rate encoding like "30/1" into
// frames per second. A zero denominator yields 0.0 rather than an error,
// matching how ffprobe reports streams with no usable frame rate.
func ParseFrameRate(rate string) (float64, error) {
	num, den, ok := strings.Cut(rate, "/")
	if !ok {
		return 0, fmt.Errorf("invalid frame rate %q: missing separator", rate)
	}

	numF, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frame rate numerator %q: %w", num, err)
	}
	denF, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frame rate denominator %q: %w", den, err)
	}

	if denF == 0 {
		return 0, nil
	}

	return numF / denF, nil
}
