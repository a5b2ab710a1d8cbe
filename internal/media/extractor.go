package media

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrTimestampOutOfBounds = errors.New("timestamp out of video duration bounds")
	ErrExtractionFailed     = errors.New("frame extraction failed")
)

// Extractor produces single-frame PNG snapshots via a FrameExtractor.
//
// Timestamps are validated against the known duration before the underlying
// tool is invoked: seeking past end-of-stream or to a negative offset makes
// ffmpeg fail slowly or emit empty output, so rejecting bad input up front
// gives a fast, precise diagnostic.
type Extractor struct {
	frames FrameExtractor
}

// NewExtractor creates a new Extractor using the given extraction capability.
func NewExtractor(frames FrameExtractor) *Extractor {
	return &Extractor{frames: frames}
}

// Extract returns the PNG bytes of the frame at the given timestamp.
//
// Returns ErrTimestampOutOfBounds when the timestamp falls outside
// [0, duration]; the underlying capability is not invoked in that case.
func (e *Extractor) Extract(ctx context.Context, path string, timestamp, duration float64) ([]byte, error) {
	if timestamp < 0 || timestamp > duration {
		return nil, fmt.Errorf("%w: %g not in [0, %g]", ErrTimestampOutOfBounds, timestamp, duration)
	}

	data, err := e.frames.ExtractFrame(ctx, path, timestamp)
	if err != nil {
		if errors.Is(err, ErrExtractionFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	return data, nil
}
