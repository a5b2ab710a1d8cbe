package media

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInspector returns a canned ProbeResult or error.
type fakeInspector struct {
	result *ProbeResult
	err    error
	calls  int
}

func (f *fakeInspector) Inspect(ctx context.Context, path string) (*ProbeResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestProbe(t *testing.T) {
	inspector := &fakeInspector{
		result: &ProbeResult{
			Streams: []Stream{
				{Index: 0, CodecType: "audio", CodecName: "aac"},
				{Index: 1, CodecType: "video", CodecName: "h264", Width: 640, Height: 480, FrameRate: "30/1"},
			},
			Format: Format{Duration: "10.000000"},
		},
	}

	prober := NewProber(inspector)
	meta, err := prober.Probe(context.Background(), "video.mp4")
	require.NoError(t, err)

	assert.Equal(t, "h264", meta.Codec)
	assert.Equal(t, 640, meta.Width)
	assert.Equal(t, 480, meta.Height)
	assert.Equal(t, 10.0, meta.Duration)
	assert.Equal(t, 30.0, meta.Framerate)
}

func TestProbeNoVideoStream(t *testing.T) {
	inspector := &fakeInspector{
		result: &ProbeResult{
			Streams: []Stream{
				{Index: 0, CodecType: "audio", CodecName: "aac"},
			},
			Format: Format{Duration: "10.0"},
		},
	}

	prober := NewProber(inspector)
	_, err := prober.Probe(context.Background(), "audio.mp4")
	assert.ErrorIs(t, err, ErrNoVideoStream)
}

func TestProbeInspectionFailure(t *testing.T) {
	inspector := &fakeInspector{err: errors.New("ffprobe failed: corrupt file")}

	prober := NewProber(inspector)
	_, err := prober.Probe(context.Background(), "corrupt.mp4")

	require.Error(t, err)
	// Inspection failures are distinct from the missing-stream condition
	assert.NotErrorIs(t, err, ErrNoVideoStream)
	assert.Contains(t, err.Error(), "corrupt file")
}

func TestProbeMissingDuration(t *testing.T) {
	inspector := &fakeInspector{
		result: &ProbeResult{
			Streams: []Stream{
				{Index: 0, CodecType: "video", CodecName: "h264", FrameRate: "25/1"},
			},
			Format: Format{},
		},
	}

	prober := NewProber(inspector)
	_, err := prober.Probe(context.Background(), "video.mp4")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoVideoStream)
}

func TestProbeDefaults(t *testing.T) {
	// Missing codec, dimensions and frame rate are defaulted, not rejected
	inspector := &fakeInspector{
		result: &ProbeResult{
			Streams: []Stream{
				{Index: 0, CodecType: "video"},
			},
			Format: Format{Duration: "3.5"},
		},
	}

	prober := NewProber(inspector)
	meta, err := prober.Probe(context.Background(), "video.mp4")
	require.NoError(t, err)

	assert.Equal(t, "unknown", meta.Codec)
	assert.Equal(t, 0, meta.Width)
	assert.Equal(t, 0, meta.Height)
	assert.Equal(t, 3.5, meta.Duration)
	assert.Equal(t, 0.0, meta.Framerate)
}

func TestProbeFirstVideoStreamWins(t *testing.T) {
	inspector := &fakeInspector{
		result: &ProbeResult{
			Streams: []Stream{
				{Index: 0, CodecType: "video", CodecName: "h264", Width: 1920, Height: 1080, FrameRate: "25/1"},
				{Index: 1, CodecType: "video", CodecName: "mjpeg", Width: 320, Height: 240, FrameRate: "1/1"},
			},
			Format: Format{Duration: "60"},
		},
	}

	prober := NewProber(inspector)
	meta, err := prober.Probe(context.Background(), "video.mp4")
	require.NoError(t, err)
	assert.Equal(t, "h264", meta.Codec)
	assert.Equal(t, 1920, meta.Width)
}

func TestProbeIdempotent(t *testing.T) {
	inspector := &fakeInspector{
		result: &ProbeResult{
			Streams: []Stream{
				{Index: 0, CodecType: "video", CodecName: "vp9", Width: 1280, Height: 720, FrameRate: "24000/1001"},
			},
			Format: Format{Duration: "42.42"},
		},
	}

	prober := NewProber(inspector)

	first, err := prober.Probe(context.Background(), "video.webm")
	require.NoError(t, err)
	second, err := prober.Probe(context.Background(), "video.webm")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, inspector.calls)
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		name    string
		rate    string
		want    float64
		wantErr bool
	}{
		{"integer rate", "30/1", 30.0, false},
		{"zero denominator", "0/0", 0.0, false},
		{"ntsc rate", "25000/1001", 24.975024975024976, false},
		{"fractional", "24000/1001", 23.976023976023978, false},
		{"no separator", "30", 0, true},
		{"garbage numerator", "abc/1", 0, true},
		{"garbage denominator", "30/xyz", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFrameRate(tt.rate)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
