package media

import (
	"context"
	"time"
)

// Timeouts for the ffprobe / ffmpeg calls.
const (
	DurationTimeout   = 10 * time.Second
	AudioProbeTimeout = 30 * time.Second
	ExtractTimeout    = 300 * time.Second
	RemuxTimeout      = 300 * time.Second
	SampleTimeout     = 300 * time.Second
)

// Toolkit wraps the codec tooling used by the pipeline.
type Toolkit interface {
	// Duration returns the container duration in seconds.
	Duration(ctx context.Context, videoPath string) (float64, error)
	// HasAudio reports whether the file has at least one audio stream.
	HasAudio(ctx context.Context, videoPath string) (bool, error)
	// ExtractAudio writes a mono 16 kHz PCM WAV of the first audio stream to outPath.
	ExtractAudio(ctx context.Context, videoPath, outPath string) error
	// Remux re-multiplexes videoPath into outPath without re-encoding, ignoring errors.
	Remux(ctx context.Context, videoPath, outPath string) error
	// SampleFrames writes one PNG every interval seconds into outDir and returns
	// the frame paths in timestamp order, at most maxFrames of them.
	SampleFrames(ctx context.Context, videoPath, outDir string, interval float64, maxFrames int) ([]string, error)
}
