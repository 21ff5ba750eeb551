package media

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Duration asks ffprobe for the container duration.
func (t *implToolkit) Duration(ctx context.Context, videoPath string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, DurationTimeout)
	defer cancel()

	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		videoPath,
	}

	out, err := t.executor.Execute(ctx, t.ffprobePath, args...)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w", err)
	}

	raw := strings.TrimSpace(out)
	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", raw, err)
	}

	t.logger.Debug(ctx, "Video duration: %.2fs", duration)
	return duration, nil
}

// HasAudio probes the first audio stream. A non-zero ffprobe exit is an error,
// an empty answer means no audio.
func (t *implToolkit) HasAudio(ctx context.Context, videoPath string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, AudioProbeTimeout)
	defer cancel()

	args := []string{
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=codec_type",
		"-of", "csv=p=0",
		videoPath,
	}

	out, err := t.executor.Execute(ctx, t.ffprobePath, args...)
	if err != nil {
		return false, fmt.Errorf("ffprobe audio stream: %w", err)
	}
	return strings.Contains(strings.ToLower(out), "audio"), nil
}
