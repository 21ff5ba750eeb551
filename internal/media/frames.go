package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Remux copies every stream into a fresh container, which repairs most broken indexes.
func (t *implToolkit) Remux(ctx context.Context, videoPath, outPath string) error {
	ctx, cancel := context.WithTimeout(ctx, RemuxTimeout)
	defer cancel()

	args := []string{
		"-y",
		"-err_detect", "ignore_err",
		"-i", videoPath,
		"-c", "copy",
		"-f", "mp4",
		outPath,
	}

	if _, err := t.executor.Execute(ctx, t.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg remux: %w", err)
	}
	return nil
}

// SampleFrames decodes the video at a fixed wall-clock interval with the fps filter.
func (t *implToolkit) SampleFrames(ctx context.Context, videoPath, outDir string, interval float64, maxFrames int) ([]string, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("frame interval must be positive, got %v", interval)
	}

	ctx, cancel := context.WithTimeout(ctx, SampleTimeout)
	defer cancel()

	args := []string{
		"-y",
		"-i", videoPath,
		"-vf", fmt.Sprintf("fps=1/%g", interval),
	}
	if maxFrames > 0 {
		args = append(args, "-frames:v", fmt.Sprintf("%d", maxFrames))
	}
	args = append(args, filepath.Join(outDir, "frame_%06d.png"))

	if _, err := t.executor.Execute(ctx, t.ffmpegPath, args...); err != nil {
		return nil, fmt.Errorf("ffmpeg sample frames: %w", err)
	}

	frames, err := listFrames(outDir)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames produced by ffmpeg")
	}
	if maxFrames > 0 && len(frames) > maxFrames {
		frames = frames[:maxFrames]
	}

	t.logger.Debug(ctx, "Sampled %d frames every %gs", len(frames), interval)
	return frames, nil
}

func listFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}

	var frames []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "frame_") && strings.EqualFold(filepath.Ext(name), ".png") {
			frames = append(frames, filepath.Join(dir, name))
		}
	}
	sort.Strings(frames)
	return frames, nil
}
