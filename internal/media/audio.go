package media

import (
	"context"
	"fmt"
)

// ExtractAudio extracts audio from video file and converts to 16kHz mono WAV
// This format is optimal for Whisper processing
func (t *implToolkit) ExtractAudio(ctx context.Context, videoPath, outPath string) error {
	ctx, cancel := context.WithTimeout(ctx, ExtractTimeout)
	defer cancel()

	t.logger.Info(ctx, "Extracting audio: %s", videoPath)

	// -vn: No video (audio only)
	// -acodec pcm_s16le: PCM 16-bit little-endian
	// -ar 16000 -ac 1: 16kHz mono
	// -f wav: explicit container, the scratch file name is not trusted
	args := []string{
		"-y",
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-f", "wav",
		outPath,
	}

	if _, err := t.executor.Execute(ctx, t.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	t.logger.Info(ctx, "Audio extracted successfully: %s", outPath)
	return nil
}
