package processor

import (
	"context"
	"errors"
	"strings"

	"github.com/nguyentantai21042004/video-digest/internal/scratch"
	"github.com/nguyentantai21042004/video-digest/pkg/executor"
)

// processAudio transcribes the audio track of video. Every failure degrades to an
// empty Extraction; the extracted WAV never outlives this call.
func (p *implProcessor) processAudio(ctx context.Context, video *scratch.Artifact) Extraction {
	empty := Extraction{Empty: true}

	hasAudio, err := p.media.HasAudio(ctx, video.Path)
	if err != nil {
		p.logger.Warn(ctx, "Audio probe failed, skipping transcription: %v", err)
		return empty
	}
	if !hasAudio {
		p.logger.Info(ctx, "No audio track found, skipping transcription")
		return empty
	}

	wav, err := p.scratch.Reserve(".wav")
	if err != nil {
		p.logger.Warn(ctx, "Could not allocate audio artifact: %v", err)
		return empty
	}
	defer p.scratch.Release(ctx, wav)

	if err := p.media.ExtractAudio(ctx, video.Path, wav.Path); err != nil {
		p.logger.Warn(ctx, "Audio extraction failed: %v", err)
		return empty
	}

	size, err := wav.Stat()
	if err != nil || size == 0 {
		p.logger.Warn(ctx, "Extracted audio is missing or empty")
		return empty
	}

	p.logger.Info(ctx, "Starting transcription (%d bytes of audio)", size)
	text, err := p.transcriber.Transcribe(ctx, wav.Path)
	if err != nil {
		if errors.Is(err, executor.ErrTimeout) {
			p.logger.Warn(ctx, "Transcription timed out: %v", err)
		} else {
			p.logger.Warn(ctx, "Transcription failed: %v", err)
		}
		return empty
	}

	text = strings.TrimSpace(text)
	if text == "" {
		p.logger.Info(ctx, "Transcription produced no text")
		return empty
	}

	p.logger.Info(ctx, "Transcription completed: %d characters", len(text))
	return Extraction{Text: text}
}
