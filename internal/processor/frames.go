package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/video-digest/internal/ocr"
	"github.com/nguyentantai21042004/video-digest/internal/scratch"
)

// processFrames samples video every step seconds and returns the filtered,
// de-duplicated text of each frame that still has any, in timestamp order.
// Decode failures are repaired once by remuxing; nothing here fails the run.
func (p *implProcessor) processFrames(ctx context.Context, video *scratch.Artifact, step float64) []string {
	dir, err := p.scratch.Dir("frames")
	if err != nil {
		p.logger.Warn(ctx, "Could not allocate frame directory: %v", err)
		return nil
	}
	defer p.scratch.Release(ctx, dir)

	frames, err := p.media.SampleFrames(ctx, video.Path, dir.Path, step, p.opts.MaxFrames)
	if err != nil {
		p.logger.Warn(ctx, "Frame sampling failed, attempting repair: %v", err)

		repaired, err := p.repair(ctx, video)
		if err != nil {
			p.logger.Warn(ctx, "Video repair failed, skipping frames: %v", err)
			return nil
		}
		defer p.scratch.Release(ctx, repaired)

		retryDir := filepath.Join(dir.Path, "repaired")
		if err := os.MkdirAll(retryDir, 0o755); err != nil {
			p.logger.Warn(ctx, "Could not create retry frame directory: %v", err)
			return nil
		}
		frames, err = p.media.SampleFrames(ctx, repaired.Path, retryDir, step, p.opts.MaxFrames)
		if err != nil {
			p.logger.Warn(ctx, "Frame sampling failed after repair, skipping frames: %v", err)
			return nil
		}
	}

	p.logger.Info(ctx, "Running OCR on %d frames", len(frames))

	dedup := NewDeduper(p.opts.DedupWindow)
	var texts []string
	for i, frame := range frames {
		if err := ctx.Err(); err != nil {
			p.logger.Warn(ctx, "Frame OCR interrupted after %d/%d frames: %v", i, len(frames), err)
			break
		}

		lines, err := p.recognize(ctx, frame)
		if err != nil {
			p.logger.Warn(ctx, "OCR failed on frame %d, skipping: %v", i+1, err)
			continue
		}

		var kept []string
		for _, l := range lines {
			text, ok := p.opts.Filter.Clean(l)
			if !ok || dedup.Seen(text) {
				continue
			}
			kept = append(kept, text)
		}
		if len(kept) > 0 {
			texts = append(texts, strings.Join(kept, "\n"))
		}
	}

	p.logger.Info(ctx, "Frame OCR completed: %d of %d frames carried text", len(texts), len(frames))
	return texts
}

// repair remuxes video into a fresh artifact owned by the caller.
func (p *implProcessor) repair(ctx context.Context, video *scratch.Artifact) (*scratch.Artifact, error) {
	out, err := p.scratch.Reserve(".mp4")
	if err != nil {
		return nil, err
	}
	if err := p.media.Remux(ctx, video.Path, out.Path); err != nil {
		p.scratch.Release(ctx, out)
		return nil, err
	}
	if size, err := out.Stat(); err != nil || size == 0 {
		p.scratch.Release(ctx, out)
		return nil, fmt.Errorf("remuxed video is missing or empty")
	}
	return out, nil
}

// recognize preprocesses one frame and runs OCR on it. When preprocessing fails the
// raw frame is used.
func (p *implProcessor) recognize(ctx context.Context, frame string) ([]ocr.Line, error) {
	input := frame
	if pre, err := ocr.Preprocess(frame); err != nil {
		p.logger.Debug(ctx, "Frame preprocessing failed, using raw frame: %v", err)
	} else {
		input = pre
	}
	return p.ocr.Recognize(ctx, input, p.opts.OCRLanguage)
}
