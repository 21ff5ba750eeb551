package summarizer

import (
	"context"
	"strings"
)

func (s *implSummarizer) Summarize(ctx context.Context, audioText string, frameTexts []string, filename string) string {
	digest := Fuse(audioText, frameTexts, filename)
	if s.refiner == nil {
		return digest
	}

	refined, err := s.refiner.Refine(ctx, digest)
	if err != nil {
		s.logger.Warn(ctx, "Summary refinement failed, using fused digest: %v", err)
		return digest
	}
	refined = strings.TrimSpace(refined)
	if refined == "" {
		s.logger.Warn(ctx, "Summary refinement returned nothing, using fused digest")
		return digest
	}
	return refined
}
