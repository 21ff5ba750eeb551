package summarizer

import "context"

// Summarizer fuses the two extraction results of a run into the response summary.
type Summarizer interface {
	Summarize(ctx context.Context, audioText string, frameTexts []string, filename string) string
}

// Refiner rewrites a fused digest, for example with an LLM.
type Refiner interface {
	Refine(ctx context.Context, digest string) (string, error)
}
