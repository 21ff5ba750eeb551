package validator

import (
	"context"

	"github.com/nguyentantai21042004/video-digest/internal/scratch"
)

// DurationProber reports a video's duration in seconds.
type DurationProber interface {
	Duration(ctx context.Context, videoPath string) (float64, error)
}

// Limits configures the gate chain.
type Limits struct {
	MinBytes    int64
	MaxBytes    int64
	MaxDuration float64
	// FailOpen treats a failed duration probe as a zero duration.
	FailOpen bool
}

// Validator runs the ordered gate chain over an uploaded artifact.
type Validator interface {
	Validate(ctx context.Context, a *scratch.Artifact) Outcome
}
