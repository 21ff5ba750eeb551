package validator

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/video-digest/internal/scratch"
)

type gateFunc func(ctx context.Context, a *scratch.Artifact) *Rejection

// Validate runs size-floor, size-ceiling and duration in that order and stops at the
// first failure.
func (v *implValidator) Validate(ctx context.Context, a *scratch.Artifact) Outcome {
	gates := []gateFunc{v.minSize, v.maxSize, v.duration}
	for _, gate := range gates {
		if r := gate(ctx, a); r != nil {
			v.logger.Warn(ctx, "Validation rejected at %s gate: %s", r.Gate, r.Error())
			return Rejected(*r)
		}
	}
	return Accepted()
}

func (v *implValidator) minSize(ctx context.Context, a *scratch.Artifact) *Rejection {
	size := a.Size()
	if size < v.limits.MinBytes {
		return &Rejection{
			Gate:     GateMinSize,
			Reason:   "upload is smaller than the minimum size",
			Observed: float64(size),
			Limit:    float64(v.limits.MinBytes),
		}
	}
	return nil
}

func (v *implValidator) maxSize(ctx context.Context, a *scratch.Artifact) *Rejection {
	size := a.Size()
	if size > v.limits.MaxBytes {
		return &Rejection{
			Gate:     GateMaxSize,
			Reason:   "upload is larger than the maximum size",
			Observed: float64(size),
			Limit:    float64(v.limits.MaxBytes),
		}
	}
	return nil
}

func (v *implValidator) duration(ctx context.Context, a *scratch.Artifact) *Rejection {
	d, err := v.prober.Duration(ctx, a.Path)
	if err != nil {
		if !v.limits.FailOpen {
			return &Rejection{
				Gate:     GateDurationProbe,
				Reason:   fmt.Sprintf("could not determine video duration: %v", err),
				Observed: 0,
				Limit:    v.limits.MaxDuration,
			}
		}
		v.logger.Warn(ctx, "Duration probe failed, treating duration as 0: %v", err)
		d = 0
	}

	v.logger.Info(ctx, "Video duration: %.2fs", d)
	if d > v.limits.MaxDuration {
		return &Rejection{
			Gate:     GateDuration,
			Reason:   "video is longer than the maximum duration",
			Observed: d,
			Limit:    v.limits.MaxDuration,
		}
	}
	return nil
}
