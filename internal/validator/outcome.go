package validator

import "fmt"

// Gate names one check of the chain.
type Gate string

const (
	GateMinSize  Gate = "min_size"
	GateMaxSize  Gate = "max_size"
	GateDuration Gate = "duration"
	// GateDurationProbe rejects when the probe fails and the chain is not fail-open.
	GateDurationProbe Gate = "duration_probe"
)

// Rejection describes the first failing gate.
type Rejection struct {
	Gate     Gate
	Reason   string
	Observed float64
	Limit    float64
}

func (r *Rejection) Error() string {
	switch r.Gate {
	case GateMinSize:
		return fmt.Sprintf("video file too small: %.0f bytes", r.Observed)
	case GateMaxSize:
		return fmt.Sprintf("video file too large: %.0f bytes > %.0f limit", r.Observed, r.Limit)
	case GateDuration:
		return fmt.Sprintf("video too long: %.1fs > %.0fs limit", r.Observed, r.Limit)
	default:
		return r.Reason
	}
}

// Outcome is the immutable result of validation: accepted, or rejected by one gate.
type Outcome struct {
	rejection *Rejection
}

// Accepted returns the passing outcome.
func Accepted() Outcome {
	return Outcome{}
}

// Rejected returns a failing outcome.
func Rejected(r Rejection) Outcome {
	return Outcome{rejection: &r}
}

// Accepted reports whether every gate passed.
func (o Outcome) Accepted() bool {
	return o.rejection == nil
}

// Rejection returns a copy of the rejection, or nil when accepted.
func (o Outcome) Rejection() *Rejection {
	if o.rejection == nil {
		return nil
	}
	r := *o.rejection
	return &r
}
