package validator

import "github.com/nguyentantai21042004/video-digest/internal/logger"

type implValidator struct {
	limits Limits
	prober DurationProber
	logger logger.Logger
}

// New creates a Validator.
func New(limits Limits, prober DurationProber, log logger.Logger) Validator {
	return &implValidator{
		limits: limits,
		prober: prober,
		logger: log,
	}
}
