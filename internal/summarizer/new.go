package summarizer

import (
	"github.com/nguyentantai21042004/video-digest/internal/logger"
)

type implSummarizer struct {
	refiner Refiner
	logger  logger.Logger
}

// New creates a Summarizer. With a nil refiner the output is exactly Fuse.
func New(refiner Refiner, log logger.Logger) Summarizer {
	return &implSummarizer{
		refiner: refiner,
		logger:  log,
	}
}
