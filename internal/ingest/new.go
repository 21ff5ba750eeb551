package ingest

import (
	"github.com/nguyentantai21042004/video-digest/internal/logger"
	"github.com/nguyentantai21042004/video-digest/internal/scratch"
)

// DefaultSuffix is the declared suffix of uploaded video artifacts.
const DefaultSuffix = ".mp4"

type implIngestor struct {
	scratch scratch.Manager
	logger  logger.Logger
	limit   int64
	suffix  string
}

// New creates an Ingestor that aborts once more than limit bytes arrive.
func New(sm scratch.Manager, log logger.Logger, limit int64) Ingestor {
	return &implIngestor{
		scratch: sm,
		logger:  log,
		limit:   limit,
		suffix:  DefaultSuffix,
	}
}
