package scratch

import (
	"fmt"
	"os"

	"github.com/nguyentantai21042004/video-digest/internal/logger"
)

type implManager struct {
	root   string
	logger logger.Logger
}

// New creates a Manager rooted at dir, creating the directory if needed.
func New(dir string, log logger.Logger) (Manager, error) {
	if dir == "" {
		return nil, fmt.Errorf("scratch dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir %s: %w", dir, err)
	}
	return &implManager{
		root:   dir,
		logger: log,
	}, nil
}
